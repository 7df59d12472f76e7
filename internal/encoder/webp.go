package encoder

import (
	"fmt"
	"image/png"
	"os"
	"os/exec"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/AnyUserName/pixcore/pixel"
)

// Atomic counter for unique temp file names across goroutines.
var tempCounter atomic.Int64

// toolEncoder shells out to an external encoder that reads a PNG file and
// writes its output to another file. This avoids CGO.
type toolEncoder struct {
	once    sync.Once
	binary  string
	path    string
	install string
}

func (t *toolEncoder) available() bool {
	t.once.Do(func() {
		if p, err := exec.LookPath(t.binary); err == nil {
			t.path = p
		}
	})
	return t.path != ""
}

// run writes buf as a temp PNG, invokes the tool with args(src, dst) and
// returns the bytes it produced.
func (t *toolEncoder) run(buf *pixel.Buffer, ext string, args func(src, dst string) []string) ([]byte, error) {
	if !t.available() {
		return nil, fmt.Errorf("%s not found in PATH; install with: %s", t.binary, t.install)
	}
	if err := buf.Validate(); err != nil {
		return nil, err
	}

	id := tempCounter.Add(1)
	srcFile, err := os.CreateTemp("", fmt.Sprintf("pixcore_%s_src_%d_*.png", t.binary, id))
	if err != nil {
		return nil, fmt.Errorf("create temp: %w", err)
	}
	srcPath := srcFile.Name()
	defer os.Remove(srcPath)

	dstFile, err := os.CreateTemp("", fmt.Sprintf("pixcore_%s_dst_%d_*.%s", t.binary, id, ext))
	if err != nil {
		srcFile.Close()
		return nil, fmt.Errorf("create temp: %w", err)
	}
	dstPath := dstFile.Name()
	dstFile.Close()
	defer os.Remove(dstPath)

	if err := png.Encode(srcFile, buf.Image()); err != nil {
		srcFile.Close()
		return nil, fmt.Errorf("encode temp png: %w", err)
	}
	if err := srcFile.Close(); err != nil {
		return nil, fmt.Errorf("close temp png: %w", err)
	}

	cmd := exec.Command(t.path, args(srcPath, dstPath)...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", t.binary, err, string(out))
	}
	return os.ReadFile(dstPath)
}

// WebPEncoder encodes buffers to WebP by shelling out to cwebp.
// Install: brew install webp / apt install webp
type WebPEncoder struct {
	tool toolEncoder
}

func NewWebPEncoder() *WebPEncoder {
	return &WebPEncoder{tool: toolEncoder{binary: "cwebp", install: "brew install webp"}}
}

func (e *WebPEncoder) Format() string    { return "webp" }
func (e *WebPEncoder) Extension() string { return "webp" }
func (e *WebPEncoder) Available() bool   { return e.tool.available() }

func (e *WebPEncoder) Encode(buf *pixel.Buffer, quality int) ([]byte, error) {
	q := min(100, max(0, quality))
	return e.tool.run(buf, "webp", func(src, dst string) []string {
		args := []string{"-q", strconv.Itoa(q), "-m", "6", "-mt", "-quiet"}
		if q == 100 {
			args = append(args, "-lossless")
		}
		return append(args, src, "-o", dst)
	})
}

// AVIFEncoder encodes buffers to AVIF by shelling out to avifenc.
// Install: brew install libavif / apt install libavif-bin
type AVIFEncoder struct {
	tool toolEncoder
}

func NewAVIFEncoder() *AVIFEncoder {
	return &AVIFEncoder{tool: toolEncoder{binary: "avifenc", install: "brew install libavif"}}
}

func (e *AVIFEncoder) Format() string    { return "avif" }
func (e *AVIFEncoder) Extension() string { return "avif" }
func (e *AVIFEncoder) Available() bool   { return e.tool.available() }

func (e *AVIFEncoder) Encode(buf *pixel.Buffer, quality int) ([]byte, error) {
	// avifenc quantizer: 0 = lossless, 63 = worst.
	avifQ := strconv.Itoa(63 - (min(100, max(0, quality)) * 63 / 100))
	return e.tool.run(buf, "avif", func(src, dst string) []string {
		return []string{"--min", avifQ, "--max", avifQ, "--speed", "6", "-j", "all", src, dst}
	})
}
