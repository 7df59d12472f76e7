//go:build ignore

// gen_fixtures creates small test images for the E2E smoke test, as PNG plus
// the raw .rgba.zst form the host binding consumes.
// Usage: go run gen_fixtures.go <output_dir>
package main

import (
	"fmt"
	"image/jpeg"
	"os"
	"path/filepath"

	"github.com/AnyUserName/pixcore/internal/encoder"
	"github.com/AnyUserName/pixcore/pixel"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: gen_fixtures <output_dir>")
		os.Exit(1)
	}
	dir := os.Args[1]
	if err := os.MkdirAll(filepath.Join(dir, "cards"), 0o755); err != nil {
		fail(err)
	}

	// Banner (JPEG, 400x225)
	writeJPEG(filepath.Join(dir, "banner.jpg"), gradient(400, 225))

	// Cards: uniform fill with a white border, the box-blur invariant case.
	for i := 1; i <= 3; i++ {
		name := fmt.Sprintf("card-%d", i)
		write(filepath.Join(dir, "cards", name), solidWithBorder(200, 150, uint8(i*60)))
	}

	// One-pixel checkerboard: nearest-neighbor downscale by 2 turns it solid.
	write(filepath.Join(dir, "checker"), checker(64, 64))

	// Alpha ramp: every operation must leave alpha alone.
	write(filepath.Join(dir, "logo"), alphaGradient(100, 100))

	fmt.Fprintf(os.Stderr, "[gen_fixtures] created 6 fixtures in %s\n", dir)
}

func newBuffer(w, h int) *pixel.Buffer {
	buf, err := pixel.NewBuffer(w, h)
	if err != nil {
		fail(err)
	}
	return buf
}

func set(buf *pixel.Buffer, x, y int, r, g, b, a uint8) {
	i := buf.PixOffset(x, y)
	buf.Pix[i], buf.Pix[i+1], buf.Pix[i+2], buf.Pix[i+3] = r, g, b, a
}

func gradient(w, h int) *pixel.Buffer {
	buf := newBuffer(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			set(buf, x, y, uint8(x*255/w), uint8(y*255/h), 128, 255)
		}
	}
	return buf
}

func solidWithBorder(w, h int, base uint8) *pixel.Buffer {
	buf := newBuffer(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x < 4 || x >= w-4 || y < 4 || y >= h-4 {
				set(buf, x, y, 255, 255, 255, 255)
				continue
			}
			set(buf, x, y, base, base+40, base+80, 255)
		}
	}
	return buf
}

func checker(w, h int) *pixel.Buffer {
	buf := newBuffer(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8(0)
			if (x+y)%2 == 1 {
				v = 255
			}
			set(buf, x, y, v, v, v, 255)
		}
	}
	return buf
}

func alphaGradient(w, h int) *pixel.Buffer {
	buf := newBuffer(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			set(buf, x, y, 220, 60, 30, uint8(x*255/w))
		}
	}
	return buf
}

// write stores buf as <base>.png and <base>.rgba.zst.
func write(base string, buf *pixel.Buffer) {
	for _, enc := range []encoder.Encoder{&encoder.PNGEncoder{}, &encoder.RawEncoder{}} {
		data, err := enc.Encode(buf, 100)
		if err != nil {
			fail(err)
		}
		if err := os.WriteFile(base+"."+enc.Extension(), data, 0o644); err != nil {
			fail(err)
		}
	}
}

func writeJPEG(path string, buf *pixel.Buffer) {
	f, err := os.Create(path)
	if err != nil {
		fail(err)
	}
	defer f.Close()
	if err := jpeg.Encode(f, buf.Image(), &jpeg.Options{Quality: 85}); err != nil {
		fail(err)
	}
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "[gen_fixtures]", err)
	os.Exit(1)
}
