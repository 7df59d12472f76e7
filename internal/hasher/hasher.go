package hasher

import (
	"encoding/binary"
	"encoding/hex"
	"io"
	"os"

	"github.com/AnyUserName/pixcore/pixel"
	"github.com/cespare/xxhash/v2"
)

// ContentHash computes the xxHash64 of data and returns a hex string
// truncated to the given length. Content-addressed filenames use 16 hex
// chars (64 bits).
func ContentHash(data []byte, hexLen int) string {
	return truncHex(xxhash.Sum64(data), hexLen)
}

// ContentHashReader computes xxHash64 from a reader, streaming.
func ContentHashReader(r io.Reader, hexLen int) (string, error) {
	h := xxhash.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return truncHex(h.Sum64(), hexLen), nil
}

// FileHash streams the file at path through ContentHashReader.
func FileHash(path string, hexLen int) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return ContentHashReader(f, hexLen)
}

// PixelHash fingerprints a buffer's dimensions and pixels, so two buffers
// with the same bytes but a different shape hash differently.
func PixelHash(buf *pixel.Buffer, hexLen int) string {
	h := xxhash.New()
	var dims [8]byte
	binary.BigEndian.PutUint32(dims[0:4], uint32(buf.Width))
	binary.BigEndian.PutUint32(dims[4:8], uint32(buf.Height))
	h.Write(dims[:])
	h.Write(buf.Pix)
	return truncHex(h.Sum64(), hexLen)
}

func truncHex(v uint64, hexLen int) string {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	full := hex.EncodeToString(b[:])
	if hexLen > 0 && hexLen < len(full) {
		return full[:hexLen]
	}
	return full
}
