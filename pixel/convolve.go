package pixel

import "math"

// Convolve applies k to the R, G and B channels of every interior pixel of buf
// in place. Interior means at least k.Radius() pixels away from every edge;
// the border ring is left exactly as it was. All sums read from a snapshot of
// the original buffer, so filtered pixels never feed their neighbors. Alpha is
// copied through unchanged.
//
// Sums are clamped to [0,255] and rounded to the nearest integer.
func Convolve(buf *Buffer, k Kernel) error {
	if err := buf.validate("convolve"); err != nil {
		return err
	}
	if err := k.validate("convolve"); err != nil {
		return err
	}

	size := k.Size()
	radius := size / 2
	width, height := buf.Width, buf.Height
	if width-radius <= radius || height-radius <= radius {
		// No interior pixels.
		return nil
	}

	snapshot := make([]byte, len(buf.Pix))
	copy(snapshot, buf.Pix)
	pix := buf.Pix

	for y := radius; y < height-radius; y++ {
		for x := radius; x < width-radius; x++ {
			var r, g, b float64
			for ky := 0; ky < size; ky++ {
				row := (y + ky - radius) * width
				weights := k[ky*size : (ky+1)*size]
				for kx, w := range weights {
					si := (row + x + kx - radius) * BytesPerPixel
					r += float64(snapshot[si]) * w
					g += float64(snapshot[si+1]) * w
					b += float64(snapshot[si+2]) * w
				}
			}
			di := (y*width + x) * BytesPerPixel
			pix[di] = clampByte(r)
			pix[di+1] = clampByte(g)
			pix[di+2] = clampByte(b)
			pix[di+3] = snapshot[di+3]
		}
	}

	Logger().Debug("convolve", "width", width, "height", height, "kernel_size", size)
	return nil
}

func clampByte(v float64) byte {
	return byte(math.Round(min(255, max(0, v))))
}
