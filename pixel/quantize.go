package pixel

import "math"

// QuantizeLevels returns the number of evenly spaced values each color channel
// is reduced to at the given quality, or 0 when quality 100 leaves the buffer
// untouched.
func QuantizeLevels(quality int) int {
	compression := float64(100-quality) / 100
	if compression <= 0 {
		return 0
	}
	return max(2, int(math.Round((1-compression)*255)))
}

// Quantize reduces the R, G and B channels of buf in place to
// QuantizeLevels(quality) levels. Alpha is never touched. Quality 100 is an
// early-out: the buffer is not read or written.
func Quantize(buf *Buffer, quality int) error {
	if err := buf.validate("quantize"); err != nil {
		return err
	}
	if quality < 0 || quality > 100 {
		return invalid("quantize", "quality", "%d outside [0,100]", quality)
	}
	levels := QuantizeLevels(quality)
	if levels == 0 {
		return nil
	}

	// Every input byte maps to exactly one output byte, so precompute them.
	// n*255/steps rather than n*(255/steps): the latter lands on 254.999...
	// for some level counts and truncates the top level to 254.
	var lut [256]byte
	steps := float64(levels - 1)
	for v := range lut {
		n := math.Round(float64(v) / 255 * steps)
		lut[v] = byte(min(255, max(0, n*255/steps)))
	}

	pix := buf.Pix
	for i := 0; i < len(pix); i += BytesPerPixel {
		pix[i] = lut[pix[i]]
		pix[i+1] = lut[pix[i+1]]
		pix[i+2] = lut[pix[i+2]]
	}

	Logger().Debug("quantize", "width", buf.Width, "height", buf.Height, "quality", quality, "levels", levels)
	return nil
}
