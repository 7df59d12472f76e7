package pixel

// QuantizeRGBA is Quantize over caller-owned memory.
func QuantizeRGBA(data []byte, width, height, quality int) error {
	buf, err := Wrap(data, width, height)
	if err != nil {
		return err
	}
	return Quantize(buf, quality)
}

// ResampleRGBA is Resample over caller-owned memory. dst must already hold
// dstWidth*dstHeight*4 bytes.
func ResampleRGBA(src, dst []byte, srcWidth, srcHeight, dstWidth, dstHeight int) error {
	s, err := Wrap(src, srcWidth, srcHeight)
	if err != nil {
		return err
	}
	d, err := Wrap(dst, dstWidth, dstHeight)
	if err != nil {
		return err
	}
	return Resample(s, d)
}

// ConvolveRGBA is Convolve over caller-owned memory.
func ConvolveRGBA(data []byte, width, height int, kernel []float64) error {
	buf, err := Wrap(data, width, height)
	if err != nil {
		return err
	}
	return Convolve(buf, Kernel(kernel))
}
