package pixel

// Resample fills dst from src by nearest-neighbor selection: destination pixel
// (x, y) takes the four bytes of source pixel (floor(x*sw/dw), floor(y*sh/dh)).
// dst must be pre-sized for its own dimensions and must not share memory with src.
func Resample(src, dst *Buffer) error {
	if err := src.validate("resample"); err != nil {
		return err
	}
	if err := dst.validate("resample"); err != nil {
		return err
	}
	if overlaps(src.Pix, dst.Pix) {
		return invalid("resample", "dst", "aliases the source buffer")
	}

	scaleX := float64(src.Width) / float64(dst.Width)
	scaleY := float64(src.Height) / float64(dst.Height)

	for y := 0; y < dst.Height; y++ {
		srcY := int(float64(y) * scaleY)
		srcRow := srcY * src.Width
		dstRow := y * dst.Width
		for x := 0; x < dst.Width; x++ {
			srcX := int(float64(x) * scaleX)
			si := (srcRow + srcX) * BytesPerPixel
			di := (dstRow + x) * BytesPerPixel
			copy(dst.Pix[di:di+BytesPerPixel], src.Pix[si:si+BytesPerPixel])
		}
	}

	Logger().Debug("resample",
		"src", src.Dimensions(), "dst", dst.Dimensions(),
		"scale_x", scaleX, "scale_y", scaleY)
	return nil
}

// ResampleTo allocates a width x height buffer and resamples src into it.
func ResampleTo(src *Buffer, width, height int) (*Buffer, error) {
	if err := src.validate("resample"); err != nil {
		return nil, err
	}
	dst, err := NewBuffer(width, height)
	if err != nil {
		return nil, err
	}
	if err := Resample(src, dst); err != nil {
		return nil, err
	}
	return dst, nil
}
