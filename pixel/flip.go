package pixel

// FlipHorizontal mirrors buf left to right in place. All four channels move
// together.
func FlipHorizontal(buf *Buffer) error {
	if err := buf.validate("flip"); err != nil {
		return err
	}
	pix := buf.Pix
	for y := 0; y < buf.Height; y++ {
		row := y * buf.Width
		for l, r := 0, buf.Width-1; l < r; l, r = l+1, r-1 {
			li := (row + l) * BytesPerPixel
			ri := (row + r) * BytesPerPixel
			for c := 0; c < BytesPerPixel; c++ {
				pix[li+c], pix[ri+c] = pix[ri+c], pix[li+c]
			}
		}
	}
	Logger().Debug("flip", "axis", "horizontal", "width", buf.Width, "height", buf.Height)
	return nil
}

// FlipVertical mirrors buf top to bottom in place.
func FlipVertical(buf *Buffer) error {
	if err := buf.validate("flip"); err != nil {
		return err
	}
	stride := buf.Width * BytesPerPixel
	tmp := make([]byte, stride)
	for top, bottom := 0, buf.Height-1; top < bottom; top, bottom = top+1, bottom-1 {
		t := buf.Pix[top*stride : (top+1)*stride]
		b := buf.Pix[bottom*stride : (bottom+1)*stride]
		copy(tmp, t)
		copy(t, b)
		copy(b, tmp)
	}
	Logger().Debug("flip", "axis", "vertical", "width", buf.Width, "height", buf.Height)
	return nil
}
