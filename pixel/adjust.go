package pixel

import (
	"math"
	"strings"
)

// ColorFilter is a per-pixel color adjustment.
type ColorFilter int

const (
	FilterNone ColorFilter = iota
	FilterGrayscale
	FilterSepia
	FilterInvert
	FilterBrighten
	FilterDarken
)

// brightnessStep is the channel offset used by brighten and darken.
const brightnessStep = 30

var colorFilterNames = [...]string{
	FilterNone:      "none",
	FilterGrayscale: "grayscale",
	FilterSepia:     "sepia",
	FilterInvert:    "invert",
	FilterBrighten:  "brighten",
	FilterDarken:    "darken",
}

func (f ColorFilter) String() string {
	if f < 0 || int(f) >= len(colorFilterNames) {
		return "unknown"
	}
	return colorFilterNames[f]
}

// ParseColorFilter maps a name to a ColorFilter. The empty string is FilterNone.
func ParseColorFilter(name string) (ColorFilter, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return FilterNone, nil
	}
	if name == "gray" || name == "greyscale" {
		return FilterGrayscale, nil
	}
	for i, n := range colorFilterNames {
		if n == name {
			return ColorFilter(i), nil
		}
	}
	return FilterNone, invalid("filter", "name", "unknown color filter %q", name)
}

// ApplyColorFilter adjusts R, G and B of every pixel in place. Alpha is
// untouched. Results are rounded half to even and clamped to [0,255].
func ApplyColorFilter(buf *Buffer, f ColorFilter) error {
	if err := buf.validate("filter"); err != nil {
		return err
	}
	var fn func(r, g, b float64) (float64, float64, float64)
	switch f {
	case FilterNone:
		return nil
	case FilterGrayscale:
		fn = func(r, g, b float64) (float64, float64, float64) {
			y := r*0.299 + g*0.587 + b*0.114
			return y, y, y
		}
	case FilterSepia:
		fn = func(r, g, b float64) (float64, float64, float64) {
			return r*0.393 + g*0.769 + b*0.189,
				r*0.349 + g*0.686 + b*0.168,
				r*0.272 + g*0.534 + b*0.131
		}
	case FilterInvert:
		fn = func(r, g, b float64) (float64, float64, float64) {
			return 255 - r, 255 - g, 255 - b
		}
	case FilterBrighten:
		fn = func(r, g, b float64) (float64, float64, float64) {
			return r + brightnessStep, g + brightnessStep, b + brightnessStep
		}
	case FilterDarken:
		fn = func(r, g, b float64) (float64, float64, float64) {
			return r - brightnessStep, g - brightnessStep, b - brightnessStep
		}
	default:
		return invalid("filter", "filter", "unknown color filter %d", int(f))
	}

	pix := buf.Pix
	for i := 0; i < len(pix); i += BytesPerPixel {
		r, g, b := fn(float64(pix[i]), float64(pix[i+1]), float64(pix[i+2]))
		pix[i] = toByteEven(r)
		pix[i+1] = toByteEven(g)
		pix[i+2] = toByteEven(b)
	}

	Logger().Debug("color filter", "filter", f.String(), "width", buf.Width, "height", buf.Height)
	return nil
}

func toByteEven(v float64) byte {
	return byte(math.RoundToEven(min(255, max(0, v))))
}
