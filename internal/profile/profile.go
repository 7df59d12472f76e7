package profile

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Profile defines the pixel operations and outputs of a build.
type Profile struct {
	Name          string
	Widths        []int    // target widths for nearest-neighbor resample
	Formats       []string // output formats in priority order
	Quality       int      // quantize + encoder quality 0-100
	Retina        bool     // also emit 2x widths
	Kernel        string   // convolution preset or weight list, "" = none
	Filter        string   // color filter name, "" = none
	PaletteColors int      // colors for the png8 encoder, 0 = encoder default
}

// DefaultQuality matches the converter's initial quality setting.
const DefaultQuality = 90

// Built-in profiles.
var profiles = map[string]Profile{
	"web": {
		Name:    "web",
		Widths:  []int{320, 640, 960, 1280},
		Formats: []string{"webp", "jpeg"},
		Quality: DefaultQuality,
		Retina:  true,
	},
	"web-hq": {
		Name:    "web-hq",
		Widths:  []int{640, 1280, 1920},
		Formats: []string{"avif", "webp", "png"},
		Quality: 100,
		Retina:  false,
	},
	"thumbnail": {
		Name:    "thumbnail",
		Widths:  []int{64, 128, 256},
		Formats: []string{"jpeg"},
		Quality: 75,
		Kernel:  "sharpen",
	},
	"poster": {
		Name:          "poster",
		Widths:        []int{640},
		Formats:       []string{"png8", "png"},
		Quality:       10,
		Kernel:        "blur",
		PaletteColors: 16,
	},
}

// Get returns a profile by name. Falls back to web if unknown.
func Get(name string) Profile {
	if p, ok := profiles[name]; ok {
		p.Widths = append([]int(nil), p.Widths...)
		p.Formats = append([]string(nil), p.Formats...)
		return p
	}
	p := Get("web")
	p.Name = name // preserve requested name
	return p
}

// Known reports whether name is a built-in profile.
func Known(name string) bool {
	_, ok := profiles[name]
	return ok
}

// EffectiveWidths returns all widths including retina variants, never
// upscaling past the original width.
func (p Profile) EffectiveWidths(originalWidth int) []int {
	seen := map[int]bool{}
	var result []int

	for _, w := range p.Widths {
		if w > originalWidth || w <= 0 {
			continue
		}
		if !seen[w] {
			seen[w] = true
			result = append(result, w)
		}
		if p.Retina {
			w2 := w * 2
			if w2 <= originalWidth && !seen[w2] {
				seen[w2] = true
				result = append(result, w2)
			}
		}
	}

	if len(result) == 0 && originalWidth > 0 {
		result = append(result, originalWidth)
	}

	return result
}

// ProportionalHeight scales h by w/origW, never below one pixel.
func ProportionalHeight(origW, origH, w int) int {
	h := int(float64(origH) * float64(w) / float64(origW))
	if h < 1 {
		h = 1
	}
	return h
}

// Size is a named output resolution.
type Size struct {
	Width  int
	Height int
}

var sizePresets = map[string]Size{
	"hd":  {1280, 720},
	"fhd": {1920, 1080},
	"2k":  {2048, 1080},
	"4k":  {3840, 2160},
	"8k":  {7680, 4320},
}

// ParseSize accepts a preset name (hd, fhd, 2k, 4k, 8k), WxH, or a single
// side: "W", "Wx" or "xH". A missing side is returned as 0; Resolve fills it
// from the source aspect ratio.
func ParseSize(s string) (Size, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if sz, ok := sizePresets[s]; ok {
		return sz, nil
	}
	ws, hs, _ := strings.Cut(s, "x")
	if ws == "" && hs == "" {
		return Size{}, fmt.Errorf("size %q: want WxH, W, xH or one of hd, fhd, 2k, 4k, 8k", s)
	}
	var sz Size
	var err error
	if ws != "" {
		if sz.Width, err = parseSide(ws); err != nil {
			return Size{}, fmt.Errorf("size %q: width: %w", s, err)
		}
	}
	if hs != "" {
		if sz.Height, err = parseSide(hs); err != nil {
			return Size{}, fmt.Errorf("size %q: height: %w", s, err)
		}
	}
	return sz, nil
}

func parseSide(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, fmt.Errorf("%d is not positive", n)
	}
	return n, nil
}

// Resolve fills a missing side from the w x h aspect ratio, rounding to the
// nearest pixel. A size with both sides set is returned as is; one with
// neither set becomes w x h.
func (s Size) Resolve(w, h int) Size {
	switch {
	case s.Width > 0 && s.Height > 0:
		return s
	case s.Width > 0:
		return Size{s.Width, max(1, int(math.Round(float64(h)*float64(s.Width)/float64(w))))}
	case s.Height > 0:
		return Size{max(1, int(math.Round(float64(w)*float64(s.Height)/float64(h)))), s.Height}
	}
	return Size{w, h}
}

// Scale returns the size of w x h scaled by percent, rounded to the nearest
// pixel and at least 1x1.
func Scale(w, h int, percent float64) Size {
	return Size{
		Width:  max(1, int(math.Round(float64(w)*percent/100))),
		Height: max(1, int(math.Round(float64(h)*percent/100))),
	}
}
