package encoder

import (
	"fmt"
	"strings"
)

// priority is the order formats are listed and resolved in.
var priority = []string{"avif", "webp", "jpeg", "png8", "png", "rgba"}

// Registry holds all available encoders and selects the best one per format.
type Registry struct {
	encoders map[string]Encoder
}

// NewRegistry creates a registry, probing all encoders for availability.
// paletteColors configures the png8 encoder (0 = 256).
func NewRegistry(paletteColors int) *Registry {
	return NewRegistryWith(
		NewAVIFEncoder(),
		NewWebPEncoder(),
		&JPEGEncoder{},
		&PalettedPNGEncoder{Colors: paletteColors},
		&PNGEncoder{},
		&RawEncoder{},
	)
}

// NewRegistryWith registers the given encoders. Only available ones are kept.
func NewRegistryWith(all ...Encoder) *Registry {
	r := &Registry{
		encoders: make(map[string]Encoder),
	}
	for _, enc := range all {
		if enc.Available() {
			r.encoders[enc.Format()] = enc
		}
	}
	return r
}

// Get returns an encoder for the given format, or nil if unavailable.
func (r *Registry) Get(format string) Encoder {
	return r.encoders[strings.ToLower(format)]
}

// ForPath picks an encoder from an output file name's extension.
func (r *Registry) ForPath(path string) Encoder {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".rgba.zst"):
		return r.Get("rgba")
	case strings.HasSuffix(lower, ".jpg"), strings.HasSuffix(lower, ".jpeg"):
		return r.Get("jpeg")
	case strings.HasSuffix(lower, ".png"):
		return r.Get("png")
	case strings.HasSuffix(lower, ".webp"):
		return r.Get("webp")
	case strings.HasSuffix(lower, ".avif"):
		return r.Get("avif")
	}
	return nil
}

// Available returns all available format names.
func (r *Registry) Available() []string {
	var result []string
	for _, f := range priority {
		if _, ok := r.encoders[f]; ok {
			result = append(result, f)
		}
	}
	return result
}

// ResolveFormats filters requested formats to only those available,
// and ensures at least one fallback format is present.
func (r *Registry) ResolveFormats(requested []string, hasAlpha bool) []string {
	var resolved []string
	seen := map[string]bool{}

	for _, f := range requested {
		f = strings.ToLower(f)
		if _, ok := r.encoders[f]; ok && !seen[f] {
			resolved = append(resolved, f)
			seen[f] = true
		}
	}

	if len(resolved) == 0 {
		if hasAlpha {
			if r.encoders["png"] != nil {
				resolved = append(resolved, "png")
				seen["png"] = true
			}
		} else if r.encoders["jpeg"] != nil {
			resolved = append(resolved, "jpeg")
		}
	}

	// jpeg drops alpha and not every webp/avif decoder keeps it.
	if hasAlpha && !seen["png"] && r.encoders["png"] != nil {
		resolved = append(resolved, "png")
	}

	return resolved
}

// String returns a summary of available encoders.
func (r *Registry) String() string {
	avail := r.Available()
	if len(avail) == 0 {
		return "no encoders available"
	}
	return fmt.Sprintf("encoders: %s", strings.Join(avail, ", "))
}
