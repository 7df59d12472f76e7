package pixel

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Kernel is a square matrix of weights stored row-major. Its length must be
// a perfect square k*k. Weights are applied as given; nothing is normalized.
type Kernel []float64

// Size returns the side length floor(sqrt(len(k))).
func (k Kernel) Size() int {
	return int(math.Sqrt(float64(len(k))))
}

// Radius returns Size()/2, which is also the width of the unfiltered border.
func (k Kernel) Radius() int {
	return k.Size() / 2
}

// Validate rejects empty kernels, lengths that are not perfect squares and
// non-finite weights.
func (k Kernel) Validate() error {
	return k.validate("kernel")
}

func (k Kernel) validate(op string) error {
	if len(k) == 0 {
		return invalid(op, "kernel", "empty")
	}
	if n := k.Size(); n*n != len(k) {
		return invalid(op, "kernel", "length %d is not a perfect square", len(k))
	}
	for i, w := range k {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return invalid(op, "kernel", "weight %d is not finite", i)
		}
	}
	return nil
}

// Identity returns an n x n kernel with 1 at the center.
func Identity(n int) Kernel {
	if n < 1 {
		n = 1
	}
	k := make(Kernel, n*n)
	k[(n/2)*n+n/2] = 1
	return k
}

// Box returns an n x n kernel whose weights are all 1/(n*n).
func Box(n int) Kernel {
	if n < 1 {
		n = 1
	}
	k := make(Kernel, n*n)
	w := 1 / float64(n*n)
	for i := range k {
		k[i] = w
	}
	return k
}

// Sharpen returns the classic 3x3 sharpening kernel.
func Sharpen() Kernel {
	return Kernel{
		0, -1, 0,
		-1, 5, -1,
		0, -1, 0,
	}
}

// EdgeDetect returns a 3x3 Laplacian edge kernel.
func EdgeDetect() Kernel {
	return Kernel{
		-1, -1, -1,
		-1, 8, -1,
		-1, -1, -1,
	}
}

// Emboss returns a 3x3 emboss kernel.
func Emboss() Kernel {
	return Kernel{
		-2, -1, 0,
		-1, 1, 1,
		0, 1, 2,
	}
}

// Gaussian3 returns the 3x3 binomial approximation of a Gaussian blur.
func Gaussian3() Kernel {
	return Kernel{
		1.0 / 16, 2.0 / 16, 1.0 / 16,
		2.0 / 16, 4.0 / 16, 2.0 / 16,
		1.0 / 16, 2.0 / 16, 1.0 / 16,
	}
}

var kernelPresets = map[string]func() Kernel{
	"identity": func() Kernel { return Identity(3) },
	"box":      func() Kernel { return Box(3) },
	"box5":     func() Kernel { return Box(5) },
	"blur":     Gaussian3,
	"sharpen":  Sharpen,
	"edge":     EdgeDetect,
	"emboss":   Emboss,
}

// KernelNames lists the preset names accepted by KernelByName, sorted.
func KernelNames() []string {
	names := make([]string, 0, len(kernelPresets))
	for name := range kernelPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// KernelByName returns a fresh copy of a preset kernel.
func KernelByName(name string) (Kernel, error) {
	f, ok := kernelPresets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, invalid("kernel", "name", "unknown preset %q", name)
	}
	return f(), nil
}

// ParseKernel parses a comma or whitespace separated list of weights, row-major.
func ParseKernel(s string) (Kernel, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t' || r == '\n'
	})
	k := make(Kernel, 0, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, &ArgumentError{Op: "kernel", Field: "weights", Reason: fmt.Sprintf("weight %d: %v", i, err)}
		}
		k = append(k, v)
	}
	if err := k.validate("kernel"); err != nil {
		return nil, err
	}
	return k, nil
}

// ResolveKernel accepts either a preset name or an explicit weight list.
func ResolveKernel(s string) (Kernel, error) {
	if k, err := KernelByName(s); err == nil {
		return k, nil
	}
	return ParseKernel(s)
}
