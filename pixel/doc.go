// Package pixel implements in-place transformations of packed RGBA8 pixel
// buffers: per-channel quantization, nearest-neighbor resampling and
// square-kernel convolution, plus a few per-pixel color filters.
//
// Every operation validates its inputs and returns an error wrapping
// ErrInvalidArgument instead of touching memory outside the buffer. Operations
// are synchronous and keep no state between calls, so calls on disjoint
// buffers may run concurrently. Callers must serialize in-place operations on
// the same buffer.
//
// Hosts that hand over raw memory (a canvas ImageData, a WebAssembly linear
// memory slice, a cgo array) can use the *RGBA functions, which take a byte
// slice and its dimensions and never retain or reallocate it:
//
//	if err := pixel.QuantizeRGBA(data, w, h, 80); err != nil {
//	    return err
//	}
package pixel
