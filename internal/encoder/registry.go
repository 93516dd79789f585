package encoder

import (
	"fmt"
	"strings"
)

// Registry maps format names (and aliases) to encoders.
type Registry struct {
	encoders map[string]Encoder
}

// NewRegistry creates a registry with the built-in frame encoders.
func NewRegistry() *Registry {
	r := &Registry{
		encoders: make(map[string]Encoder),
	}
	for _, enc := range []Encoder{&PNGEncoder{}, &JPEGEncoder{}} {
		r.encoders[enc.Format()] = enc
	}
	r.encoders["jpg"] = r.encoders["jpeg"]
	return r
}

// Get returns an encoder for the given format, or nil if unknown.
func (r *Registry) Get(format string) Encoder {
	return r.encoders[strings.ToLower(strings.TrimSpace(format))]
}

// Resolve returns the encoder for format or a descriptive error.
func (r *Registry) Resolve(format string) (Encoder, error) {
	if enc := r.Get(format); enc != nil {
		return enc, nil
	}
	return nil, fmt.Errorf("unsupported frame format %q (available: %s)",
		format, strings.Join(r.Available(), ", "))
}

// Available returns the canonical format names in priority order.
func (r *Registry) Available() []string {
	var result []string
	for _, f := range []string{"png", "jpeg"} {
		if _, ok := r.encoders[f]; ok {
			result = append(result, f)
		}
	}
	return result
}

// String returns a human-readable summary of the registered encoders.
func (r *Registry) String() string {
	return "encoders: " + strings.Join(r.Available(), ", ")
}
