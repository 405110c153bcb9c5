package confstr

import (
	"iter"
	"log/slog"
	"maps"
	"slices"
	"strconv"
)

// Params maps parameter keys to their unescaped values.
type Params map[string]string

// ConfStr is a parsed configuration string. It is immutable and safe for
// concurrent use.
type ConfStr struct {
	service string
	params  Params
}

// New returns a ConfStr with the given service and a copy of params.
//
// No validation is performed; use [ConfStr.Encode] and [Parse] to check that
// the result is expressible in the grammar.
func New(service string, params map[string]string) *ConfStr {
	p := make(Params, len(params))
	maps.Copy(p, params)

	return &ConfStr{service: service, params: p}
}

// Service returns the service name.
func (c *ConfStr) Service() string { return c.service }

// Get returns the value of key and whether it exists. Keys are compared
// exactly.
func (c *ConfStr) Get(key string) (string, bool) {
	v, ok := c.params[key]

	return v, ok
}

// Params returns a copy of all parameters.
func (c *ConfStr) Params() Params { return maps.Clone(c.params) }

// Len returns the number of parameters.
func (c *ConfStr) Len() int { return len(c.params) }

// Keys returns the parameter keys in sorted order.
func (c *ConfStr) Keys() []string {
	return slices.Sorted(maps.Keys(c.params))
}

// All returns an iterator over the parameters in sorted key order.
func (c *ConfStr) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, k := range c.Keys() {
			if !yield(k, c.params[k]) {
				return
			}
		}
	}
}

// String returns a description of c that omits parameter values.
func (c *ConfStr) String() string {
	return "ConfStr{service: " + strconv.Quote(c.service) + ", ..}"
}

// GoString is like String so that %#v does not print parameter values.
func (c *ConfStr) GoString() string { return c.String() }

// LogValue implements slog.LogValuer. Only keys are logged.
func (c *ConfStr) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("service", c.service),
		slog.Any("keys", c.Keys()),
	)
}
