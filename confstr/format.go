package confstr

import (
	"bufio"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
)

// Encode returns c in canonical form: parameters in sorted key order, each
// terminated by ';', with ';' in values written as ";;".
//
// Parsing the result yields a ConfStr equal to c whenever the service and
// keys are valid identifiers and no value holds a control character.
func (c *ConfStr) Encode() string {
	var sb strings.Builder

	_, _ = c.WriteTo(&sb)

	return sb.String()
}

// WriteTo writes the canonical form of c to w.
func (c *ConfStr) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	cw := &countWriter{w: bw}

	_, _ = io.WriteString(cw, c.service)

	if len(c.params) > 0 {
		_, _ = io.WriteString(cw, "::")

		for k, v := range c.All() {
			_, _ = io.WriteString(cw, k)
			_, _ = io.WriteString(cw, "=")
			_, _ = io.WriteString(cw, escape(v))
			_, _ = io.WriteString(cw, ";")
		}
	}

	if cw.err != nil {
		return cw.n, cw.err
	}

	return cw.n, bw.Flush()
}

func escape(v string) string { return strings.ReplaceAll(v, ";", ";;") }

type countWriter struct {
	w   io.Writer
	err error
	n   int64
}

func (cw *countWriter) Write(p []byte) (int, error) {
	if cw.err != nil {
		return 0, cw.err
	}

	n, err := cw.w.Write(p)
	cw.n += int64(n)
	cw.err = err

	return n, err
}

// ToMap returns c as a map with "service" and "params" entries.
func (c *ConfStr) ToMap() map[string]any {
	params := make(map[string]any, len(c.params))
	for k, v := range c.params {
		params[k] = v
	}

	return map[string]any{
		"service": c.service,
		"params":  params,
	}
}

type jsonConfStr struct {
	Params  Params `json:"params"`
	Service string `json:"service"`
}

// MarshalJSON encodes c as {"service": ..., "params": {...}}.
func (c *ConfStr) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonConfStr{Service: c.service, Params: c.params})
}

// UnmarshalJSON decodes the form written by [ConfStr.MarshalJSON].
func (c *ConfStr) UnmarshalJSON(data []byte) error {
	var v jsonConfStr
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	*c = *New(v.Service, v.Params)

	return nil
}

// MarshalYAML encodes c as a mapping with the service ahead of its
// parameters, which follow in sorted key order.
func (c *ConfStr) MarshalYAML() (any, error) {
	params := make(yaml.MapSlice, 0, len(c.params))
	for k, v := range c.All() {
		params = append(params, yaml.MapItem{Key: k, Value: v})
	}

	return yaml.MapSlice{
		{Key: "service", Value: c.service},
		{Key: "params", Value: params},
	}, nil
}
