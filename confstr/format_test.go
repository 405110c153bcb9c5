package confstr

import (
	"errors"
	"maps"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
)

func TestConfStr_Encode(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"https", "https"},
		{"https::", "https"},
		{"http::port=9000;host=localhost", "http::host=localhost;port=9000;"},
		{"FTP::PORTS=9000;;8000;;;", "FTP::PORTS=9000;;8000;;;"},
		{"s::x=;", "s::x=;"},
		{"s::x=協定;", "s::x=協定;"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c, err := Parse(tt.input)
			if err != nil {
				t.Fatal(err)
			}

			if got := c.Encode(); got != tt.want {
				t.Errorf("Encode = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConfStr_EncodeRoundTrip(t *testing.T) {
	c := New("svc", map[string]string{
		"a": ";",
		"b": ";;",
		"c": "x;y;",
		"d": "",
		"e": "=::=",
	})

	back, err := Parse(c.Encode())
	if err != nil {
		t.Fatalf("reparse %q: %v", c.Encode(), err)
	}

	if back.Service() != c.Service() || !maps.Equal(back.Params(), c.Params()) {
		t.Errorf("round trip = %v, want %v", back.Params(), c.Params())
	}

	if back.Encode() != c.Encode() {
		t.Errorf("encode not idempotent: %q != %q", back.Encode(), c.Encode())
	}
}

type failWriter struct{ n int }

func (w *failWriter) Write(p []byte) (int, error) {
	if w.n <= 0 {
		return 0, errors.New("short write")
	}

	w.n--

	return len(p), nil
}

func TestConfStr_WriteTo(t *testing.T) {
	c := New("svc", map[string]string{"k": "v"})

	var sb strings.Builder

	n, err := c.WriteTo(&sb)
	if err != nil {
		t.Fatal(err)
	}

	if n != int64(len("svc::k=v;")) || sb.String() != "svc::k=v;" {
		t.Errorf("WriteTo = %d %q", n, sb.String())
	}

	if _, err := c.WriteTo(&failWriter{}); err == nil {
		t.Error("expected write error")
	}
}

func TestConfStr_JSON(t *testing.T) {
	c := New("http", map[string]string{"host": "localhost", "port": "9000"})

	data, err := c.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}

	want := `{"params":{"host":"localhost","port":"9000"},"service":"http"}`
	if string(data) != want {
		t.Errorf("MarshalJSON = %s, want %s", data, want)
	}

	var back ConfStr
	if err := back.UnmarshalJSON(data); err != nil {
		t.Fatal(err)
	}

	if back.Service() != "http" || !maps.Equal(back.Params(), c.Params()) {
		t.Errorf("UnmarshalJSON = %v %v", back.Service(), back.Params())
	}

	m := c.ToMap()
	if m["service"] != "http" {
		t.Errorf("ToMap service = %v", m["service"])
	}
	if p, ok := m["params"].(map[string]any); !ok || p["port"] != "9000" {
		t.Errorf("ToMap params = %v", m["params"])
	}
}

func TestConfStr_MarshalYAML(t *testing.T) {
	c, err := Parse("db::user=admin;host=localhost;")
	if err != nil {
		t.Fatal(err)
	}

	out, err := yaml.Marshal(c)
	if err != nil {
		t.Fatal(err)
	}

	want := "service: db\nparams:\n  host: localhost\n  user: admin\n"
	if string(out) != want {
		t.Errorf("yaml = %q, want %q", out, want)
	}
}
