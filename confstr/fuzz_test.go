package confstr

import (
	"errors"
	"maps"
	"testing"
)

// FuzzParse checks that Parse never panics, that error positions lie within
// the input, and that successful results survive an encode round trip.
func FuzzParse(f *testing.F) {
	f.Add("")
	f.Add("http::host=127.0.0.1;port=9000;")
	f.Add("FTP::HOSTS=abc.com;;def.com;;ghi.net;PORTS=9000;;8000;;7000;;;")
	f.Add("p::n=静;:=42;")
	f.Add("http::x=\x7f;")
	f.Add("http:")
	f.Add("a::b=1;b=2")
	f.Add("\xff")

	f.Fuzz(func(t *testing.T, input string) {
		c, err := Parse(input)
		if err != nil {
			var perr *Error
			if !errors.As(err, &perr) {
				t.Fatalf("error %T is not *Error", err)
			}

			if perr.Pos < 0 || perr.Pos > len(input) {
				t.Fatalf("position %d outside input of length %d", perr.Pos, len(input))
			}

			return
		}

		back, err := Parse(c.Encode())
		if err != nil {
			t.Fatalf("reparse of %q failed: %v", c.Encode(), err)
		}

		if back.Service() != c.Service() || !maps.Equal(back.Params(), c.Params()) {
			t.Fatalf("round trip of %q changed result", input)
		}
	})
}
