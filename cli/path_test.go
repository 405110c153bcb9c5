package cli

import "testing"

func TestExePrefix(t *testing.T) {
	tests := map[string]string{
		"/usr/bin/confstr":       "confstr",
		"/tmp/__debug_bin1234":   "confstr",
		"/home/u/.tool.sh":       "tool",
		"C:/bin/confstr-dev.exe": "confstr-dev",
		"/opt/tool.v2":           "tool",
		"/tmp/...":               "confstr",
	}

	for in, want := range tests {
		if got := exePrefix(in); got != want {
			t.Errorf("exePrefix(%q) = %q, want %q", in, got, want)
		}
	}
}
