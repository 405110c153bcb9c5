package cli

import (
	"testing"

	"github.com/ardnew/confstr/log"
)

func TestLogConfig_Scan(t *testing.T) {
	original := log.Default()
	defer log.Config(
		log.WithLevel(original.Level()),
		log.WithFormat(original.Format()),
		log.WithPretty(false),
		log.WithCaller(false),
	)

	tests := []struct {
		name       string
		args       []string
		wantLevel  logLevel
		wantFormat logFormat
		wantPretty bool
		wantCaller bool
	}{
		{"separate values", []string{"--log-level", "debug", "--log-format", "json"}, "debug", "json", true, false},
		{"assigned values", []string{"parse", "--log-level=error", "x"}, "error", "", true, false},
		{"negated pretty", []string{"--no-log-pretty"}, "", "", false, false},
		{"assigned pretty", []string{"--log-pretty=false"}, "", "", false, false},
		{"negated assigned", []string{"--no-log-pretty=false"}, "", "", true, false},
		{"caller", []string{"--log-caller"}, "", "", true, true},
		{"flag-like value not consumed", []string{"--log-level", "--log-caller"}, "", "", true, true},
		{"unrelated", []string{"--source", "a", "--level", "x"}, "", "", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := logConfig{Pretty: true}
			f.scan(tt.args)

			if f.Level != tt.wantLevel || f.Format != tt.wantFormat ||
				f.Pretty != tt.wantPretty || f.Caller != tt.wantCaller {
				t.Errorf("scan(%q) = %+v", tt.args, f)
			}
		})
	}
}

func TestLogConfig_ScanConfiguresDefault(t *testing.T) {
	original := log.Default()
	defer log.Config(log.WithLevel(original.Level()), log.WithFormat(original.Format()))

	var f logConfig
	f.scan([]string{"--log-level=trace", "--log-format=json"})

	if log.Default().Level() != log.LevelTrace {
		t.Errorf("level = %v", log.Default().Level())
	}

	if log.Default().Format() != log.FormatJSON {
		t.Errorf("format = %v", log.Default().Format())
	}
}
