package cli

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func resolveFlag(t *testing.T, r kong.Resolver, name string) any {
	t.Helper()

	val, err := r.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: name}})
	if err != nil {
		t.Fatalf("Resolve(%s): %v", name, err)
	}

	return val
}

func TestResolve_ReturnsParams(t *testing.T) {
	r, err := resolve("confstr")(strings.NewReader(
		"confstr::log_level=debug;log_format=text;source=a,b;\n"))
	if err != nil {
		t.Fatal(err)
	}

	for name, want := range map[string]any{
		"log_level":  "debug",
		"log-level":  "debug",
		"log-format": "text",
		"source":     "a,b",
		"log-caller": nil,
	} {
		if got := resolveFlag(t, r, name); got != want {
			t.Errorf("%s = %v, want %v", name, got, want)
		}
	}
}

func TestResolve_HyphenatedKeysAreNotIdentifiers(t *testing.T) {
	// Hyphens are not identifier characters, so such a file is ignored.
	r, err := resolve("confstr")(strings.NewReader("confstr::log-level=debug;"))
	if err != nil {
		t.Fatal(err)
	}

	if got := resolveFlag(t, r, "log-level"); got != nil {
		t.Errorf("expected nothing, got %v", got)
	}
}

func TestResolve_WrappedLinesAndComments(t *testing.T) {
	r, err := resolve("confstr")(strings.NewReader(`
# logging
confstr::log_level=info;
  log_pretty=false;

# profiling
pprof_mode=cpu;
`))
	if err != nil {
		t.Fatal(err)
	}

	if got := resolveFlag(t, r, "log-pretty"); got != "false" {
		t.Errorf("log-pretty = %v", got)
	}

	if got := resolveFlag(t, r, "pprof-mode"); got != "cpu" {
		t.Errorf("pprof-mode = %v", got)
	}
}

func TestResolve_IgnoresOtherService(t *testing.T) {
	r, err := resolve("confstr")(strings.NewReader("other::log_level=debug;"))
	if err != nil {
		t.Fatal(err)
	}

	if got := resolveFlag(t, r, "log_level"); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestResolve_IgnoresInvalid(t *testing.T) {
	r, err := resolve("confstr")(strings.NewReader("confstr::log_level"))
	if err != nil {
		t.Fatalf("invalid file should not fail: %v", err)
	}

	if got := resolveFlag(t, r, "log_level"); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

type errorReader struct{ err error }

func (e errorReader) Read([]byte) (int, error) { return 0, e.err }

func TestResolve_ReadError(t *testing.T) {
	boom := errors.New("boom")

	if _, err := resolve("confstr")(errorReader{boom}); !errors.Is(err, boom) {
		t.Errorf("expected read error, got %v", err)
	}
}

func TestResolve_WithKong(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config")
	if err := os.WriteFile(path, []byte("app::log_level=debug;count=3;\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	var cli struct {
		Log struct {
			Level string `default:"info"`
		} `embed:"" prefix:"log-"`
		Count int
		Name  string `default:"x"`
	}

	parser, err := kong.New(&cli, kong.Configuration(resolve("app"), path))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := parser.Parse([]string{"--count=5"}); err != nil {
		t.Fatal(err)
	}

	if cli.Log.Level != "debug" {
		t.Errorf("level = %q, want config value", cli.Log.Level)
	}

	if cli.Count != 5 {
		t.Errorf("count = %d, want command-line value", cli.Count)
	}

	if cli.Name != "x" {
		t.Errorf("name = %q, want default", cli.Name)
	}
}
