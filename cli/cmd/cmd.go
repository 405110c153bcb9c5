package cmd

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
)

type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type outputKey struct{}

type output struct{ out, err io.Writer }

// WithOutput returns a new context.Context directing command output to out
// and diagnostics to errOut.
func WithOutput(ctx context.Context, out, errOut io.Writer) context.Context {
	return context.WithValue(ctx, outputKey{}, output{out: out, err: errOut})
}

// outputFrom returns the writers stored by [WithOutput], defaulting to
// os.Stdout and os.Stderr.
func outputFrom(ctx context.Context) (out, errOut io.Writer) {
	o, _ := ctx.Value(outputKey{}).(output)
	if o.out == nil {
		o.out = os.Stdout
	}

	if o.err == nil {
		o.err = os.Stderr
	}

	return o.out, o.err
}

type sourceFilesKey struct{}

// sourceFiles reads the distinct --source files in order, then stdin if it
// was named.
type sourceFiles struct {
	r     io.Reader
	files []*os.File
}

func (s *sourceFiles) Read(p []byte) (int, error) { return s.r.Read(p) }

// Close closes every opened file. Stdin is left open.
func (s *sourceFiles) Close() error {
	var first error

	for _, f := range s.files {
		if err := f.Close(); err != nil && first == nil {
			first = err
		}
	}

	return first
}

// fileKey identifies a file by device and inode so that the same file named
// twice (by symlink, relative path, ...) is read once.
type fileKey struct {
	dev uint64
	ino uint64
}

// stdinSource names stdin in a --source list.
const stdinSource = "-"

// WithSourceFiles returns a new context.Context holding a reader over the
// given source files. Every "-" (and any path that resolves to stdin) is
// collapsed into a single read of stdin after all regular files. Files that
// cannot be opened are skipped.
func WithSourceFiles(ctx context.Context, sources []string) context.Context {
	return context.WithValue(ctx, sourceFilesKey{}, buildSourceFiles(sources))
}

func buildSourceFiles(sources []string) *sourceFiles {
	if len(sources) == 0 {
		return nil
	}

	var (
		srcs    sourceFiles
		readers []io.Reader
	)

	seen := make(map[fileKey]struct{})

	stdinInfo, _ := os.Stdin.Stat()
	stdinKey, _ := makeFileKey(stdinInfo)
	hasStdin := false

	for _, src := range sources {
		if src == stdinSource {
			hasStdin = true

			continue
		}

		file, key, ok := openUnique(src, seen)
		if !ok {
			continue
		}

		if key == stdinKey {
			hasStdin = true
			_ = file.Close()

			continue
		}

		srcs.files = append(srcs.files, file)
		readers = append(readers, file)
	}

	if hasStdin {
		readers = append(readers, os.Stdin)
	}

	if len(readers) == 0 {
		return nil
	}

	srcs.r = io.MultiReader(readers...)

	return &srcs
}

// openUnique opens path unless a file with the same device and inode is
// already in seen.
func openUnique(path string, seen map[fileKey]struct{}) (*os.File, fileKey, bool) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return nil, fileKey{}, false
	}

	info, err := os.Stat(resolved)
	if err != nil || info.IsDir() {
		return nil, fileKey{}, false
	}

	key, ok := makeFileKey(info)
	if !ok {
		return nil, fileKey{}, false
	}

	if _, dup := seen[key]; dup {
		return nil, key, false
	}

	seen[key] = struct{}{}

	file, err := os.Open(resolved)
	if err != nil {
		return nil, key, false
	}

	return file, key, true
}

func makeFileKey(info os.FileInfo) (fileKey, bool) {
	if info == nil {
		return fileKey{}, false
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return fileKey{}, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true //nolint:unconvert
}

func sourceFilesFrom(ctx context.Context) *sourceFiles {
	s, _ := ctx.Value(sourceFilesKey{}).(*sourceFiles)

	return s
}

// input is one configuration string and where it came from.
type input struct {
	text string
	line int // 0 for a positional argument
}

// maxLine bounds the length of a single configuration string read from a
// source.
const maxLine = 1 << 20

// readInputs returns arg if it is non-empty, otherwise the non-blank,
// non-comment lines of the --source files or stdin.
func readInputs(ctx context.Context, arg string) ([]input, error) {
	if arg != "" {
		return []input{{text: strings.TrimSuffix(arg, "\n")}}, nil
	}

	var r io.Reader = os.Stdin

	if src := sourceFilesFrom(ctx); src != nil {
		defer src.Close()

		r = src
	}

	var inputs []input

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLine)

	for n := 1; sc.Scan(); n++ {
		text := strings.TrimSuffix(sc.Text(), "\r")
		if trimmed := strings.TrimSpace(text); trimmed == "" ||
			strings.HasPrefix(trimmed, "#") {
			continue
		}

		inputs = append(inputs, input{text: text, line: n})
	}

	if err := sc.Err(); err != nil {
		return nil, ErrReadInput.Wrap(err)
	}

	if len(inputs) == 0 {
		return nil, ErrNoInput
	}

	return inputs, nil
}

func (in input) attrs() []slog.Attr {
	if in.line == 0 {
		return nil
	}

	return []slog.Attr{slog.Int("line", in.line)}
}
