package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ardnew/confstr/cli/cmd/repl"
	"github.com/ardnew/confstr/confstr"
	"github.com/ardnew/confstr/log"
)

// parseInput parses in, writing a caret diagnostic to w when it fails. The
// diagnostic shows parameter values masked.
func parseInput(
	ctx context.Context,
	w io.Writer,
	in input,
	attrs ...slog.Attr,
) (*confstr.ConfStr, error) {
	c, err := confstr.Parse(in.text)
	if err == nil {
		return c, nil
	}

	var perr *confstr.Error
	if errors.As(err, &perr) {
		prefix := ""
		if in.line > 0 {
			prefix = fmt.Sprintf("line %d: ", in.line)
		}

		lines := strings.SplitN(repl.MaskedCaret(in.text, perr.Pos), "\n", 2)
		_, _ = fmt.Fprintf(w, "%s%s\n%s\n%s\n",
			prefix, perr.Error(), lines[0], repl.MarkStyle.Render(lines[1]))
	}

	log.DebugContext(ctx, "parse failed", slog.Any("error", err))

	return nil, ErrParse.Wrap(err).With(append(in.attrs(), attrs...)...)
}
