package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/confstr/log"
)

// Fmt rewrites configuration strings in canonical form: parameters sorted by
// key, each terminated by ';', with ';' in values escaped as ";;".
type Fmt struct {
	Check bool `help:"Report inputs not in canonical form instead of printing them." short:"c"`

	Input string `arg:"" help:"Configuration string (default: one per line of --source or stdin)." name:"confstr" optional:""`
}

// Run executes the fmt command.
func (f *Fmt) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	out, errOut := outputFrom(ctx)

	inputs, err := readInputs(ctx, f.Input)
	if err != nil {
		return err
	}

	var first error

	keep := func(err error) {
		if first == nil {
			first = err
		}
	}

	for _, in := range inputs {
		c, err := parseInput(ctx, errOut, in, slog.String("command", "fmt"))
		if err != nil {
			keep(err)

			continue
		}

		canon := c.Encode()

		if !f.Check {
			if _, err := fmt.Fprintln(out, canon); err != nil {
				return err
			}

			continue
		}

		if canon != in.text {
			log.DebugContext(ctx, "not canonical",
				slog.Any("confstr", c),
				slog.Int("line", in.line),
			)

			_, _ = fmt.Fprintln(errOut, canon)

			keep(ErrNotCanonical.With(in.attrs()...))
		}
	}

	return first
}
