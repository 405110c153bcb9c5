package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/confstr/confstr"
)

// maxSuggestions bounds the "did you mean" list of a missing key.
const maxSuggestions = 3

// Get prints the value of one parameter.
type Get struct {
	Key     string `arg:"" help:"Parameter key."                                                  name:"key"`
	Input   string `arg:"" help:"Configuration string (default: first line of --source or stdin)." name:"confstr" optional:""`
	Service bool   `       help:"Print the service name instead of a parameter value; KEY is ignored." short:"S"`
}

// Run executes the get command.
func (g *Get) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	out, errOut := outputFrom(ctx)

	inputs, err := readInputs(ctx, g.Input)
	if err != nil {
		return err
	}

	c, err := parseInput(ctx, errOut, inputs[0], slog.String("command", "get"))
	if err != nil {
		return err
	}

	if g.Service {
		_, err = fmt.Fprintln(out, c.Service())

		return err
	}

	v, ok := c.Get(g.Key)
	if !ok {
		e := ErrKeyNotFound.With(
			slog.String("key", g.Key),
			slog.String("service", c.Service()),
		)

		if s := Suggest(g.Key, c); len(s) > 0 {
			_, _ = fmt.Fprintf(errOut, "key %q not found; did you mean %s?\n",
				g.Key, strings.Join(quoteAll(s), ", "))

			e = e.With(slog.Any("suggest", s))
		}

		return e
	}

	_, err = fmt.Fprintln(out, v)

	return err
}

// Suggest returns up to three keys of c that fuzzily match key, best first.
// Case-insensitive equality ranks ahead of any fuzzy match.
func Suggest(key string, c *confstr.ConfStr) []string {
	keys := c.Keys()

	var out []string

	for _, k := range keys {
		if strings.EqualFold(k, key) {
			out = append(out, k)
		}
	}

	for _, m := range fuzzy.Find(key, keys) {
		if len(out) == maxSuggestions {
			break
		}

		if !strings.EqualFold(m.Str, key) {
			out = append(out, m.Str)
		}
	}

	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}

	return out
}

func quoteAll(s []string) []string {
	q := make([]string, len(s))
	for i, v := range s {
		q[i] = fmt.Sprintf("%q", v)
	}

	return q
}
