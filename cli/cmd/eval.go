package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/goccy/go-json"

	"github.com/ardnew/confstr/confstr"
	"github.com/ardnew/confstr/log"
)

// Eval evaluates an expression against each parsed configuration string.
//
// The expression sees:
//
//	service      string            the service name
//	params       map[string]string the parameters
//	keys         []string          sorted parameter keys
//	get(k)       string            value of k, or "" when missing
//	has(k)       bool              whether k is present
type Eval struct {
	Expr   string `arg:"" help:"Expression to evaluate."                                            name:"expr"`
	Input  string `arg:"" help:"Configuration string (default: one per line of --source or stdin)." name:"confstr" optional:""`
	Assert bool   `       help:"Require a boolean result and fail when it is false; print nothing." short:"a"`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	out, errOut := outputFrom(ctx)

	program, err := e.compile()
	if err != nil {
		return err
	}

	inputs, err := readInputs(ctx, e.Input)
	if err != nil {
		return err
	}

	var first error

	for _, in := range inputs {
		c, err := parseInput(ctx, errOut, in, slog.String("command", "eval"))
		if err != nil {
			if first == nil {
				first = err
			}

			continue
		}

		result, err := expr.Run(program, exprEnv(c))
		if err != nil {
			return ErrExprEval.Wrap(err).
				With(slog.String("expr", e.Expr)).
				With(in.attrs()...)
		}

		log.DebugContext(ctx, "evaluated",
			slog.String("expr", e.Expr),
			slog.Any("confstr", c),
		)

		if e.Assert {
			if ok, _ := result.(bool); !ok && first == nil {
				first = ErrAssertion.
					With(slog.String("expr", e.Expr)).
					With(in.attrs()...)
			}

			continue
		}

		if err := writeResult(out, result); err != nil {
			return err
		}
	}

	return first
}

func (e *Eval) compile() (*vm.Program, error) {
	opts := []expr.Option{expr.Env(exprEnv(confstr.New("", nil)))}
	if e.Assert {
		opts = append(opts, expr.AsBool())
	}

	program, err := expr.Compile(e.Expr, opts...)
	if err != nil {
		return nil, ErrExprCompile.Wrap(err).
			With(slog.String("expr", e.Expr))
	}

	return program, nil
}

// exprEnv builds the expression environment for c.
func exprEnv(c *confstr.ConfStr) map[string]any {
	return map[string]any{
		"service": c.Service(),
		"params":  map[string]string(c.Params()),
		"keys":    c.Keys(),
		"get": func(k string) string {
			v, _ := c.Get(k)

			return v
		},
		"has": func(k string) bool {
			_, ok := c.Get(k)

			return ok
		},
	}
}

// writeResult prints strings verbatim and everything else as JSON.
func writeResult(w io.Writer, v any) error {
	if s, ok := v.(string); ok {
		_, err := fmt.Fprintln(w, s)

		return err
	}

	data, err := json.Marshal(v)
	if err != nil {
		return ErrJSONMarshal.Wrap(err)
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}
