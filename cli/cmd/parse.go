package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/ardnew/confstr/confstr"
	"github.com/ardnew/confstr/log"
)

// Parse validates configuration strings and prints their contents.
type Parse struct {
	Format string `default:"text" enum:"text,json,yaml,table" help:"Output format." short:"o"`
	Indent int    `default:"2"                                help:"Indent width for json and yaml output." short:"i"`
	Redact bool   `                                           help:"Mask values of keys that look sensitive."`

	Input string `arg:"" help:"Configuration string (default: one per line of --source or stdin)." name:"confstr" optional:""`
}

// Run executes the parse command.
func (p *Parse) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	out, errOut := outputFrom(ctx)

	inputs, err := readInputs(ctx, p.Input)
	if err != nil {
		return err
	}

	var (
		first error
		tw    table.Writer
	)

	if p.Format == "table" {
		tw = newTable(out)
		defer tw.Render()
	}

	for i, in := range inputs {
		c, err := parseInput(ctx, errOut, in, slog.String("command", "parse"))
		if err != nil {
			if first == nil {
				first = err
			}

			continue
		}

		if p.Redact {
			c = redacted(c)
		}

		if tw != nil {
			appendRows(tw, c)

			continue
		}

		if err := p.write(ctx, out, c, i); err != nil {
			return err
		}

		log.DebugContext(ctx, "parsed", slog.Any("confstr", c))
	}

	return first
}

func (p *Parse) write(
	ctx context.Context,
	w io.Writer,
	c *confstr.ConfStr,
	index int,
) error {
	switch p.Format {
	case "json":
		var (
			data []byte
			err  error
		)

		if p.Indent > 0 {
			data, err = json.MarshalIndent(c, "", strings.Repeat(" ", p.Indent))
		} else {
			data, err = json.Marshal(c)
		}

		if err != nil {
			return ErrJSONMarshal.Wrap(err)
		}

		_, err = fmt.Fprintln(w, string(data))

		return err

	case "yaml":
		var opts []yaml.EncodeOption
		if p.Indent > 0 {
			opts = append(opts, yaml.Indent(p.Indent))
		} else {
			opts = append(opts, yaml.Flow(true))
		}

		data, err := yaml.MarshalContext(ctx, c, opts...)
		if err != nil {
			return ErrYAMLMarshal.Wrap(err)
		}

		if index > 0 {
			if _, err := fmt.Fprintln(w, "---"); err != nil {
				return err
			}
		}

		_, err = fmt.Fprint(w, string(data))

		return err

	default:
		if index > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}

		if _, err := fmt.Fprintf(w, "service: %s\n", c.Service()); err != nil {
			return err
		}

		for k, v := range c.All() {
			if _, err := fmt.Fprintf(w, "  %s = %q\n", k, v); err != nil {
				return err
			}
		}

		return nil
	}
}

// redacted returns a copy of c with sensitive values replaced by
// [log.Redacted].
func redacted(c *confstr.ConfStr) *confstr.ConfStr {
	params := c.Params()
	for k := range params {
		if log.Sensitive(log.DefaultRedactKeys, k) {
			params[k] = log.Redacted
		}
	}

	return confstr.New(c.Service(), params)
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Service", "Key", "Value"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, AutoMerge: true},
	})

	style := table.StyleLight
	style.Options.DrawBorder = false
	t.SetStyle(style)

	return t
}

// appendRows adds one row per parameter of c, or a single row for a service
// without parameters.
func appendRows(t table.Writer, c *confstr.ConfStr) {
	if c.Len() == 0 {
		t.AppendRow(table.Row{c.Service(), "", ""})

		return
	}

	for k, v := range c.All() {
		t.AppendRow(table.Row{c.Service(), k, v})
	}
}
