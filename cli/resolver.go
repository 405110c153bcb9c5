package cli

import (
	"io"
	"log/slog"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/confstr/confstr"
	"github.com/ardnew/confstr/log"
)

// resolve returns a [kong.ConfigurationLoader] for configuration files that
// hold a single configuration string for service name:
//
//	confstr::log_level=debug;log_format=text;source=a.conf,b.conf;
//
// Keys are flag names, with hyphens written as underscores (hyphens are
// accepted too). Blank lines and lines starting with '#' are ignored, and
// the remaining lines are joined so a long string may be wrapped after any
// ';'. A file that does not parse, or names another service, sets nothing.
// Command-line flags override config file values.
func resolve(name string) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}

		c, err := confstr.Parse(joinLines(string(data)))
		if err != nil {
			log.Warn("ignoring configuration file", slog.Any("error", err))

			return config{}, nil
		}

		if c.Service() != name {
			log.Warn("ignoring configuration file",
				slog.String("service", c.Service()),
				slog.String("want", name),
			)

			return config{}, nil
		}

		return config(c.Params()), nil
	}
}

func joinLines(s string) string {
	var b strings.Builder

	for line := range strings.Lines(s) {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		b.WriteString(line)
	}

	return b.String()
}

// config implements [kong.Resolver] over the parameters of a configuration
// string.
type config map[string]string

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	for _, key := range []string{
		strings.ReplaceAll(flag.Name, "-", "_"),
		flag.Name,
	} {
		if v, ok := r[key]; ok {
			return v, nil
		}
	}

	return nil, nil
}
