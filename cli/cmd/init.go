package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/confstr/confstr"
	"github.com/ardnew/confstr/log"
	"github.com/ardnew/confstr/pkg"
	"github.com/ardnew/confstr/profile"
)

// Init writes a configuration file holding the current flag values as a
// configuration string for the service named after the program:
//
//	confstr::log_format=text;log_level=info;...
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// flagPrefixIgnore lists flags that never belong in a configuration file.
var flagPrefixIgnore = []string{"help", "version", "source", profile.Tag}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)
	if ktx == nil {
		panic("internal error: kong context undefined")
	}

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	conf := confstr.New(pkg.Name, flagParams(ktx))

	// Refuse to write what the resolver could not read back.
	text := conf.Encode()
	if _, err := confstr.Parse(text); err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	if err := os.WriteFile(confPath, []byte(text+"\n"), 0o600); err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file",
		slog.String("path", confPath),
		slog.Any("confstr", conf),
	)

	return nil
}

// flagParams returns the set flags of ktx keyed by identifier: hyphens in
// flag names become underscores.
func flagParams(ktx *kong.Context) map[string]string {
	params := make(map[string]string)

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(flagPrefixIgnore,
			func(s string) bool { return strings.HasPrefix(flag.Name, s) }) {
			continue
		}

		if v, ok := flagString(ktx.FlagValue(flag)); ok {
			params[strings.ReplaceAll(flag.Name, "-", "_")] = v
		}
	}

	return params
}

// flagString formats a flag value the way kong parses it back. Empty values
// are omitted.
func flagString(val any) (string, bool) {
	var s string

	switch v := val.(type) {
	case nil:
		return "", false

	case bool:
		s = strconv.FormatBool(v)

	case string:
		s = v

	case []string:
		s = strings.Join(v, ",")

	case fmt.Stringer:
		s = v.String()

	default:
		s = fmt.Sprint(v)
	}

	return s, s != ""
}
