package capi

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/ardnew/confstr/log"
)

// Config holds the library settings read from the environment when the
// shared library is loaded.
type Config struct {
	LogLevel  string `default:"warn" enum:"trace,debug,info,warn,error" env:"CONFSTR_LOG_LEVEL"  help:"Set log level."`
	LogFormat string `default:"json" enum:"json,text"                   env:"CONFSTR_LOG_FORMAT" help:"Set log format."`
}

// LoadConfig reads [Config] from the environment. Invalid values yield an
// error along with the defaults.
func LoadConfig() (Config, error) {
	var cfg Config

	parser, err := kong.New(&cfg,
		kong.Name("libconfstr"),
		kong.Exit(func(int) {}),
		kong.Writers(io.Discard, io.Discard),
	)
	if err != nil {
		return Config{LogLevel: "warn", LogFormat: "json"}, err
	}

	if _, err := parser.Parse(nil); err != nil {
		return Config{LogLevel: "warn", LogFormat: "json"}, err
	}

	return cfg, nil
}

// Configure applies the environment settings to the default logger. Log
// output goes to stderr of the host process.
func Configure() {
	cfg, err := LoadConfig()

	log.Config(
		log.WithOutput(os.Stderr),
		log.WithLevel(log.ParseLevel(cfg.LogLevel)),
		log.WithFormat(log.ParseFormat(cfg.LogFormat)),
	)

	if err != nil {
		log.Warn("ignoring invalid library configuration", slog.Any("error", err))
	}
}
