// Package cli contains the command line interface for confstr.
//
// # Usage
//
//	confstr [flags] <command> [args]
//
// Without a command, the arguments are passed to parse:
//
//	confstr 'http::host=localhost;port=9000;'
//
// Commands read a configuration string from their positional argument or,
// when it is omitted, one per line from the --source files or stdin.
//
// # Configuration File
//
// Flag defaults are read from <config dir>/config.json and from
// <config dir>/config, the latter written as a configuration string for the
// service "confstr" (see [resolve]):
//
//	confstr::log_format=json;log_level=debug;
//
// "confstr init" writes the current flag values in that form.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, none, ...)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize text output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o confstr .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/confstr/pprof)
package cli
