// Package cmd implements the confstr subcommands.
//
// Every command reads configuration strings from its positional argument
// or, when that is omitted, one per line from the --source files (stdin by
// default). Blank lines and lines starting with '#' are skipped.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file.
	ConfigIdentifier = "config"
)
