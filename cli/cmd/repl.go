package cmd

import (
	"context"

	"github.com/ardnew/confstr/cli/cmd/repl"
	"github.com/ardnew/confstr/log"
)

// Repl starts an interactive validator for configuration strings.
type Repl struct {
	CacheDir string `default:"${cache}" help:"Directory holding the REPL history." hidden:"" type:"path"`

	Input string `arg:"" help:"Configuration string to start with." name:"confstr" optional:""`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) error {
	return repl.Run(ctx, r.Input, r.CacheDir, log.Default())
}
