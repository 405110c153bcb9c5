// Package pkg holds project metadata shared by the command and library.
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version is the semantic version of the module, embedded at build time.
var Version = strings.TrimSpace(version)

const (
	// Name is the command name. It also names the default config directory
	// and the service expected in the config file.
	Name = "confstr"
	// Description is a short summary used in help output.
	Description = "Parse and inspect service::key=value; configuration strings"
)

// AuthorInfo represents an individual author's name and email address.
type AuthorInfo struct {
	Name  string
	Email string
}

// Author lists the primary author(s) of the project.
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}
