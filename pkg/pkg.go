//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version is the semantic version of the module embedded at build time,
// without surrounding whitespace. It is printed by the CLI with --version.
var Version = strings.TrimSpace(version)

const (
	// Name is the canonical command identifier. It appears in help text, in
	// default config and cache paths, and as the prefix of environment
	// variables.
	Name = "stash"
	// Description is the one-line summary shown in help output.
	Description = "Expression-oriented scripting language interpreter"
	// FileExt is the conventional extension of source files. A source named
	// without it is also looked up with it appended.
	FileExt = ".stash"
)

// AuthorInfo represents an individual author's name and email address.
type AuthorInfo struct {
	// Name is the author's preferred name or handle.
	Name string
	// Email is the author's contact email address.
	Email string
}

// Author lists the primary author(s) of the project for display in metadata.
//
//nolint:gochecknoglobals
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}
