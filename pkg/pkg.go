//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
)

//go:embed VERSION
var version string

// Version is the semantic version of the argot module embedded at build time.
// It is printed by the CLI with the --version flag.
var Version = strings.TrimSpace(version)

// SemVer returns [Version] parsed as a semantic version.
// It panics if the embedded VERSION file is malformed.
var SemVer = sync.OnceValue(func() *semver.Version {
	return semver.MustParse(Version)
})

const (
	// Name is the canonical command and module identifier used across the
	// project. For example, it appears in help text and default config paths.
	Name = "argot"
	// Description is a short, human-readable summary of the project used in
	// help output and documentation.
	Description = "Typed command argument parser"
)

// AuthorInfo represents an individual author's name and email address.
type AuthorInfo struct {
	// Name is the author's preferred name or handle.
	Name string
	// Email is the author's contact email address.
	Email string
}

// Author lists the primary author(s) of the project for display in metadata.
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}
