// Package cmd implements the argot subcommands.
//
// Each command builds a [Signature] from repeated --arg flags of the form
// key:kind[=option][?] and drives it over command text:
//
//	argot parse -a target:ip-or-source -a length:duration -- 203.0.113.7 1d
//	argot complete -a mode:choice=survival,creative -- "cr"
//	argot usage -a mode:choice=survival,creative -a who:text-all
//	argot kinds
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the native configuration file.
	ConfigIdentifier = "config"
)
