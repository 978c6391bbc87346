package cli

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/ardnew/argot/cli/cmd"
	"github.com/ardnew/argot/log"
	"github.com/ardnew/argot/pkg"
)

// CLI is the top-level command-line interface for argot.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit"`
	Source  []string         `help:"Read command text from file(s), one command per line, or '-' for stdin" name:"source" sep:"none" short:"s"`

	Parse    cmd.Parse    `cmd:"" help:"Parse command text into typed values"`
	Complete cmd.Complete `cmd:"" help:"Suggest completions for the last token of command text"`
	Usage    cmd.Usage    `cmd:"" help:"Print the usage line of a signature"`
	Kinds    cmd.Kinds    `cmd:"" help:"List argument kinds"`
	Init     cmd.Init     `cmd:"" help:"Write a configuration file with current flag values"`
}

// settings holds the process environment a run uses.
type settings struct {
	stdin          io.Reader
	stdout, stderr io.Writer
	configDir      string
	cacheDir       string
	env            cmd.Env
}

// Run executes the argot CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	return run(ctx, settings{
		stdin:     os.Stdin,
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		configDir: pkg.ConfigDir(),
		cacheDir:  pkg.CacheDir(),
	}, exit, args...)
}

func run(
	ctx context.Context,
	set settings,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired(set.configDir, set.cacheDir)
	if err != nil {
		return err
	}

	configFilePath := configPath(set.configDir, baseConfig)

	vars := kong.Vars{
		"version":            pkg.Name + " " + pkg.Version,
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  set.cacheDir,
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars(set.cacheDir))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags to ensure early configuration regardless of
	// flag position.
	cli.Log.scan(args)

	groups := []kong.Group{cli.Log.group()}
	if g := cli.Pprof.group(); g.Key != "" {
		groups = append(groups, g)
	}

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.Writers(set.stdout, set.stderr),
		kong.ExplicitGroups(groups),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				FlagsLast:           false,
				NoAppSummary:        false,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configFilePath+".json"),
		kong.Configuration(resolve(cmd.ConfigIdentifier), configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	in, err := cmd.OpenInput(cli.Source, set.stdin)
	if err != nil {
		return err
	}
	defer in.Close()

	// Stuff additional context values for use by commands
	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithInput(ctx, in)
	ctx = cmd.WithEnv(ctx, set.env)

	// Finalize logger configuration with all parsed values including
	// TimeLayout and Caller which don't use TextUnmarshaler.
	cli.Log.start(ctx)

	// [pprofConfig.start] is a no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	log.DebugContext(ctx, "run command", slog.String("command", ktx.Command()))

	ktx.BindTo(ctx, (*context.Context)(nil))

	return ktx.Run()
}
