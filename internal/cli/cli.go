// Package cli provides the command-line interface for obssync.
package cli

import (
	"context"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/klauern/obssync/internal/logging"
	"github.com/klauern/obssync/internal/ui"
)

var (
	// Version is the current version of the application.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "unknown"
	// BuildDate is the date and time of the build.
	BuildDate = "unknown"
)

// Run executes the CLI application with the given context and arguments.
func Run(ctx context.Context, args []string) error {
	return newApp().Run(ctx, args)
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "obssync",
		Usage:   "Synchronize packaging artifacts with an Open Build Service package",
		Version: Version,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable verbose output (info level logging)",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug output (debug level logging, implies verbose)",
			},
			&cli.BoolFlag{
				Name:  "log-json",
				Usage: "Write logs as JSON",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colored output",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML or TOML config file",
				Sources: cli.EnvVars("OBSSYNC_CONFIG"),
			},
			&cli.StringFlag{
				Name:  "server",
				Usage: "Build service API URL",
			},
			&cli.StringFlag{
				Name:    "user",
				Aliases: []string{"u"},
				Usage:   "Account name for basic authentication",
			},
			&cli.StringFlag{
				Name:  "project",
				Usage: "Project containing the package",
			},
			&cli.StringFlag{
				Name:  "package",
				Usage: "Package to synchronize",
			},
			&cli.FloatFlag{
				Name:  "rate",
				Usage: "Maximum requests per second (0 for unlimited)",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Abort the command after this long (0 for no deadline)",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			configureColors(cmd)
			configureLogging(cmd, cmd.Bool("verbose"))
			return ctx, nil
		},
		Commands: []*cli.Command{
			versionCommand(),
			configCommand(),
			syncCommand(),
			deleteCommand(),
			uploadCommand(),
			listCommand(),
		},
	}
}

// configureColors sets up color output based on CLI flags.
func configureColors(cmd *cli.Command) {
	if cmd.Bool("no-color") {
		ui.DisableColors()
	}
}

// configureLogging sets up the logging level based on CLI flags.
// Without flags only warnings and errors are logged so they do not
// interleave with the rendered results.
func configureLogging(cmd *cli.Command, verbose bool) {
	opts := logging.DefaultOptions()
	opts.Level = slog.LevelWarn
	opts.JSON = cmd.Bool("log-json")

	if cmd.Bool("debug") {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	} else if verbose {
		opts.Level = slog.LevelInfo
	}

	logger := logging.New(opts)
	logging.SetDefault(logger)

	logging.Debug("logging configured", slog.String("level", opts.Level.String()))
}
