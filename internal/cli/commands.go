package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/klauern/obssync/internal/artifact"
	"github.com/klauern/obssync/internal/config"
	"github.com/klauern/obssync/internal/sync"
	"github.com/klauern/obssync/internal/ui"
)

func dryRunFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    "dry-run",
		Aliases: []string{"n"},
		Usage:   "Show the batch with its revision modes without changing the package",
	}
}

func dirFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "dir",
		Aliases: []string{"d"},
		Usage:   "Directory holding the artifacts to upload",
	}
}

func syncCommand() *cli.Command {
	return &cli.Command{
		Name:      "sync",
		Usage:     "Replace the package sources with the local artifacts",
		UsageText: "obssync sync [options] [project/package]",
		Description: `Optionally delete every artifact in the remote package as one revision,
   then upload the local artifacts as a second revision.

   Examples:
     obssync sync --dir ./dist home:alice/hello
     obssync sync --remove-old-sources --dry-run`,
		Flags: []cli.Flag{
			dirFlag(),
			dryRunFlag(),
			&cli.BoolFlag{
				Name:  "remove-old-sources",
				Usage: "Delete remote artifacts before uploading",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			s, ctx, cancel, err := newSession(ctx, cmd, true)
			if err != nil {
				return err
			}
			defer cancel()

			if cmd.IsSet("remove-old-sources") {
				s.cfg.Package.RemoveOldSources = cmd.Bool("remove-old-sources")
			}

			results, err := s.synchronizer(cmd, cmd.Bool("dry-run")).Run(ctx, sync.Plan{
				Package:          s.ref,
				LocalDir:         s.cfg.Package.LocalDir,
				RemoveOldSources: s.cfg.Package.RemoveOldSources,
			})
			s.render(results...)
			return err
		},
	}
}

func deleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete every artifact from the remote package",
		UsageText: "obssync delete [options] [project/package]",
		Flags:     []cli.Flag{dryRunFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			s, ctx, cancel, err := newSession(ctx, cmd, false)
			if err != nil {
				return err
			}
			defer cancel()

			result, err := s.synchronizer(cmd, cmd.Bool("dry-run")).DeleteOldSourceFiles(ctx, s.ref)
			s.render(result)
			return err
		},
	}
}

func uploadCommand() *cli.Command {
	return &cli.Command{
		Name:      "upload",
		Usage:     "Upload the local artifacts to the remote package",
		UsageText: "obssync upload [options] [project/package]",
		Flags:     []cli.Flag{dirFlag(), dryRunFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			s, ctx, cancel, err := newSession(ctx, cmd, true)
			if err != nil {
				return err
			}
			defer cancel()

			result, err := s.synchronizer(cmd, cmd.Bool("dry-run")).UploadSourceFiles(ctx, s.ref, s.cfg.Package.LocalDir)
			s.render(result)
			return err
		},
	}
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Usage:     "List the files of the remote package",
		UsageText: "obssync list [options] [project/package]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "artifacts",
				Usage: "Only show files that sync would delete",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			s, ctx, cancel, err := newSession(ctx, cmd, false)
			if err != nil {
				return err
			}
			defer cancel()

			entries, err := s.client.ListFiles(ctx, s.ref)
			if err != nil {
				return err
			}

			fmt.Fprintln(s.out, ui.Header(s.ref.String()))
			for _, e := range entries {
				switch {
				case artifact.IsArtifact(e.Name):
					fmt.Fprintf(s.out, "  %s %s\n", ui.Info("*"), e.Name)
				case !cmd.Bool("artifacts"):
					fmt.Fprintf(s.out, "    %s\n", ui.Dim(e.Name))
				}
			}
			return nil
		},
	}
}

func configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Display or create the configuration",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "format",
				Usage: "Output format (yaml, toml)",
				Value: "yaml",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			data, err := cfg.Render(cmd.String("format"))
			if err != nil {
				return err
			}
			_, err = cmd.Root().Writer.Write(data)
			return err
		},
		Commands: []*cli.Command{
			{
				Name:  "path",
				Usage: "Print the default config file location",
				Action: func(_ context.Context, cmd *cli.Command) error {
					fmt.Fprintln(cmd.Root().Writer, config.FilePath())
					return nil
				},
			},
			{
				Name:  "init",
				Usage: "Write a default config file",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite an existing config file",
					},
				},
				Action: func(_ context.Context, cmd *cli.Command) error {
					if config.Exists() && !cmd.Bool("force") {
						return fmt.Errorf("config file %s already exists (use --force to overwrite)", config.FilePath())
					}
					if err := config.Default().Save(); err != nil {
						return fmt.Errorf("write config: %w", err)
					}
					fmt.Fprintln(cmd.Root().Writer, ui.StatusSuccess("wrote "+config.FilePath()))
					return nil
				},
			},
		},
	}
}
