package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/klauern/obssync/internal/artifact"
	"github.com/klauern/obssync/internal/config"
	"github.com/klauern/obssync/internal/logging"
	"github.com/klauern/obssync/internal/model"
	"github.com/klauern/obssync/internal/obs"
	"github.com/klauern/obssync/internal/progress"
	"github.com/klauern/obssync/internal/sync"
	"github.com/klauern/obssync/internal/ui"
	"github.com/klauern/obssync/internal/util"
)

// readPassword reads a password without echo. Replaced in tests.
var readPassword = defaultReadPassword

// stdinIsTerminal reports whether a password can be prompted for. Replaced in tests.
var stdinIsTerminal = defaultStdinIsTerminal

func defaultReadPassword(fd int) ([]byte, error) {
	return term.ReadPassword(fd)
}

func defaultStdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) //nolint:gosec // G115 - fd fits in int
}

// newClient builds the build service client. The configured timeout also
// bounds each request.
func newClient(cfg *config.Config) (*obs.Client, error) {
	return obs.New(cfg.Server.URL, cfg.Server.User, cfg.Server.Password,
		obs.WithHTTPClient(&http.Client{Timeout: cfg.Server.Timeout}),
		obs.WithRateLimit(cfg.Server.RequestsPerSecond, 1),
		obs.WithUserAgent("obssync/"+Version),
	)
}

// loadConfig reads the config file named by --config, or the default one,
// and applies the global flag overrides.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path := cmd.String("config"); path != "" {
		cfg, err = config.LoadFromPath(util.ExpandPath(path, ""))
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if v := cmd.String("server"); v != "" {
		cfg.Server.URL = v
	}
	if v := cmd.String("user"); v != "" {
		cfg.Server.User = v
	}
	if v := cmd.String("project"); v != "" {
		cfg.Package.Project = v
	}
	if v := cmd.String("package"); v != "" {
		cfg.Package.Name = v
	}
	if cmd.IsSet("rate") {
		cfg.Server.RequestsPerSecond = cmd.Float("rate")
	}
	if cmd.IsSet("timeout") {
		cfg.Server.Timeout = cmd.Duration("timeout")
	}
	if cmd.Bool("verbose") {
		cfg.Output.Verbose = true
	}

	// A "project/package" argument names the package directly.
	if cmd.Args().Present() {
		ref, err := model.ParsePackageRef(cmd.Args().First())
		if err != nil {
			return nil, err
		}
		cfg.Package.Project = ref.Project
		cfg.Package.Name = ref.Package
	}

	if !cmd.Bool("no-color") {
		ui.ConfigureColors(cfg.Output.Color)
	}
	if cfg.Output.Verbose && !cmd.Bool("debug") {
		configureLogging(cmd, true)
	}

	return cfg, nil
}

// session is everything a remote command needs.
type session struct {
	cfg    *config.Config
	ref    model.PackageRef
	client *obs.Client
	out    io.Writer
}

// newSession loads and validates configuration and connects the client.
// The returned context carries the configured deadline; cancel must be called.
func newSession(ctx context.Context, cmd *cli.Command, needLocalDir bool) (*session, context.Context, context.CancelFunc, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, nil, err
	}

	if needLocalDir {
		if v := cmd.String("dir"); v != "" {
			cfg.Package.LocalDir = v
		}
		wd, _ := os.Getwd()
		cfg.Package.LocalDir = util.ExpandPath(cfg.Package.LocalDir, wd)
	}

	if cfg.Server.Password == "" && stdinIsTerminal() {
		pw, err := promptPassword(cmd.Root().ErrWriter, cfg.Server.User)
		if err != nil {
			return nil, nil, nil, err
		}
		cfg.Server.Password = pw
	}

	if err := cfg.Validate(needLocalDir); err != nil {
		if errors.Is(err, config.ErrMissingPassword) {
			return nil, nil, nil, fmt.Errorf("%w (set OBSSYNC_PASSWORD or run on a terminal)", err)
		}
		return nil, nil, nil, err
	}

	client, err := newClient(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	ref := model.PackageRef{Project: cfg.Package.Project, Package: cfg.Package.Name}
	logging.Debug("session ready",
		logging.Project(ref.Project),
		logging.Package(ref.Package),
		slog.String("server", client.ServerURL()),
	)

	cancel := context.CancelFunc(func() {})
	if cfg.Server.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, cfg.Server.Timeout)
	}

	return &session{cfg: cfg, ref: ref, client: client, out: cmd.Root().Writer}, ctx, cancel, nil
}

// synchronizer wires the client and the OS scanner into a sync.Synchronizer.
func (s *session) synchronizer(cmd *cli.Command, dryRun bool) *sync.Synchronizer {
	opts := sync.Options{DryRun: dryRun}
	if s.cfg.Output.Progress {
		opts.Progress = progress.NewTracker(cmd.Root().ErrWriter).Callback()
	}
	return sync.New(s.client, artifact.NewOSScanner(), opts)
}

// render prints each batch result.
func (s *session) render(results ...*sync.Result) {
	for _, r := range results {
		if r == nil {
			continue
		}
		fmt.Fprintln(s.out, ui.RenderResult(r))
	}
}

func promptPassword(w io.Writer, user string) (string, error) {
	fmt.Fprintf(w, "Password for %s: ", user)
	pw, err := readPassword(int(os.Stdin.Fd())) //nolint:gosec // G115 - fd fits in int
	fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(string(pw), "\r\n"), nil
}
