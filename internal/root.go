package internal

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = ""
)

func versionString() string {
	if Commit == "" {
		return Version
	}
	c := Commit
	if len(c) > 7 {
		c = c[:7]
	}
	return fmt.Sprintf("%s (commit %s)", Version, c)
}

// App holds what a run needs from the outside world.
type App struct {
	// InvokedAs is argv[0]; its basename is the default target.
	InvokedAs string
	// Self is the binary's own file name. Defaults to the resolved
	// os.Executable name.
	Self     string
	Stdout   io.Writer
	Stderr   io.Writer
	Executor Executor
	// Notifier overrides the notify command from config when set.
	Notifier Notifier
	Now      func() time.Time
}

// NewRootCmd builds the single command. Flag parsing is done by ParseArgs
// because positionals and passthrough follow rules pflag cannot express.
func NewRootCmd(app *App) *cobra.Command {
	var opts Options

	name := invocationName(app.InvokedAs)
	cmd := &cobra.Command{
		Use:                name + " {module|playbook} [arg] [-- passthrough...]",
		Short:              "Run an ansible module or playbook against the host or group this binary is named after",
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
		RunE: func(cmd *cobra.Command, argv []string) error {
			return app.run(cmd.Context(), cmd.Flags(), &opts, argv)
		},
	}
	cmd.SetOut(app.Stdout)
	cmd.SetErr(app.Stderr)
	opts.Bind(cmd.Flags())

	return cmd
}

// Execute runs the root command with argv (without the program name).
func Execute(ctx context.Context, app *App, argv []string) error {
	cmd := NewRootCmd(app)
	cmd.SetArgs(argv)
	return cmd.ExecuteContext(ctx)
}

// Main is the process entry point; it returns the exit code.
func Main(argv []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &App{
		InvokedAs: argv[0],
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		Executor:  NewExecExecutor(),
	}

	return exitCode(Execute(ctx, app, argv[1:]), app.Stderr)
}

type exitCoder interface {
	ExitCode() int
}

// exitCode prints err as one line and maps it to a process exit code.
// An *ExitError without a cause has already been reported.
func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return 0
	}

	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Err != nil {
		msg := strings.Join(strings.Fields(err.Error()), " ")
		fmt.Fprintf(stderr, "%s: %s\n", AppName, msg)
	}

	var ec exitCoder
	if errors.As(err, &ec) {
		if code := ec.ExitCode(); code != 0 {
			return code
		}
	}

	return 1
}

func (a *App) run(ctx context.Context, fs *pflag.FlagSet, opts *Options, argv []string) error {
	args, parseErr := ParseArgs(fs, argv)

	cfg, cfgErr := LoadConfig(opts.ConfigFile)
	var fallbackErr error
	if cfgErr != nil {
		defaults := DefaultConfig()
		cfg = &defaults
		fallbackErr = cfg.resolvePaths()
	}

	logger := NewLogger(a.Stderr, opts.Verbose || cfg.Verbose)
	if fallbackErr != nil {
		logger.Debug("cannot resolve default paths", "err", fallbackErr)
	}
	playbooks := PlaybookDir{Dir: cfg.PlaybookDir}

	if errors.Is(parseErr, ErrHelpRequested) {
		a.usage(a.Stdout, fs, playbooks, logger)
		return &ExitError{Code: 1}
	}

	if opts.Version {
		fmt.Fprintf(a.Stdout, "%s %s\n", AppName, versionString())
		return nil
	}

	if cfgErr != nil {
		return cfgErr
	}

	self := a.Self
	if self == "" {
		self = executableName()
	}

	target, err := ResolveTarget(a.InvokedAs, self, opts.Target, cfg)
	if err != nil {
		return err
	}

	if parseErr != nil {
		return a.usageError(parseErr, fs, playbooks, logger)
	}

	inv, err := Classify(args, *opts, target, playbooks)
	if err != nil {
		return a.usageError(err, fs, playbooks, logger)
	}

	logger.Debug("classified", "mode", inv.Mode, "name", inv.Name(), "target", inv.Target,
		"passthrough", inv.Passthrough)

	notifier := a.Notifier
	if notifier == nil {
		if notifier, err = NewCommandNotifier(cfg.Notify); err != nil {
			return err
		}
	}

	d := &Dispatcher{
		Config:   cfg,
		Executor: a.Executor,
		Notifier: notifier,
		Logger:   logger,
		Stdout:   a.Stdout,
		Now:      a.Now,
	}

	return d.Run(ctx, inv)
}

func (a *App) usageError(err error, fs *pflag.FlagSet, playbooks PlaybookDir, logger *log.Logger) error {
	var usageErr *UsageError
	if !errors.As(err, &usageErr) {
		return err
	}

	fmt.Fprintf(a.Stderr, "%s: %s\n\n", AppName, usageErr.Msg)
	a.usage(a.Stderr, fs, playbooks, logger)

	return &ExitError{Code: usageErr.ExitCode()}
}

func (a *App) usage(w io.Writer, fs *pflag.FlagSet, playbooks PlaybookDir, logger *log.Logger) {
	list, err := playbooks.List()
	if err != nil {
		logger.Warn("cannot list playbooks", "err", err)
	}

	WriteUsage(w, invocationName(a.InvokedAs), fs, playbooks.Dir, list)
}
