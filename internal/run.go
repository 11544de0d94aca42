package internal

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	units "github.com/docker/go-units"
	"github.com/pkg/errors"
)

// Executor runs a built command and reports the child's exit status.
type Executor interface {
	Execute(ctx context.Context, cmd Command) (int, error)
}

// ExecExecutor runs commands as child processes attached to the terminal.
type ExecExecutor struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func NewExecExecutor() *ExecExecutor {
	return &ExecExecutor{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

func (e *ExecExecutor) Execute(ctx context.Context, c Command) (int, error) {
	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	cmd.Env = append(os.Environ(), c.Env.Slice()...)
	cmd.Stdin = e.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr

	// let ansible clean up on ctrl-c instead of killing it outright
	cmd.Cancel = func() error {
		return cmd.Process.Signal(os.Interrupt)
	}
	cmd.WaitDelay = 10 * time.Second

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return childExitCode(exitErr), nil
		}
		return 1, errors.WithMessagef(err, "failed to run %s", c.Path)
	}

	return 0, nil
}

// childExitCode follows the shell convention of 128+signal for a child
// killed by a signal.
func childExitCode(exitErr *exec.ExitError) int {
	if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal())
	}
	return exitErr.ExitCode()
}

// Dispatcher runs one classified invocation: environment, log file,
// execute or print, notify.
type Dispatcher struct {
	Config   *Config
	Executor Executor
	Notifier Notifier
	Logger   *log.Logger
	Stdout   io.Writer
	Now      func() time.Time
}

func (d *Dispatcher) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// Run executes inv. A non-zero child status is returned as *ExitError with
// the same code; nothing is retried.
func (d *Dispatcher) Run(ctx context.Context, inv *Invocation) error {
	var logFile *LogFile
	logPath := ""
	if inv.Mode == ModePlaybook {
		lf := NewLogFile(d.Config.LogDir, inv.Playbook, d.now())
		logFile = &lf
		logPath = lf.Path
	}

	env, err := PrepareEnvironment(d.Config, inv.Mode, logPath)
	if err != nil {
		return err
	}

	cmd := BuildCommand(d.Config, inv, env, d.retryFile(inv))

	if inv.DryRun {
		fmt.Fprintln(d.Stdout, cmd.String())
		return nil
	}

	if logFile != nil {
		if err := logFile.Prepare(); err != nil {
			return err
		}
	}

	d.Logger.Debug("running", "mode", inv.Mode, "target", inv.Target, "cmd", cmd.String())

	start := d.now()
	code, err := d.Executor.Execute(ctx, cmd)
	elapsed := d.now().Sub(start)

	if logFile != nil {
		fmt.Fprintln(d.Stdout, logFile.Summary())
	}

	if err != nil {
		return err
	}

	if code != 0 {
		return &ExitError{
			Code: code,
			Err:  errors.Errorf("%s exited with status %d", filepath.Base(cmd.Path), code),
		}
	}

	d.Logger.Debug("finished", "name", inv.Name(), "target", inv.Target, "took", units.HumanDuration(elapsed))

	if d.Notifier != nil {
		if err := d.Notifier(ctx, completionMessage(inv)); err != nil {
			d.Logger.Warn("notification failed", "err", err)
		}
	}

	return nil
}

// retryFile returns the playbook's .retry file when --retry was given and
// the file exists. A missing file is logged and ignored.
func (d *Dispatcher) retryFile(inv *Invocation) string {
	if !inv.Retry {
		return ""
	}

	if inv.Mode != ModePlaybook {
		d.Logger.Debug("--retry only applies to playbooks, ignoring", "module", inv.Module)
		return ""
	}

	path := RetryFile(inv.Playbook)
	if !isRegularFile(path) {
		d.Logger.Warn("no retry file, running against the whole target", "file", path, "target", inv.Target)
		return ""
	}

	return path
}
