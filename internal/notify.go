package internal

import (
	"context"
	"os"
	"os/exec"

	"github.com/mattn/go-shellwords"
	"github.com/pkg/errors"
)

// Notifier is told when a run completes successfully.
type Notifier func(ctx context.Context, msg string) error

// NewCommandNotifier returns a Notifier that runs commandLine with the
// message appended as its last argument, e.g. `notify-send -u low`.
// An empty commandLine means no notifications.
func NewCommandNotifier(commandLine string) (Notifier, error) {
	if commandLine == "" {
		return nil, nil
	}

	argv, err := shellwords.Parse(commandLine)
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to parse notify command %q", commandLine)
	}
	if len(argv) == 0 {
		return nil, nil
	}

	return func(ctx context.Context, msg string) error {
		args := append(append([]string{}, argv[1:]...), msg)
		cmd := exec.CommandContext(ctx, argv[0], args...)
		cmd.Stdout = os.Stderr
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			return errors.WithMessagef(err, "notify command %s failed", argv[0])
		}
		return nil
	}, nil
}

func completionMessage(inv *Invocation) string {
	return AppName + ": " + inv.Name() + " finished on " + inv.Target
}
