package internal

import (
	"path/filepath"
	"strconv"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// Command is a fully built child process: binary, argv and the variables
// added on top of the caller's environment.
type Command struct {
	Path string
	Args []string
	Env  Environment
}

// String renders the command as a line that can be pasted into bash.
func (c Command) String() string {
	parts := make([]string, 0, len(c.Env)+len(c.Args)+1)
	for _, v := range c.Env {
		parts = append(parts, v.Key+"="+shellQuote(v.Value))
	}
	parts = append(parts, shellQuote(c.Path))
	for _, arg := range c.Args {
		parts = append(parts, shellQuote(arg))
	}
	return strings.Join(parts, " ")
}

func shellQuote(s string) string {
	quoted, err := syntax.Quote(s, syntax.LangBash)
	if err != nil {
		return strconv.Quote(s)
	}
	return quoted
}

// RetryFile is the .retry file ansible writes next to a playbook.
func RetryFile(playbook string) string {
	return strings.TrimSuffix(playbook, filepath.Ext(playbook)) + ".retry"
}

// BuildCommand builds the ansible or ansible-playbook command for inv.
// retryFile is only used in playbook mode and only when non-empty.
func BuildCommand(cfg *Config, inv *Invocation, env Environment, retryFile string) Command {
	path, args := buildArgs(cfg, inv, retryFile)
	return Command{Path: path, Args: args, Env: env}
}

func buildArgs(cfg *Config, inv *Invocation, retryFile string) (string, []string) {
	switch inv.Mode {
	case ModePlaybook:
		args := []string{
			"-i",
			cfg.Inventory,
			"--limit",
			inv.Target,
		}
		if retryFile != "" {
			args = append(args, "--limit", "@"+retryFile)
		}
		args = append(args, inv.Playbook)
		args = append(args, inv.Passthrough...)

		return cfg.PlaybookBin, args

	case ModeAdHoc:
		args := []string{
			"-i",
			cfg.Inventory,
			inv.Target,
			"-m",
			inv.Module,
			"-a",
			inv.ModuleArg,
		}
		args = append(args, inv.Passthrough...)

		return cfg.AnsibleBin, args

	default:
		args := []string{
			"-i",
			cfg.Inventory,
			inv.Target,
			"-m",
			inv.Module,
		}
		if len(inv.Passthrough) > 0 {
			args = append(args, "-a", strings.Join(inv.Passthrough, " "))
		}

		return cfg.AnsibleBin, args
	}
}
