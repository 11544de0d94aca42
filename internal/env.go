package internal

import (
	"os"
	"sort"

	envparse "github.com/hashicorp/go-envparse"
	"github.com/pkg/errors"
)

const (
	EnvSSHPipelining       = "ANSIBLE_SSH_PIPELINING"
	EnvSSHArgs             = "ANSIBLE_SSH_ARGS"
	EnvStrategy            = "ANSIBLE_STRATEGY"
	EnvStdoutCallback      = "ANSIBLE_STDOUT_CALLBACK"
	EnvLoadCallbackPlugins = "ANSIBLE_LOAD_CALLBACK_PLUGINS"
	EnvNoTargetSyslog      = "ANSIBLE_NO_TARGET_SYSLOG"
	EnvLogPath             = "ANSIBLE_LOG_PATH"
)

type EnvVar struct {
	Key   string
	Value string
}

// Environment is an ordered set of variables added to the child's environment.
type Environment []EnvVar

// Set replaces key in place or appends it.
func (e Environment) Set(key, value string) Environment {
	for i := range e {
		if e[i].Key == key {
			e[i].Value = value
			return e
		}
	}
	return append(e, EnvVar{Key: key, Value: value})
}

func (e Environment) Get(key string) (string, bool) {
	for _, v := range e {
		if v.Key == key {
			return v.Value, true
		}
	}
	return "", false
}

// Slice renders KEY=VALUE pairs for exec.Cmd.Env.
func (e Environment) Slice() []string {
	lines := make([]string, 0, len(e))
	for _, v := range e {
		lines = append(lines, v.Key+"="+v.Value)
	}
	return lines
}

// BaseEnvironment is the fixed ansible tuning for every run: multiplexed
// pipelined ssh, free strategy, readable output and no syslog on targets.
func BaseEnvironment(mode Mode) Environment {
	env := Environment{
		{Key: EnvSSHPipelining, Value: "True"},
		{Key: EnvSSHArgs, Value: "-o ControlMaster=auto -o ControlPersist=60s"},
		{Key: EnvStrategy, Value: "free"},
		{Key: EnvStdoutCallback, Value: "yaml"},
		{Key: EnvNoTargetSyslog, Value: "True"},
	}

	// ad-hoc runs ignore stdout callbacks unless plugins are loaded
	if mode == ModeAdHoc || mode == ModeModule {
		env = env.Set(EnvLoadCallbackPlugins, "True")
	}

	return env
}

// PrepareEnvironment builds the child environment: the fixed values, then
// the project overlay file, then the log path when there is one.
func PrepareEnvironment(cfg *Config, mode Mode, logPath string) (Environment, error) {
	env := BaseEnvironment(mode)

	overlay, err := loadEnvFile(cfg.EnvFile)
	if err != nil {
		return nil, err
	}
	for _, v := range overlay {
		env = env.Set(v.Key, v.Value)
	}

	if logPath != "" {
		env = env.Set(EnvLogPath, logPath)
	}

	return env, nil
}

func loadEnvFile(path string) (Environment, error) {
	if path == "" {
		return nil, nil
	}

	// a missing overlay is fine
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to open env file")
	}

	defer file.Close()

	envs, err := envparse.Parse(file)
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to parse env file %s", path)
	}

	keys := make([]string, 0, len(envs))
	for key := range envs {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	env := make(Environment, 0, len(keys))
	for _, key := range keys {
		env = append(env, EnvVar{Key: key, Value: envs[key]})
	}

	return env, nil
}
