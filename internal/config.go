package internal

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	AppName        = "hostplay"
	ConfigFileName = "config"
	envPrefix      = "HOSTPLAY"
)

type Config struct {
	Root        string            `mapstructure:"root" validate:"required"`
	Inventory   string            `mapstructure:"inventory" validate:"required"`
	PlaybookDir string            `mapstructure:"playbook_dir" validate:"required"`
	LogDir      string            `mapstructure:"log_dir" validate:"required"`
	EnvFile     string            `mapstructure:"env_file"`
	AnsibleBin  string            `mapstructure:"ansible_bin" validate:"required"`
	PlaybookBin string            `mapstructure:"playbook_bin" validate:"required"`
	Notify      string            `mapstructure:"notify"`
	Verbose     bool              `mapstructure:"verbose"`
	Targets     map[string]string `mapstructure:"targets" validate:"dive,keys,target,endkeys,target"`
}

func DefaultConfig() Config {
	return Config{
		Root:        ".",
		Inventory:   filepath.Join("ansible", "hosts"),
		PlaybookDir: "ansible",
		LogDir:      filepath.Join("~", "log"),
		EnvFile:     filepath.Join("ansible", AppName+".env"),
		AnsibleBin:  "ansible",
		PlaybookBin: "ansible-playbook",
	}
}

// ConfigDir returns $XDG_CONFIG_HOME/hostplay, falling back to ~/.config/hostplay.
func ConfigDir() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.WithMessage(err, "failed to get user home directory")
	}

	return filepath.Join(home, ".config", AppName), nil
}

// LoadConfig reads the optional config file and HOSTPLAY_* environment
// overrides on top of DefaultConfig. An explicit path must exist; the
// default location may be absent.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("root", defaults.Root)
	v.SetDefault("inventory", defaults.Inventory)
	v.SetDefault("playbook_dir", defaults.PlaybookDir)
	v.SetDefault("log_dir", defaults.LogDir)
	v.SetDefault("env_file", defaults.EnvFile)
	v.SetDefault("ansible_bin", defaults.AnsibleBin)
	v.SetDefault("playbook_bin", defaults.PlaybookBin)
	v.SetDefault("notify", defaults.Notify)
	v.SetDefault("verbose", defaults.Verbose)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.WithMessagef(err, "failed to read config file %s", path)
		}
	} else {
		dir, err := ConfigDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName(ConfigFileName)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errors.WithMessage(err, "failed to read config file")
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.WithMessage(err, "failed to decode config")
	}

	if err := cfg.resolvePaths(); err != nil {
		return nil, err
	}

	if err := Validator().Struct(cfg); err != nil {
		return nil, errors.WithMessage(err, "invalid config")
	}

	return &cfg, nil
}

func (c *Config) resolvePaths() error {
	root, err := expandHome(c.Root)
	if err != nil {
		return err
	}
	c.Root = root

	for _, p := range []*string{&c.Inventory, &c.PlaybookDir, &c.EnvFile} {
		if *p == "" {
			continue
		}
		expanded, err := expandHome(*p)
		if err != nil {
			return err
		}
		if !filepath.IsAbs(expanded) {
			expanded = filepath.Join(c.Root, expanded)
		}
		*p = expanded
	}

	logDir, err := expandHome(c.LogDir)
	if err != nil {
		return err
	}
	c.LogDir = logDir

	return nil
}

// LookupTarget maps a target name through the targets table. Names that
// are not in the table are returned unchanged.
func (c *Config) LookupTarget(name string) string {
	// viper lowercases map keys
	if group, ok := c.Targets[strings.ToLower(name)]; ok && group != "" {
		return group
	}
	return name
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.WithMessage(err, "failed to get user home directory")
	}

	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
