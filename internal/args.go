package internal

import (
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/spf13/pflag"
)

type Mode int

const (
	// ModeAdHoc runs a module with an explicit argument string.
	ModeAdHoc Mode = iota + 1
	// ModeModule runs a module with the passthrough as its arguments.
	ModeModule
	// ModePlaybook runs a playbook file.
	ModePlaybook
)

func (m Mode) String() string {
	switch m {
	case ModeAdHoc:
		return "ad-hoc"
	case ModeModule:
		return "module"
	case ModePlaybook:
		return "playbook"
	}
	return "unknown"
}

const maxPositionals = 2

var helpTokens = mapset.NewSet[string]("-h", "--help")

// Options are the flags accepted before the passthrough separator.
type Options struct {
	DryRun     bool
	Retry      bool
	Verbose    bool
	Help       bool
	Version    bool
	Target     string
	ConfigFile string
}

// Bind registers the options on fs. --dryrun is accepted as an alias of --dry-run.
func (o *Options) Bind(fs *pflag.FlagSet) {
	fs.BoolVarP(&o.DryRun, "dry-run", "n", false, "print the command instead of running it")
	fs.BoolVarP(&o.Retry, "retry", "r", false, "limit a playbook run to the hosts in its .retry file")
	fs.BoolVarP(&o.Verbose, "verbose", "v", false, "enable debug logging")
	fs.BoolVarP(&o.Help, "help", "h", false, "show usage and the available playbooks")
	fs.BoolVar(&o.Version, "version", false, "print the version")
	fs.StringVarP(&o.Target, "target", "t", "", "host or group to run against (default: invocation name)")
	fs.StringVarP(&o.ConfigFile, "config", "c", "", "config file (default $XDG_CONFIG_HOME/hostplay/config.yaml)")
	fs.SetNormalizeFunc(normalizeFlagName)
}

func normalizeFlagName(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	if name == "dryrun" {
		name = "dry-run"
	}
	return pflag.NormalizedName(name)
}

// Args is the argv split into positionals and passthrough.
type Args struct {
	Positionals []string
	Passthrough []string
}

// ParseArgs splits argv into flags, up to two positionals and passthrough,
// then parses the flags into fs. Help wins over any other error.
//
// A bare "--" ends parsing. A third non-flag token also ends parsing: it and
// everything after it, flags included, are passed through untouched.
func ParseArgs(fs *pflag.FlagSet, argv []string) (Args, error) {
	var (
		args       Args
		flagTokens []string
		help       bool
	)

	i := 0
scan:
	for i < len(argv) {
		tok := argv[i]

		switch {
		case tok == "--":
			i++
			break scan
		case helpTokens.Contains(tok):
			help = true
			i++
		case isFlagToken(tok):
			flagTokens = append(flagTokens, tok)
			if needsValue(fs, tok) && i+1 < len(argv) {
				flagTokens = append(flagTokens, argv[i+1])
				i++
			}
			i++
		case len(args.Positionals) < maxPositionals:
			args.Positionals = append(args.Positionals, tok)
			i++
		default:
			break scan
		}
	}

	if i < len(argv) {
		args.Passthrough = append([]string(nil), argv[i:]...)
	}

	// parse even when help was asked for so --config and -v still apply
	parseErr := fs.Parse(flagTokens)

	if h := fs.Lookup("help"); help || (h != nil && h.Changed) {
		return args, ErrHelpRequested
	}

	if parseErr != nil {
		return args, &UsageError{Msg: parseErr.Error()}
	}

	return args, nil
}

func isFlagToken(tok string) bool {
	return len(tok) > 1 && strings.HasPrefix(tok, "-")
}

// needsValue reports whether tok is a value flag whose value is the next token.
func needsValue(fs *pflag.FlagSet, tok string) bool {
	if strings.HasPrefix(tok, "--") {
		name := tok[2:]
		if strings.Contains(name, "=") {
			return false
		}
		f := fs.Lookup(name)
		return f != nil && f.NoOptDefVal == ""
	}

	// shorthand cluster: a value flag takes the rest of the token, or the
	// next token when it is last
	shorts := tok[1:]
	for j := 0; j < len(shorts); j++ {
		f := fs.ShorthandLookup(shorts[j : j+1])
		if f == nil {
			return false
		}
		if f.NoOptDefVal == "" {
			return j == len(shorts)-1
		}
	}

	return false
}

// Invocation is a fully classified run.
type Invocation struct {
	Mode        Mode
	Target      string `validate:"required,target"`
	Module      string
	ModuleArg   string
	Playbook    string
	Passthrough []string
	DryRun      bool
	Retry       bool
}

// Name is what the run is called in logs and notifications.
func (inv *Invocation) Name() string {
	if inv.Mode == ModePlaybook {
		return baseName(inv.Playbook)
	}
	return inv.Module
}

// PlaybookLookup resolves a single positional to a playbook path.
type PlaybookLookup interface {
	Resolve(name string) (string, bool)
}

// Classify turns parsed args into an Invocation for target.
func Classify(args Args, opts Options, target string, playbooks PlaybookLookup) (*Invocation, error) {
	inv := &Invocation{
		Target:      target,
		Passthrough: args.Passthrough,
		DryRun:      opts.DryRun,
		Retry:       opts.Retry,
	}

	switch len(args.Positionals) {
	case 0:
		return nil, usageErrorf("missing module or playbook")
	case 1:
		name := args.Positionals[0]
		if path, ok := playbooks.Resolve(name); ok {
			inv.Mode = ModePlaybook
			inv.Playbook = path
		} else {
			inv.Mode = ModeModule
			inv.Module = name
		}
	default:
		inv.Mode = ModeAdHoc
		inv.Module = args.Positionals[0]
		inv.ModuleArg = args.Positionals[1]
	}

	if err := Validator().Struct(inv); err != nil {
		return nil, usageErrorf("invalid target %q", target)
	}

	return inv, nil
}
