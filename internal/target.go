package internal

import (
	"os"
	"path/filepath"
	"strings"
)

// ResolveTarget picks the host or group to run against. An explicit target
// wins; otherwise the name the binary was invoked as is used, which is how
// per-group symlinks (webservers -> hostplay) work. Running the binary
// under its own file name (self) or as hostplay without a target is an
// IdentityError.
func ResolveTarget(invokedAs, self, explicit string, cfg *Config) (string, error) {
	name := explicit
	if name == "" {
		name = invocationName(invokedAs)
		if name == AppName || (self != "" && name == self) {
			return "", &IdentityError{Name: name}
		}
	}

	return cfg.LookupTarget(name), nil
}

// executableName is the file name of the running binary with symlinks
// resolved, or AppName when it cannot be determined.
func executableName() string {
	path, err := os.Executable()
	if err != nil {
		return AppName
	}

	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}

	return invocationName(path)
}

func invocationName(invokedAs string) string {
	name := filepath.Base(invokedAs)
	return strings.TrimSuffix(name, ".exe")
}
