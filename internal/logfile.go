package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	units "github.com/docker/go-units"
	"github.com/pkg/errors"
)

const logTimeLayout = "2006-01-02-15-04-05"

// ensureDir creates dir (0755) unless it already exists as a directory.
func ensureDir(dir string) error {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &FilesystemError{Op: "create directory", Path: dir, Err: err}
		}
		return nil
	} else if err != nil {
		return &FilesystemError{Op: "stat directory", Path: dir, Err: err}
	}

	if !info.IsDir() {
		return &FilesystemError{Op: "create directory", Path: dir, Err: errors.New("not a directory")}
	}

	return nil
}

// LogFile is the per-run log of a playbook: a timestamped file plus a
// <name>-latest.log symlink to it.
type LogFile struct {
	Dir    string
	Name   string
	Path   string
	Latest string
}

func NewLogFile(dir, playbook string, now time.Time) LogFile {
	name := baseName(playbook)

	return LogFile{
		Dir:    dir,
		Name:   name,
		Path:   filepath.Join(dir, fmt.Sprintf("%s-%s.log", name, now.Format(logTimeLayout))),
		Latest: filepath.Join(dir, name+"-latest.log"),
	}
}

// Prepare creates the log directory and repoints the latest symlink. Two
// concurrent runs of the same playbook race on the symlink; the last one wins.
func (l LogFile) Prepare() error {
	if err := ensureDir(l.Dir); err != nil {
		return err
	}

	if _, err := os.Lstat(l.Latest); err == nil {
		if err := os.Remove(l.Latest); err != nil {
			return &FilesystemError{Op: "remove symlink", Path: l.Latest, Err: err}
		}
	} else if !os.IsNotExist(err) {
		return &FilesystemError{Op: "stat symlink", Path: l.Latest, Err: err}
	}

	if err := os.Symlink(l.Path, l.Latest); err != nil {
		return &FilesystemError{Op: "create symlink", Path: l.Latest, Err: err}
	}

	return nil
}

// Summary is the line printed once the run is over.
func (l LogFile) Summary() string {
	info, err := os.Stat(l.Path)
	if err != nil {
		return fmt.Sprintf("log: %s", displayPath(l.Path))
	}

	return fmt.Sprintf("log: %s (%s)", displayPath(l.Path), units.HumanSize(float64(info.Size())))
}
