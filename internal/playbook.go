package internal

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const playbookExt = ".yml"

// PlaybookDir resolves playbook names against a directory of *.yml files.
type PlaybookDir struct {
	Dir string
}

// Resolve returns name itself when it is an existing file, otherwise
// <dir>/<name>.yml when that exists.
func (p PlaybookDir) Resolve(name string) (string, bool) {
	if isRegularFile(name) {
		return name, true
	}

	candidate := filepath.Join(p.Dir, name+playbookExt)
	if isRegularFile(candidate) {
		return candidate, true
	}

	return "", false
}

type PlaybookInfo struct {
	Name        string
	Path        string
	Description string
}

type play struct {
	Name string `yaml:"name"`
}

// List returns the playbooks in the directory sorted by name. The first
// play's name is used as the description when the file parses.
func (p PlaybookDir) List() ([]PlaybookInfo, error) {
	entries, err := os.ReadDir(p.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.WithMessagef(err, "failed to read playbook directory %s", p.Dir)
	}

	var playbooks []PlaybookInfo
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != playbookExt {
			continue
		}

		path := filepath.Join(p.Dir, entry.Name())
		playbooks = append(playbooks, PlaybookInfo{
			Name:        baseName(entry.Name()),
			Path:        path,
			Description: playDescription(path),
		})
	}

	sort.Slice(playbooks, func(i, j int) bool {
		return playbooks[i].Name < playbooks[j].Name
	})

	return playbooks, nil
}

func playDescription(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}

	var plays []play
	if err := yaml.Unmarshal(data, &plays); err != nil || len(plays) == 0 {
		return ""
	}

	return strings.TrimSpace(plays[0].Name)
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// baseName is the file name without its extension.
func baseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
