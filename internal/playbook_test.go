package internal

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("creating dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

func TestPlaybookDir_ResolveExistingPath(t *testing.T) {
	dir := t.TempDir()
	// any existing file counts, whatever its extension
	path := writeFile(t, filepath.Join(dir, "site.yaml.bak"), "- hosts: all\n")

	got, ok := PlaybookDir{Dir: filepath.Join(dir, "ansible")}.Resolve(path)
	if !ok || got != path {
		t.Errorf("expected %s, got %q (ok=%v)", path, got, ok)
	}
}

func TestPlaybookDir_ResolveByName(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, filepath.Join(dir, "deploy.yml"), "- hosts: all\n")

	got, ok := PlaybookDir{Dir: dir}.Resolve("deploy")
	if !ok || got != path {
		t.Errorf("expected %s, got %q (ok=%v)", path, got, ok)
	}
}

func TestPlaybookDir_ResolveUnknown(t *testing.T) {
	if _, ok := (PlaybookDir{Dir: t.TempDir()}).Resolve("ping"); ok {
		t.Error("expected ping not to resolve to a playbook")
	}
}

func TestPlaybookDir_ResolveDirectoryIsNotAPlaybook(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "roles"), 0o755); err != nil {
		t.Fatal(err)
	}

	if _, ok := (PlaybookDir{Dir: dir}).Resolve(filepath.Join(dir, "roles")); ok {
		t.Error("expected a directory not to resolve to a playbook")
	}
}

func TestPlaybookDir_List(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "site.yml"), "- name: Configure everything\n  hosts: all\n")
	writeFile(t, filepath.Join(dir, "deploy.yml"), "- name: Deploy the web tier\n  hosts: web\n")
	writeFile(t, filepath.Join(dir, "broken.yml"), "this: [is not a play list\n")
	writeFile(t, filepath.Join(dir, "hosts"), "[web]\n10.0.0.1\n")
	writeFile(t, filepath.Join(dir, "vars.yaml"), "a: 1\n")

	list, err := PlaybookDir{Dir: dir}.List()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(list) != 3 {
		t.Fatalf("expected 3 playbooks, got %d: %+v", len(list), list)
	}

	want := []struct{ name, desc string }{
		{"broken", ""},
		{"deploy", "Deploy the web tier"},
		{"site", "Configure everything"},
	}
	for i, w := range want {
		if list[i].Name != w.name || list[i].Description != w.desc {
			t.Errorf("playbook %d: got %+v, want %s %q", i, list[i], w.name, w.desc)
		}
	}
}

func TestPlaybookDir_ListMissingDir(t *testing.T) {
	list, err := PlaybookDir{Dir: filepath.Join(t.TempDir(), "nope")}.List()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("expected no playbooks, got %+v", list)
	}
}
