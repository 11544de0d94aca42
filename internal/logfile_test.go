package internal

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var fixedTime = time.Date(2026, 10, 18, 9, 5, 3, 0, time.Local)

func TestNewLogFile(t *testing.T) {
	lf := NewLogFile("/home/u/log", "ansible/deploy.yml", fixedTime)

	if lf.Name != "deploy" {
		t.Errorf("expected name deploy, got %q", lf.Name)
	}
	if lf.Path != "/home/u/log/deploy-2026-10-18-09-05-03.log" {
		t.Errorf("unexpected path %q", lf.Path)
	}
	if lf.Latest != "/home/u/log/deploy-latest.log" {
		t.Errorf("unexpected latest path %q", lf.Latest)
	}
}

func TestLogFile_PrepareCreatesDirAndSymlink(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "log")
	lf := NewLogFile(dir, "deploy.yml", fixedTime)

	if err := lf.Prepare(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Fatalf("expected log dir to exist: %v", err)
	}

	target, err := os.Readlink(lf.Latest)
	if err != nil {
		t.Fatalf("reading symlink: %v", err)
	}
	if target != lf.Path {
		t.Errorf("latest points at %q, want %q", target, lf.Path)
	}
}

func TestLogFile_PrepareReplacesLatest(t *testing.T) {
	dir := t.TempDir()

	first := NewLogFile(dir, "deploy.yml", fixedTime)
	if err := first.Prepare(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second := NewLogFile(dir, "deploy.yml", fixedTime.Add(time.Minute))
	if err := second.Prepare(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	target, err := os.Readlink(second.Latest)
	if err != nil {
		t.Fatalf("reading symlink: %v", err)
	}
	if target != second.Path {
		t.Errorf("latest points at %q, want %q", target, second.Path)
	}
}

func TestLogFile_PrepareReplacesRegularFile(t *testing.T) {
	dir := t.TempDir()
	lf := NewLogFile(dir, "deploy.yml", fixedTime)
	writeFile(t, lf.Latest, "stale")

	if err := lf.Prepare(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Readlink(lf.Latest); err != nil {
		t.Errorf("expected latest to be a symlink: %v", err)
	}
}

func TestLogFile_PrepareDirIsAFile(t *testing.T) {
	blocker := writeFile(t, filepath.Join(t.TempDir(), "log"), "not a dir")
	lf := NewLogFile(blocker, "deploy.yml", fixedTime)

	err := lf.Prepare()

	var fsErr *FilesystemError
	if !errors.As(err, &fsErr) {
		t.Fatalf("expected FilesystemError, got %v", err)
	}
	if fsErr.Path != blocker {
		t.Errorf("expected error for %s, got %s", blocker, fsErr.Path)
	}
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	for i := 0; i < 2; i++ {
		if err := ensureDir(dir); err != nil {
			t.Fatalf("attempt %d: unexpected error: %v", i, err)
		}
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("expected nested dir to exist: %v", err)
	}
}

func TestLogFile_Summary(t *testing.T) {
	dir := t.TempDir()
	lf := NewLogFile(dir, "deploy.yml", fixedTime)

	if got := lf.Summary(); !strings.Contains(got, lf.Name) || strings.Contains(got, "(") {
		t.Errorf("expected path without size for a missing log, got %q", got)
	}

	writeFile(t, lf.Path, strings.Repeat("x", 2048))
	if got := lf.Summary(); !strings.Contains(got, "2.048kB") {
		t.Errorf("expected size in summary, got %q", got)
	}
}

func TestDisplayPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	if got := displayPath(filepath.Join(home, "log", "a.log")); got != filepath.Join("~", "log", "a.log") {
		t.Errorf("unexpected display path %q", got)
	}
	if got := displayPath("/var/log/a.log"); got != "/var/log/a.log" {
		t.Errorf("expected path outside home to be unchanged, got %q", got)
	}
}
