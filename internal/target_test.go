package internal

import (
	"errors"
	"testing"
)

func TestResolveTarget(t *testing.T) {
	cfg := &Config{Targets: map[string]string{"web": "webservers"}}

	tests := []struct {
		invokedAs string
		explicit  string
		want      string
	}{
		{"/usr/local/bin/webservers", "", "webservers"},
		{"webservers", "", "webservers"},
		{"/home/u/bin/web", "", "webservers"},
		{"/home/u/bin/webservers", "dbservers", "dbservers"},
		{"/usr/local/bin/hostplay", "web", "webservers"},
		{"/opt/bin/db.exe", "", "db"},
	}

	for _, tt := range tests {
		got, err := ResolveTarget(tt.invokedAs, AppName, tt.explicit, cfg)
		if err != nil {
			t.Errorf("%s/%s: unexpected error: %v", tt.invokedAs, tt.explicit, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s/%s: got %q, want %q", tt.invokedAs, tt.explicit, got, tt.want)
		}
	}
}

func TestResolveTarget_Unlinked(t *testing.T) {
	_, err := ResolveTarget("/usr/local/bin/hostplay", AppName, "", &Config{})

	var idErr *IdentityError
	if !errors.As(err, &idErr) {
		t.Fatalf("expected IdentityError, got %v", err)
	}
	if idErr.ExitCode() != 1 {
		t.Errorf("expected exit code 1, got %d", idErr.ExitCode())
	}
}

func TestResolveTarget_RenamedBinary(t *testing.T) {
	self := "hostplay-linux-amd64"

	_, err := ResolveTarget("/usr/local/bin/hostplay-linux-amd64", self, "", &Config{})
	var idErr *IdentityError
	if !errors.As(err, &idErr) {
		t.Fatalf("expected IdentityError, got %v", err)
	}
	if idErr.Name != self {
		t.Errorf("expected error to name %q, got %q", self, idErr.Name)
	}

	got, err := ResolveTarget("/usr/local/bin/webservers", self, "", &Config{})
	if err != nil || got != "webservers" {
		t.Errorf("symlinked invocation: got %q (%v)", got, err)
	}

	got, err = ResolveTarget("/usr/local/bin/hostplay-linux-amd64", self, "dbservers", &Config{})
	if err != nil || got != "dbservers" {
		t.Errorf("explicit target: got %q (%v)", got, err)
	}
}

func TestExecutableName(t *testing.T) {
	if got := executableName(); got == "" {
		t.Error("expected the test binary's name")
	}
}
