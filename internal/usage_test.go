package internal

import (
	"bytes"
	"strings"
	"testing"
)

func TestWriteUsage(t *testing.T) {
	var buf bytes.Buffer
	fs, _ := newTestFlags(t)
	playbooks := []PlaybookInfo{
		{Name: "deploy", Description: "Deploy the web tier"},
		{Name: "reboot-all"},
	}

	WriteUsage(&buf, "webservers", fs, "/srv/infra/ansible", playbooks)
	out := buf.String()

	for _, want := range []string{
		"webservers {module|playbook}",
		"--dry-run",
		"--retry",
		"/srv/infra/ansible",
		"deploy",
		"Deploy the web tier",
		"reboot-all",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in usage:\n%s", want, out)
		}
	}
	if strings.Contains(out, "none found") {
		t.Error("did not expect the empty playbook message")
	}
}

func TestWriteUsage_NoPlaybooks(t *testing.T) {
	var buf bytes.Buffer
	fs, _ := newTestFlags(t)
	WriteUsage(&buf, "webservers", fs, "ansible", nil)

	if !strings.Contains(buf.String(), "none found") {
		t.Errorf("expected empty playbook message, got:\n%s", buf.String())
	}
}
