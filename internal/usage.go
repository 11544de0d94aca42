package internal

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/pflag"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))

	cmdStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6"))
)

const usageDescription = `Runs an ansible module or playbook against the host or group named %s.
Symlink %s to a host or group name to get a runner for it.

  %s ping                  ad-hoc: ansible -m ping
  %s shell 'uptime'        ad-hoc: ansible -m shell -a 'uptime'
  %s deploy -- -e v=1.2    playbook ansible/deploy.yml, extra args passed on`

// WriteUsage prints the synopsis, flags and the available playbooks.
func WriteUsage(w io.Writer, name string, fs *pflag.FlagSet, playbookDir string, playbooks []PlaybookInfo) {
	fmt.Fprintf(w, "%s %s {module|playbook} [arg] [flags] [-- passthrough...]\n\n",
		titleStyle.Render("Usage:"), name)
	fmt.Fprintf(w, usageDescription+"\n\n", name, AppName, name, name, name)

	fmt.Fprintln(w, titleStyle.Render("Flags:"))
	fmt.Fprintln(w, fs.FlagUsages())

	fmt.Fprintf(w, "%s %s\n", titleStyle.Render("Playbooks"), mutedStyle.Render("("+playbookDir+")"))
	if len(playbooks) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("  none found"))
		return
	}

	width := 0
	for _, p := range playbooks {
		width = max(width, len(p.Name))
	}

	for _, p := range playbooks {
		line := "  " + cmdStyle.Render(p.Name)
		if p.Description != "" {
			line += strings.Repeat(" ", width-len(p.Name)+2) + mutedStyle.Render(p.Description)
		}
		fmt.Fprintln(w, line)
	}
}
