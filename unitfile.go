package svckit

import "strings"

// renderUnit builds the systemd unit file text for a service
// installation. The User= line is omitted when no username is
// configured; ExecStart joins the binary and its arguments with single
// spaces.
func renderUnit(cfg Config) string {
	var b strings.Builder
	b.WriteString("[Unit]\n")
	b.WriteString("Description=" + cfg.Description + "\n")
	b.WriteString("\n[Service]\n")
	if cfg.Username != "" {
		b.WriteString("User=" + cfg.Username + "\n")
	}
	b.WriteString("WorkingDirectory=" + cfg.WorkingDir + "\n")
	exec := cfg.Binary
	if len(cfg.Arguments) > 0 {
		exec += " " + strings.Join(cfg.Arguments, " ")
	}
	b.WriteString("ExecStart=" + exec + "\n")
	b.WriteString("\n[Install]\n")
	b.WriteString("WantedBy=multi-user.target\n")
	return b.String()
}
