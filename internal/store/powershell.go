package store

import (
	"fmt"
	"os/exec"
	"strings"
)

// PowerShell persists variables in the Windows user-scope environment via
// [Environment]::SetEnvironmentVariable, matching what setx writes. Each
// operation is one synchronous powershell.exe invocation.
type PowerShell struct {
	run func(command string) (string, error)
}

// NewPowerShell returns the Windows user-environment backend.
func NewPowerShell() *PowerShell {
	return &PowerShell{run: runPowerShell}
}

// NewPowerShellWithRunner injects a command runner, used by tests.
func NewPowerShellWithRunner(run func(command string) (string, error)) *PowerShell {
	return &PowerShell{run: run}
}

func runPowerShell(command string) (string, error) {
	out, err := exec.Command("powershell.exe", "-NoProfile", "-NonInteractive", "-Command", command).Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && len(exitErr.Stderr) > 0 {
			return "", fmt.Errorf("powershell: %s", strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("powershell: %w", err)
	}
	return string(out), nil
}

// quoteLiteral wraps s in a single-quoted PowerShell literal. Inside single
// quotes PowerShell treats everything verbatim except the quote itself,
// which is escaped by doubling, so quote characters or control characters
// in a value cannot break out of the argument.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// Read returns the user-scope durable value for name, or "" when unset.
func (p *PowerShell) Read(name string) (string, error) {
	if err := ValidName(name); err != nil {
		return "", err
	}
	command := fmt.Sprintf("[Environment]::GetEnvironmentVariable(%s, 'User')", quoteLiteral(name))
	out, err := p.run(command)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", name, err)
	}
	return strings.TrimRight(out, "\r\n"), nil
}

// Write sets the user-scope durable value for name.
func (p *PowerShell) Write(name, value string) error {
	if err := ValidName(name); err != nil {
		return err
	}
	command := fmt.Sprintf("[Environment]::SetEnvironmentVariable(%s, %s, 'User')",
		quoteLiteral(name), quoteLiteral(value))
	if _, err := p.run(command); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}
