// Package report writes run reports to disk so persistence runs leave an
// auditable trail. A report is the exact contract response body, so it
// re-validates against the output schema.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// nowFunc is swapped in tests to pin file names.
var nowFunc = time.Now

const timestampLayout = "20060102T150405Z"

// Write stores the response payload under dir and returns the file path.
// The directory is created if needed; files carry a UTC timestamp so runs
// sort chronologically.
func Write(dir string, body map[string]any) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("report directory not configured")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	data, err := json.MarshalIndent(body, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize report: %w", err)
	}
	data = append(data, '\n')

	name := fmt.Sprintf("envkeep_run_%s.json", nowFunc().UTC().Format(timestampLayout))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}
