package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/salmonumbrella/envkeep/internal/store"
)

func writePayload(t *testing.T, payload string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "payload.json")
	if err := os.WriteFile(path, []byte(payload), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunPersistValuesSuccess(t *testing.T) {
	st := store.NewMemory()
	payload := `{
		"command": "envkeep",
		"parameters": {
			"action": "persist-values",
			"tokens": [{"name": "API_TOKEN", "label": "API token", "required": true}],
			"values": {"API_TOKEN": "tok-123"}
		}
	}`

	stdout, _, err := executeCommand(t, st, "", "run", writePayload(t, payload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	body := decodeBody(t, stdout)
	if body["status"] != "success" {
		t.Errorf("status = %v", body["status"])
	}
	summary := body["summary"].(map[string]any)
	if summary["exit_code"] != float64(0) || summary["tokens_modified"] != float64(1) {
		t.Errorf("summary = %v", summary)
	}
	if v, _ := st.Get("API_TOKEN"); v != "tok-123" {
		t.Errorf("store value = %q", v)
	}
	if strings.Contains(stdout, "tok-123") {
		t.Error("secret value leaked into output")
	}
}

func TestRunReadsStdin(t *testing.T) {
	st := store.NewMemory()
	payload := `{"command":"envkeep","parameters":{"action":"persist-values","tokens":[{"name":"DEBUG","label":"Debug flag","required":false}],"values":{"DEBUG":"1"}}}`

	stdout, _, err := executeCommand(t, st, payload, "run")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decodeBody(t, stdout)["status"] != "success" {
		t.Errorf("stdout = %s", stdout)
	}
}

func TestRunInvalidPayloadExitsTwo(t *testing.T) {
	payload := `{"command":"envkeep","parameters":{"action":"explode"}}`

	stdout, stderr, err := executeCommand(t, store.NewMemory(), "", "run", writePayload(t, payload))
	if err == nil {
		t.Fatal("expected error")
	}
	if ExitCode(err) != ExitUser {
		t.Errorf("exit code = %d, want %d", ExitCode(err), ExitUser)
	}

	body := decodeBody(t, stdout)
	if body["status"] != "failure" {
		t.Errorf("status = %v", body["status"])
	}
	if body["message"] != "input payload failed validation" {
		t.Errorf("message = %v", body["message"])
	}
	if !strings.Contains(stderr, "input payload failed validation") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestRunMalformedJSONExitsTwo(t *testing.T) {
	_, _, err := executeCommand(t, store.NewMemory(), "", "run", writePayload(t, "{not json"))
	if err == nil {
		t.Fatal("expected error")
	}
	if ExitCode(err) != ExitUser {
		t.Errorf("exit code = %d, want %d", ExitCode(err), ExitUser)
	}
}

func TestRunRequiredMissingExitsThree(t *testing.T) {
	payload := `{
		"command": "envkeep",
		"parameters": {
			"action": "persist-current",
			"tokens": [{"name": "ENVKEEP_TEST_ABSENT", "label": "Test token", "required": true}]
		}
	}`

	stdout, _, err := executeCommand(t, store.NewMemory(), "", "run", writePayload(t, payload))
	if err == nil {
		t.Fatal("expected error")
	}
	if ExitCode(err) != ExitTokensFailed {
		t.Errorf("exit code = %d, want %d", ExitCode(err), ExitTokensFailed)
	}

	// The body is still success-shaped; failures are data.
	body := decodeBody(t, stdout)
	if body["status"] != "success" {
		t.Errorf("status = %v", body["status"])
	}
	summary := body["summary"].(map[string]any)
	if summary["exit_code"] != float64(3) || summary["tokens_failed"] != float64(1) {
		t.Errorf("summary = %v", summary)
	}
}

func TestRunMissingFileIsUserError(t *testing.T) {
	_, stderr, err := executeCommand(t, store.NewMemory(), "", "run", "/nonexistent/payload.json")
	if err == nil {
		t.Fatal("expected error")
	}
	if ExitCode(err) != ExitUser {
		t.Errorf("exit code = %d, want %d", ExitCode(err), ExitUser)
	}
	if !strings.Contains(stderr, "Hint:") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestRunWritesReport(t *testing.T) {
	st := store.NewMemory()
	reportsDir := t.TempDir()
	payload := `{"command":"envkeep","parameters":{"action":"persist-values","tokens":[{"name":"DEBUG","label":"Debug flag","required":false}],"values":{"DEBUG":"1"}}}`

	_, _, err := executeCommand(t, st, "", "--reports-dir", reportsDir, "run", writePayload(t, payload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries, err := os.ReadDir(reportsDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("report files = %d, want 1", len(entries))
	}
	name := entries[0].Name()
	if !strings.HasPrefix(name, "envkeep_run_") || !strings.HasSuffix(name, ".json") {
		t.Errorf("report filename = %q", name)
	}
}
