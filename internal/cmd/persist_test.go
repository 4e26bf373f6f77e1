package cmd

import (
	"strings"
	"testing"

	"github.com/salmonumbrella/envkeep/internal/engine"
	"github.com/salmonumbrella/envkeep/internal/store"
)

func TestPersistValuesPairs(t *testing.T) {
	st := store.NewMemory()
	stdout, stderr, err := executeCommand(t, st, "",
		"persist", "values", "SLACK_TOKEN=xoxb-1", "COPILOT_REQUESTS_PAT=ghp-1", "SLACK_BOT_TOKEN=xoxb-2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for name, want := range map[string]string{
		"SLACK_TOKEN":         "xoxb-1",
		"COPILOT_REQUESTS_PAT": "ghp-1",
		"SLACK_BOT_TOKEN":     "xoxb-2",
	} {
		if v, _ := st.Get(name); v != want {
			t.Errorf("%s = %q, want %q", name, v, want)
		}
	}
	for _, secret := range []string{"xoxb-1", "ghp-1", "xoxb-2"} {
		if strings.Contains(stdout, secret) {
			t.Errorf("secret %q leaked into stdout", secret)
		}
	}
	if !strings.Contains(stderr, "3 token(s) persisted") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestPersistValuesRequiredMissingFails(t *testing.T) {
	// Only one of the two required catalog tokens is provided.
	_, _, err := executeCommand(t, store.NewMemory(), "",
		"persist", "values", "SLACK_TOKEN=xoxb-1")
	if err == nil {
		t.Fatal("expected error")
	}
	if ExitCode(err) != ExitTokensFailed {
		t.Errorf("exit code = %d, want %d", ExitCode(err), ExitTokensFailed)
	}
}

func TestPersistValuesPreservesExisting(t *testing.T) {
	st := store.NewMemory()
	st.Seed("SLACK_TOKEN", "old-value")

	_, _, err := executeCommand(t, st, "",
		"persist", "values", "SLACK_TOKEN=new-value", "COPILOT_REQUESTS_PAT=ghp-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, _ := st.Get("SLACK_TOKEN"); v != "old-value" {
		t.Errorf("existing value overwritten: %q", v)
	}
}

func TestPersistValuesIncludeExistingOverwrites(t *testing.T) {
	st := store.NewMemory()
	st.Seed("SLACK_TOKEN", "old-value")

	_, _, err := executeCommand(t, st, "",
		"persist", "values", "--include-existing", "SLACK_TOKEN=new-value", "COPILOT_REQUESTS_PAT=ghp-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, _ := st.Get("SLACK_TOKEN"); v != "new-value" {
		t.Errorf("value = %q, want overwrite", v)
	}
}

func TestPersistValuesPromptsForBareName(t *testing.T) {
	st := store.NewMemory()
	_, _, err := executeCommand(t, st, "prompted-secret\n",
		"persist", "values", "SLACK_TOKEN", "COPILOT_REQUESTS_PAT=ghp-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, _ := st.Get("SLACK_TOKEN"); v != "prompted-secret" {
		t.Errorf("prompted value = %q", v)
	}
}

func TestPersistValuesFromEnv(t *testing.T) {
	t.Setenv("SLACK_TOKEN", "from-env-1")
	st := store.NewMemory()
	_, _, err := executeCommand(t, st, "",
		"persist", "values", "--from-env", "SLACK_TOKEN", "COPILOT_REQUESTS_PAT=ghp-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, _ := st.Get("SLACK_TOKEN"); v != "from-env-1" {
		t.Errorf("value = %q", v)
	}
}

func TestPersistValuesNoValuesIsUserError(t *testing.T) {
	_, _, err := executeCommand(t, store.NewMemory(), "", "persist", "values")
	if err == nil {
		t.Fatal("expected error")
	}
	if ExitCode(err) != ExitUser {
		t.Errorf("exit code = %d, want %d", ExitCode(err), ExitUser)
	}
}

func TestPersistValuesRejectsBadName(t *testing.T) {
	_, _, err := executeCommand(t, store.NewMemory(), "", "persist", "values", "BAD-NAME=x")
	if err == nil {
		t.Fatal("expected error")
	}
	if ExitCode(err) != ExitUser {
		t.Errorf("exit code = %d, want %d", ExitCode(err), ExitUser)
	}
}

func TestPersistCurrentFromEnvironment(t *testing.T) {
	t.Setenv("SLACK_TOKEN", "xoxb-env")
	t.Setenv("COPILOT_REQUESTS_PAT", "ghp-env")

	st := store.NewMemory()
	stdout, _, err := executeCommand(t, st, "", "persist", "current")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, _ := st.Get("SLACK_TOKEN"); v != "xoxb-env" {
		t.Errorf("SLACK_TOKEN = %q", v)
	}

	// Optional SLACK_BOT_TOKEN is absent from the env, so it is skipped.
	body := decodeBody(t, stdout)
	summary := body["summary"].(map[string]any)
	if summary["tokens_skipped"] != float64(1) {
		t.Errorf("summary = %v", summary)
	}
}

func TestPersistCurrentNamedSubset(t *testing.T) {
	t.Setenv("SLACK_TOKEN", "xoxb-env")

	st := store.NewMemory()
	_, _, err := executeCommand(t, st, "", "persist", "current", "SLACK_TOKEN")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, _ := st.Get("SLACK_TOKEN"); v != "xoxb-env" {
		t.Errorf("SLACK_TOKEN = %q", v)
	}
	if _, ok := st.Get("COPILOT_REQUESTS_PAT"); ok {
		t.Error("unselected token written")
	}
}

func TestSelectSpecsUnknownNameBecomesRequired(t *testing.T) {
	specs, err := selectSpecs(engine.DefaultSpecs(), []string{"CUSTOM_TOKEN"})
	if err != nil {
		t.Fatal(err)
	}
	if len(specs) != 1 || !specs[0].Required || specs[0].Name != "CUSTOM_TOKEN" {
		t.Errorf("specs = %+v", specs)
	}
}

func TestSelectSpecsRejectsInvalidName(t *testing.T) {
	if _, err := selectSpecs(engine.DefaultSpecs(), []string{"1BAD"}); err == nil {
		t.Fatal("expected error")
	}
}
