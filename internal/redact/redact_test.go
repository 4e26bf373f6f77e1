package redact

import (
	"strings"
	"testing"
)

func TestFingerprint_Deterministic(t *testing.T) {
	a := Fingerprint("secret-value")
	b := Fingerprint("secret-value")
	if a != b {
		t.Errorf("same input produced different fingerprints: %q vs %q", a, b)
	}
}

func TestFingerprint_DistinctInputs(t *testing.T) {
	if Fingerprint("alpha") == Fingerprint("beta") {
		t.Error("different inputs produced the same fingerprint")
	}
}

func TestFingerprint_DoesNotLeakValue(t *testing.T) {
	fp := Fingerprint("super-secret")
	if strings.Contains(fp, "super-secret") {
		t.Errorf("fingerprint contains the raw value: %q", fp)
	}
}

func TestAbsentFingerprint_DistinctFromEmpty(t *testing.T) {
	if AbsentFingerprint() == Fingerprint("") {
		t.Error("absent fingerprint must differ from the empty-string fingerprint")
	}
	if AbsentFingerprint() != AbsentFingerprint() {
		t.Error("absent fingerprint must be stable")
	}
}

func TestSensitive(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"SLACK_TOKEN", true},
		{"API_TOKEN", true},
		{"COPILOT_REQUESTS_PAT", true},
		{"DB_PASSWORD", true},
		{"OPENAI_API_KEY", true},
		{"slack_token", true},
		{"DEBUG", false},
		{"LOG_LEVEL", false},
		{"PATH", false},
		{"PATTERN", false},
	}
	for _, tt := range tests {
		if got := Sensitive(tt.name); got != tt.want {
			t.Errorf("Sensitive(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestDisplay(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"API_TOKEN", "secret", Hidden},
		{"API_TOKEN", "", Empty},
		{"DEBUG", "1", "1"},
		{"DEBUG", "", Empty},
	}
	for _, tt := range tests {
		if got := Display(tt.name, tt.value); got != tt.want {
			t.Errorf("Display(%q, %q) = %q, want %q", tt.name, tt.value, got, tt.want)
		}
	}
}
