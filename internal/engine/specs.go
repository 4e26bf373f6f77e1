package engine

// TokenSpec describes one named token tracked by the engine. Immutable once
// constructed.
type TokenSpec struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	Required bool   `json:"required"`
}

// defaultSpecs is the built-in catalog of well-known tokens, used when a
// request does not carry its own list.
var defaultSpecs = []TokenSpec{
	{Name: "SLACK_TOKEN", Label: "Slack workspace token", Required: true},
	{Name: "SLACK_BOT_TOKEN", Label: "Slack bot token", Required: false},
	{Name: "COPILOT_REQUESTS_PAT", Label: "Copilot requests PAT", Required: true},
}

// DefaultSpecs returns the built-in token catalog. The returned slice is a
// copy; callers cannot mutate the catalog.
func DefaultSpecs() []TokenSpec {
	return append([]TokenSpec(nil), defaultSpecs...)
}
