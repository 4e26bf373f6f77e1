package contract

import (
	"encoding/json"
	"log/slog"

	"github.com/salmonumbrella/envkeep/internal/engine"
)

// Request is a validated contract payload.
type Request struct {
	Command    string     `json:"command"`
	Parameters Parameters `json:"parameters"`
}

// Parameters carries the action and its inputs. Tokens, when present, fully
// replaces the engine's default catalog for the run.
type Parameters struct {
	Action          string             `json:"action"`
	Tokens          []engine.TokenSpec `json:"tokens,omitempty"`
	Values          map[string]string  `json:"values,omitempty"`
	IncludeExisting bool               `json:"include_existing,omitempty"`
	Quiet           bool               `json:"quiet,omitempty"`
}

// Runner is the contract-validated pipeline around an engine: validate
// inbound, dispatch by action, validate outbound.
type Runner struct {
	engine *engine.Engine
}

// NewRunner wraps an engine in the contract pipeline.
func NewRunner(e *engine.Engine) *Runner {
	return &Runner{engine: e}
}

// Run executes one request payload and returns the response payload. A
// payload that fails input validation, or names an unknown action, yields
// the fixed failure body without touching the store. Per-token failures are
// reported inside a success-shaped body.
func (r *Runner) Run(payload any) map[string]any {
	if err := ValidateInput(payload); err != nil {
		slog.Debug("request rejected by input contract", "error", err)
		return FailureBody()
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return FailureBody()
	}
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return FailureBody()
	}

	var rep *engine.Report
	switch req.Parameters.Action {
	case engine.ActionPersistCurrent:
		rep = r.engine.PersistCurrent(req.Parameters.Tokens)
	case engine.ActionPersistValues:
		rep = r.engine.PersistValues(req.Parameters.Tokens, req.Parameters.Values, req.Parameters.IncludeExisting)
	default:
		// The schema constrains action; an unknown value here means the
		// schema and dispatcher drifted apart.
		return FailureBody()
	}

	body, err := toMap(rep)
	if err != nil {
		slog.Error("response could not be serialized", "error", err)
		return FailureBody()
	}
	if err := ValidateOutput(body); err != nil {
		// Development-time safety net: a violation is a defect in this tool,
		// not something the caller can correct.
		slog.Error("response failed contract validation", "error", err)
	}
	return body
}

// FailureBody is the fixed failure-shaped response for contract violations.
func FailureBody() map[string]any {
	return map[string]any{
		"status":    "failure",
		"message":   InvalidPayloadMessage,
		"exit_code": ExitInvalidRequest,
	}
}

func toMap(rep *engine.Report) (map[string]any, error) {
	data, err := json.Marshal(rep)
	if err != nil {
		return nil, err
	}
	var body map[string]any
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, err
	}
	return body, nil
}

// ExitCodeOf extracts the process exit code from a response payload: the
// top-level exit_code of a failure body, or summary.exit_code of a success
// body.
func ExitCodeOf(body map[string]any) int {
	if code, ok := asInt(body["exit_code"]); ok {
		return code
	}
	if summary, ok := body["summary"].(map[string]any); ok {
		if code, ok := asInt(summary["exit_code"]); ok {
			return code
		}
	}
	return 0
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	}
	return 0, false
}
