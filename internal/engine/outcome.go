package engine

// Status is the terminal state of one token's resolution.
type Status string

const (
	// StatusPersisted means a new value was written to durable storage.
	StatusPersisted Status = "persisted"
	// StatusUnchanged means the durable value already matched; no write issued.
	StatusUnchanged Status = "unchanged"
	// StatusSkipped means the token was left alone (optional and missing, or
	// existing value preserved).
	StatusSkipped Status = "skipped"
	// StatusFailed means the token could not be persisted.
	StatusFailed Status = "failed"
)

// TokenOutcome is the per-token report row. Stored carries a redacted
// display value, never the raw secret; StoredHash is a fingerprint present
// whenever a value was read or written.
type TokenOutcome struct {
	Name       string `json:"name"`
	Status     Status `json:"status"`
	Attempted  bool   `json:"attempted"`
	Changed    bool   `json:"changed"`
	Stored     string `json:"stored"`
	StoredHash string `json:"stored_hash,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Summary aggregates per-token outcomes. Unchanged tokens count toward
// neither modified nor skipped.
type Summary struct {
	Action         string `json:"action"`
	TokensModified int    `json:"tokens_modified"`
	TokensSkipped  int    `json:"tokens_skipped"`
	TokensFailed   int    `json:"tokens_failed"`
	ExitCode       int    `json:"exit_code"`
}

// Snapshot captures the redacted environment state after a run: Provided
// holds values supplied in-process or in the request, User holds the
// post-run durable value for every token.
type Snapshot struct {
	Provided map[string]string `json:"provided"`
	User     map[string]string `json:"user"`
}

// Report is the success-shaped response for one run.
type Report struct {
	Status              string         `json:"status"`
	Summary             Summary        `json:"summary"`
	Results             []TokenOutcome `json:"results"`
	EnvironmentSnapshot Snapshot       `json:"environment_snapshot"`
}
