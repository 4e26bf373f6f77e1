// Package engine resolves token-persistence requests against a durable
// store. Tokens are processed strictly in request order, one store call at
// a time; per-token failures are recorded as data and never abort the
// batch.
package engine

import (
	"fmt"
	"os"

	"github.com/salmonumbrella/envkeep/internal/redact"
	"github.com/salmonumbrella/envkeep/internal/store"
)

// Actions understood by the engine.
const (
	ActionPersistCurrent = "persist-current"
	ActionPersistValues  = "persist-values"
)

// Exit codes reported in Summary.ExitCode.
const (
	// ExitSuccess means every token persisted, matched, or was skippable.
	ExitSuccess = 0
	// ExitTokensFailed means one or more required tokens could not be
	// persisted. Distinct from the contract-violation exit code.
	ExitTokensFailed = 3
)

// Engine drives per-token resolution against a durable store.
type Engine struct {
	store  store.Store
	specs  []TokenSpec
	getenv func(string) (string, bool)
}

// Option configures an Engine.
type Option func(*Engine)

// WithSpecs replaces the default token catalog for engines built without a
// per-request list.
func WithSpecs(specs []TokenSpec) Option {
	return func(e *Engine) {
		if len(specs) > 0 {
			e.specs = append([]TokenSpec(nil), specs...)
		}
	}
}

// WithGetenv replaces the in-process environment lookup, used by tests.
func WithGetenv(getenv func(string) (string, bool)) Option {
	return func(e *Engine) { e.getenv = getenv }
}

// New constructs an Engine over the given store. The default catalog and
// os.LookupEnv are used unless overridden.
func New(st store.Store, opts ...Option) *Engine {
	e := &Engine{
		store:  st,
		specs:  DefaultSpecs(),
		getenv: os.LookupEnv,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Specs returns the engine's token catalog.
func (e *Engine) Specs() []TokenSpec {
	return append([]TokenSpec(nil), e.specs...)
}

func (e *Engine) resolveSpecs(specs []TokenSpec) []TokenSpec {
	if len(specs) > 0 {
		return specs
	}
	return e.specs
}

// PersistCurrent reads each token's value from the current process
// environment and persists it when present. An empty specs slice selects
// the engine's catalog.
func (e *Engine) PersistCurrent(specs []TokenSpec) *Report {
	specs = e.resolveSpecs(specs)
	outcomes := make([]TokenOutcome, 0, len(specs))
	provided := make(map[string]string)

	for _, spec := range specs {
		value, ok := e.getenv(spec.Name)
		if !ok || value == "" {
			outcomes = append(outcomes, missingOutcome(spec))
			continue
		}
		provided[spec.Name] = redact.Display(spec.Name, value)

		current, err := e.store.Read(spec.Name)
		if err != nil {
			outcomes = append(outcomes, readFailedOutcome(spec, err))
			continue
		}
		outcomes = append(outcomes, e.persistValue(spec, value, current, true))
	}

	return e.report(ActionPersistCurrent, specs, outcomes, provided)
}

// PersistValues writes explicitly supplied values. When includeExisting is
// false, tokens that already have a non-empty durable value are skipped to
// preserve them.
func (e *Engine) PersistValues(specs []TokenSpec, values map[string]string, includeExisting bool) *Report {
	specs = e.resolveSpecs(specs)
	outcomes := make([]TokenOutcome, 0, len(specs))
	provided := make(map[string]string)

	for _, spec := range specs {
		value, ok := values[spec.Name]
		if !ok {
			outcomes = append(outcomes, missingOutcome(spec))
			continue
		}
		provided[spec.Name] = redact.Display(spec.Name, value)

		current, err := e.store.Read(spec.Name)
		if err != nil {
			if !includeExisting {
				// Cannot tell whether a value exists that must be preserved.
				outcomes = append(outcomes, readFailedOutcome(spec, err))
				continue
			}
			// Durable value unavailable; write unconditionally and let the
			// write surface any backend failure.
			outcomes = append(outcomes, e.persistValue(spec, value, "", false))
			continue
		}
		if !includeExisting && current != "" {
			outcomes = append(outcomes, TokenOutcome{
				Name:       spec.Name,
				Status:     StatusSkipped,
				Stored:     redact.Display(spec.Name, current),
				StoredHash: redact.Fingerprint(current),
			})
			continue
		}
		outcomes = append(outcomes, e.persistValue(spec, value, current, true))
	}

	return e.report(ActionPersistValues, specs, outcomes, provided)
}

// persistValue is the shared write branch: fingerprint-compare against the
// current durable value when known, otherwise write directly.
func (e *Engine) persistValue(spec TokenSpec, value, current string, currentKnown bool) TokenOutcome {
	hash := redact.Fingerprint(value)
	out := TokenOutcome{
		Name:       spec.Name,
		Attempted:  true,
		Stored:     redact.Display(spec.Name, value),
		StoredHash: hash,
	}

	currentHash := redact.AbsentFingerprint()
	if currentKnown && current != "" {
		currentHash = redact.Fingerprint(current)
	}
	if currentHash == hash {
		out.Status = StatusUnchanged
		return out
	}

	if err := e.store.Write(spec.Name, value); err != nil {
		out.Status = StatusFailed
		out.Error = err.Error()
		return out
	}
	out.Status = StatusPersisted
	out.Changed = true
	return out
}

// missingOutcome classifies a token with no resolvable value. Required
// tokens always fail; skipping never wins over a required-but-missing
// token.
func missingOutcome(spec TokenSpec) TokenOutcome {
	out := TokenOutcome{
		Name:   spec.Name,
		Stored: redact.Empty,
	}
	if spec.Required {
		out.Status = StatusFailed
		out.Error = fmt.Sprintf("required token %s has no value", spec.Name)
	} else {
		out.Status = StatusSkipped
	}
	return out
}

func readFailedOutcome(spec TokenSpec, err error) TokenOutcome {
	return TokenOutcome{
		Name:      spec.Name,
		Status:    StatusFailed,
		Attempted: true,
		Stored:    redact.Empty,
		Error:     err.Error(),
	}
}

// report folds the per-token outcomes into the final success-shaped
// response, including a fresh post-run snapshot of the durable store.
func (e *Engine) report(action string, specs []TokenSpec, outcomes []TokenOutcome, provided map[string]string) *Report {
	summary := Summary{Action: action}
	for _, out := range outcomes {
		switch out.Status {
		case StatusPersisted:
			summary.TokensModified++
		case StatusSkipped:
			summary.TokensSkipped++
		case StatusFailed:
			summary.TokensFailed++
		}
	}
	if summary.TokensFailed > 0 {
		summary.ExitCode = ExitTokensFailed
	}

	user := make(map[string]string, len(specs))
	for _, spec := range specs {
		value, err := e.store.Read(spec.Name)
		if err != nil {
			value = ""
		}
		user[spec.Name] = redact.Display(spec.Name, value)
	}

	return &Report{
		Status:              "success",
		Summary:             summary,
		Results:             outcomes,
		EnvironmentSnapshot: Snapshot{Provided: provided, User: user},
	}
}
