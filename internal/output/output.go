// Package output renders response payloads as JSON, optionally filtered
// through a jq query or a JSONPath expression.
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/PaesslerAG/jsonpath"
	"github.com/itchyny/gojq"
)

// Printer writes JSON payloads to a single destination.
type Printer struct {
	w        io.Writer
	compact  bool
	query    string
	jsonPath string
}

// Option configures a Printer.
type Option func(*Printer)

// WithCompact switches off pretty-printing.
func WithCompact(compact bool) Option {
	return func(p *Printer) { p.compact = compact }
}

// WithQuery filters output through a jq query.
func WithQuery(query string) Option {
	return func(p *Printer) { p.query = query }
}

// WithJSONPath extracts a JSONPath expression before printing.
func WithJSONPath(path string) Option {
	return func(p *Printer) { p.jsonPath = path }
}

// New creates a Printer writing to w.
func New(w io.Writer, opts ...Option) *Printer {
	p := &Printer{w: w}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Print renders data. JSONPath extraction runs before the jq query when
// both are configured.
func (p *Printer) Print(data any) error {
	normalized, err := normalizeToInterface(data)
	if err != nil {
		return err
	}

	if p.jsonPath != "" {
		extracted, err := jsonpath.Get(p.jsonPath, normalized)
		if err != nil {
			return fmt.Errorf("invalid --jsonpath: %w", err)
		}
		normalized = extracted
	}

	if p.query != "" {
		return p.runQuery(p.query, normalized)
	}
	return p.encode(normalized)
}

func (p *Printer) encode(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetEscapeHTML(false)
	if !p.compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// runQuery runs a gojq query over normalized data and writes each result
// as JSON.
func (p *Printer) runQuery(query string, data any) error {
	parsed, err := gojq.Parse(query)
	if err != nil {
		return fmt.Errorf("invalid --jq: %w", err)
	}
	code, err := gojq.Compile(parsed)
	if err != nil {
		return fmt.Errorf("invalid --jq: %w", err)
	}

	iter := code.Run(data)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if queryErr, isErr := v.(error); isErr {
			return fmt.Errorf("query error: %v", queryErr)
		}
		if err := p.encode(v); err != nil {
			return err
		}
	}
	return nil
}

// normalizeToInterface converts structs to plain map/slice form so gojq and
// jsonpath can traverse them.
func normalizeToInterface(data any) (any, error) {
	switch data.(type) {
	case map[string]any, []any:
		return data, nil
	}
	buf, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode data: %w", err)
	}
	var out any
	if err := json.Unmarshal(buf, &out); err != nil {
		return nil, fmt.Errorf("failed to decode data: %w", err)
	}
	return out, nil
}
