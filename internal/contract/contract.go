// Package contract validates request and response payloads against the
// tool's JSON contracts and dispatches validated requests to the engine.
package contract

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schemas/input.schema.json
var inputSchemaJSON []byte

//go:embed schemas/output.schema.json
var outputSchemaJSON []byte

//go:embed schemas/error.schema.json
var errorSchemaJSON []byte

const (
	// Command is the literal identifying this tool in request payloads.
	Command = "envkeep"
	// ExitInvalidRequest is returned when the inbound payload fails schema
	// validation or names an unknown action.
	ExitInvalidRequest = 2
	// InvalidPayloadMessage is the fixed failure message for contract
	// violations.
	InvalidPayloadMessage = "input payload failed validation"
)

var (
	schemaOnce   sync.Once
	inputSchema  *jsonschema.Schema
	outputSchema *jsonschema.Schema
	errorSchema  *jsonschema.Schema
)

func compileSchemas() {
	inputSchema = mustCompile("input.schema.json", inputSchemaJSON)
	outputSchema = mustCompile("output.schema.json", outputSchemaJSON)
	errorSchema = mustCompile("error.schema.json", errorSchemaJSON)
}

func mustCompile(name string, raw []byte) *jsonschema.Schema {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		panic(fmt.Sprintf("contract: invalid embedded schema %s: %v", name, err))
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, doc); err != nil {
		panic(fmt.Sprintf("contract: %s: %v", name, err))
	}
	schema, err := compiler.Compile(name)
	if err != nil {
		panic(fmt.Sprintf("contract: %s: %v", name, err))
	}
	return schema
}

// normalize round-trips a Go value through JSON so it is in the
// representation the validator expects, regardless of how the caller built
// it.
func normalize(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return jsonschema.UnmarshalJSON(bytes.NewReader(data))
}

func validateAgainst(schema *jsonschema.Schema, payload any) error {
	schemaOnce.Do(compileSchemas)
	normalized, err := normalize(payload)
	if err != nil {
		return err
	}
	return schema.Validate(normalized)
}

// ValidateInput checks a request payload against the input contract.
func ValidateInput(payload any) error {
	schemaOnce.Do(compileSchemas)
	return validateAgainst(inputSchema, payload)
}

// ValidateOutput checks a response payload against the success contract.
func ValidateOutput(payload any) error {
	schemaOnce.Do(compileSchemas)
	return validateAgainst(outputSchema, payload)
}

// ValidateError checks a response payload against the failure contract.
func ValidateError(payload any) error {
	schemaOnce.Do(compileSchemas)
	return validateAgainst(errorSchema, payload)
}

var parametersSchemaOnce sync.Once
var parametersSchemaRaw []byte

// ParametersSchemaJSON returns the schema of the request's parameters
// object, for surfaces (such as MCP tools) that accept the parameters
// directly.
func ParametersSchemaJSON() []byte {
	parametersSchemaOnce.Do(func() {
		var doc struct {
			Properties map[string]json.RawMessage `json:"properties"`
		}
		if err := json.Unmarshal(inputSchemaJSON, &doc); err != nil {
			panic(fmt.Sprintf("contract: input schema: %v", err))
		}
		raw, ok := doc.Properties["parameters"]
		if !ok {
			panic("contract: input schema has no parameters property")
		}
		parametersSchemaRaw = raw
	})
	return parametersSchemaRaw
}
