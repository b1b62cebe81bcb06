// Package llm defines the structured-output LLM client contract the
// planner, extractor, composer, and verifier invoke against, plus the
// schema generation helper they use to constrain it. Grounded on
// ai/model/converter/struct.go and pkg/json/schema.go.
package llm

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/invopop/jsonschema"
)

// SchemaOf generates a JSON Schema document for T, suitable for embedding
// in a prompt or passed as a provider-native structured-output schema.
func SchemaOf[T any]() (map[string]any, error) {
	var zero T
	r := &jsonschema.Reflector{
		Anonymous:      true,
		DoNotReference: true,
	}

	t := reflect.TypeOf(zero)
	if t != nil && (t.Kind() == reflect.Struct || (t.Kind() == reflect.Ptr && t.Elem().Kind() == reflect.Struct)) {
		r.ExpandedStruct = true
	}

	schema := r.Reflect(&zero)
	if schema == nil {
		return nil, fmt.Errorf("llm: failed to reflect schema for %T", zero)
	}
	schema.Version = ""

	raw, err := schema.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("llm: marshal schema to JSON: %w", err)
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("llm: unmarshal schema to map: %w", err)
	}
	return m, nil
}

// StringSchemaOf is SchemaOf rendered back to a compact JSON string, for
// embedding directly into a system or user prompt (the format most chat
// models expect when not using a provider's native schema parameter).
func StringSchemaOf[T any]() (string, error) {
	m, err := SchemaOf[T]()
	if err != nil {
		return "", err
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("llm: marshal schema map: %w", err)
	}
	return string(raw), nil
}
