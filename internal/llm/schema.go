package llm

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/kaptinlin/jsonschema"
)

// CompileSchema compiles a JSON Schema document used to check model output.
func CompileSchema(src string) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile([]byte(src))
	if err != nil {
		return nil, fmt.Errorf("compiling schema: %w", err)
	}
	return schema, nil
}

// MustCompileSchema is CompileSchema for package-level schema literals.
func MustCompileSchema(src string) *jsonschema.Schema {
	schema, err := CompileSchema(src)
	if err != nil {
		panic(err)
	}
	return schema
}

// ValidateAgainstSchema decodes doc generically and validates it. Failures
// wrap ErrInvalidOutput and list the offending fields in stable order.
func ValidateAgainstSchema(schema *jsonschema.Schema, doc []byte) error {
	var instance any
	if err := json.Unmarshal(doc, &instance); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}

	result := schema.Validate(instance)
	if result.IsValid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors))
	for field, e := range result.Errors {
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, e.Error()))
	}
	sort.Strings(msgs)
	return fmt.Errorf("%w: schema validation failed: %s", ErrInvalidOutput, strings.Join(msgs, "; "))
}
