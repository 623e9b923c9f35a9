package frontmatter

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const schemaURL = "https://github.com/ryantking/crules/schemas/rule.schema.json"

//go:embed rule.schema.json
var ruleSchema []byte

// ValidationError reports a rule whose frontmatter does not match the schema.
type ValidationError struct {
	Err    error  // Underlying error.
	Detail string // Detailed error message.
}

func (e *ValidationError) Error() string {
	return "invalid frontmatter: " + e.Detail
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Validator checks rule frontmatter against the bundled JSON schema.
// Uses [github.com/santhosh-tekuri/jsonschema/v6].
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator compiles the rule schema.
func NewValidator() (*Validator, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(ruleSchema))
	if err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, doc); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}

	s, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	return &Validator{schema: s}, nil
}

// Validate checks the frontmatter of a rule file's content.
func (v *Validator) Validate(content []byte) error {
	raw, err := Raw(content)
	if err != nil {
		return &ValidationError{Err: err, Detail: err.Error()}
	}

	// Round-trip through JSON so YAML scalars take the JSON types the
	// validator expects.
	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("encode frontmatter: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode frontmatter: %w", err)
	}

	err = v.schema.Validate(inst)
	if err == nil {
		return nil
	}

	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) {
		return fmt.Errorf("schema validation: %w", err)
	}

	return &ValidationError{
		Err:    errors.New("schema validation"),
		Detail: validationErr.Error(),
	}
}
