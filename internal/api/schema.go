package api

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// promptSetSchema is the contract for the prompt-source payload: an
// object with a non-empty array of non-empty strings. An empty or
// otherwise malformed payload is an error, never a zero-item session.
const promptSetSchema = `{
	"type": "object",
	"required": ["prompts"],
	"properties": {
		"prompts": {
			"type": "array",
			"minItems": 1,
			"items": {"type": "string", "minLength": 1}
		}
	}
}`

var (
	promptSchemaOnce sync.Once
	promptSchema     *jsonschema.Schema
	promptSchemaErr  error
)

// validatePromptPayload checks raw against the prompt-set schema.
// Returns *ErrMalformedPayload on any violation.
func validatePromptPayload(raw json.RawMessage) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return &ErrMalformedPayload{Body: raw, Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	promptSchemaOnce.Do(func() {
		var def any
		if err := json.Unmarshal([]byte(promptSetSchema), &def); err != nil {
			promptSchemaErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource("schema://prompt-set.json", def); err != nil {
			promptSchemaErr = fmt.Errorf("add resource: %w", err)
			return
		}
		promptSchema, promptSchemaErr = c.Compile("schema://prompt-set.json")
	})
	if promptSchemaErr != nil {
		return fmt.Errorf("compile prompt schema: %w", promptSchemaErr)
	}

	if err := promptSchema.Validate(parsed); err != nil {
		return &ErrMalformedPayload{Body: raw, Err: fmt.Errorf("schema validation failed: %w", err)}
	}
	return nil
}
