package config

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var schemaJSON []byte

// ValidateSchema checks the merged settings against the embedded JSON schema.
// All violations are reported, joined, and wrapped in ErrSchemaViolation.
func (c *Config) ValidateSchema() error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaJSON),
		gojsonschema.NewGoLoader(c),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSchemaViolation, err)
	}

	if result.Valid() {
		return nil
	}

	violations := make([]error, 0, len(result.Errors()))
	for _, verr := range result.Errors() {
		violations = append(violations, fmt.Errorf("%s: %s", verr.Field(), verr.Description()))
	}

	return fmt.Errorf("%w: %w", ErrSchemaViolation, errors.Join(violations...))
}
