// Package validation checks client profiles against the intake JSON schema.
package validation

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/bobmcallan/vire-intake/internal/models"
)

//go:embed profile.schema.json
var profileSchemaJSON string

var (
	schemaOnce    sync.Once
	profileSchema *gojsonschema.Schema
	schemaErr     error
)

func schema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		profileSchema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(profileSchemaJSON))
	})
	return profileSchema, schemaErr
}

// FieldError is one schema violation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ProfileError lists every violation found in a profile.
type ProfileError struct {
	Fields []FieldError
}

func (e *ProfileError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return "invalid client profile: " + strings.Join(parts, "; ")
}

// ValidateProfile checks p against the profile schema. Violations are
// returned as *ProfileError, sorted by field.
func ValidateProfile(p *models.ClientProfile) error {
	if p == nil {
		return &ProfileError{Fields: []FieldError{{Field: "(root)", Message: "profile is required"}}}
	}
	s, err := schema()
	if err != nil {
		return fmt.Errorf("load profile schema: %w", err)
	}

	result, err := s.Validate(gojsonschema.NewGoLoader(p))
	if err != nil {
		return fmt.Errorf("validate profile: %w", err)
	}
	if result.Valid() {
		return nil
	}

	fields := make([]FieldError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		field := desc.Field()
		if desc.Type() == "required" {
			if prop, ok := desc.Details()["property"].(string); ok {
				field = joinField(field, prop)
			}
		}
		fields = append(fields, FieldError{Field: field, Message: desc.Description()})
	}
	sort.SliceStable(fields, func(i, j int) bool { return fields[i].Field < fields[j].Field })
	return &ProfileError{Fields: fields}
}

func joinField(parent, child string) string {
	if parent == "" || parent == "(root)" {
		return child
	}
	return parent + "." + child
}
