// Package validation checks request payloads against embedded JSON schemas and
// holds the field rules shared by the services.
package validation

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/garnizeh/carematch/internal/apperr"
	"github.com/qri-io/jsonschema"
)

// Schema names, one per file under schemas/.
const (
	CaregiverRegistration = "caregiver_registration"
	MemberRegistration    = "member_registration"
	Login                 = "login"
	Job                   = "job"
	Application           = "application"
	Appointment           = "appointment"
	Address               = "address"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Validator holds the compiled payload schemas. It is safe for concurrent use.
type Validator struct {
	schemas map[string]*jsonschema.Schema
}

// NewValidator compiles every embedded schema.
func NewValidator() (*Validator, error) {
	entries, err := fs.ReadDir(schemaFS, "schemas")
	if err != nil {
		return nil, fmt.Errorf("read schemas: %w", err)
	}

	v := &Validator{schemas: make(map[string]*jsonschema.Schema, len(entries))}
	for _, e := range entries {
		b, err := schemaFS.ReadFile(path.Join("schemas", e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read schema %s: %w", e.Name(), err)
		}
		rs := &jsonschema.Schema{}
		if err := json.Unmarshal(b, rs); err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", e.Name(), err)
		}
		v.schemas[strings.TrimSuffix(e.Name(), ".json")] = rs
	}
	return v, nil
}

// Validate checks body against the named schema. Violations are reported as
// *apperr.ValidationError keyed by field name.
func (v *Validator) Validate(ctx context.Context, name string, body []byte) error {
	rs, ok := v.schemas[name]
	if !ok {
		return fmt.Errorf("unknown schema %q", name)
	}

	if !json.Valid(body) {
		return apperr.Invalid("body", "malformed JSON")
	}

	kerrs, err := rs.ValidateBytes(ctx, body)
	if err != nil {
		return apperr.Invalid("body", "malformed JSON")
	}
	if len(kerrs) == 0 {
		return nil
	}

	verr := &apperr.ValidationError{}
	for _, ke := range kerrs {
		field := strings.TrimPrefix(ke.PropertyPath, "/")
		if field == "" {
			field = quotedField(ke.Message)
		}
		if _, seen := verr.Fields[field]; !seen {
			verr.Add(field, ke.Message)
		}
	}
	return verr
}

// quotedField pulls the property name out of messages like `"email" value is required`.
func quotedField(msg string) string {
	if strings.HasPrefix(msg, `"`) {
		if end := strings.Index(msg[1:], `"`); end > 0 {
			return msg[1 : end+1]
		}
	}
	return "body"
}
