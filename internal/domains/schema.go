package domains

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// ValidationError carries field-level failures from schema validation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for name, msg := range e.Fields {
		parts = append(parts, name+": "+msg)
	}
	return "invalid product attributes: " + strings.Join(parts, "; ")
}

// Schema is the effective domain-conditional field set for one tenant,
// resolved from its assigned domain codes. It is immutable after Resolve
// and safe to share across concurrent requests.
type Schema struct {
	codes  []string
	fields []FieldSpec
	index  map[string]FieldSpec
}

// Resolve unions the field sets of the given domain codes. When two domains
// define the same field name, the first assigned domain wins: resolution
// follows the stored order of the tenant's domain_codes and later
// definitions of an already-claimed name are skipped. Unknown codes are
// ignored so a stale tenant row cannot break reads.
func Resolve(codes []string) *Schema {
	s := &Schema{
		codes: append([]string(nil), codes...),
		index: make(map[string]FieldSpec),
	}
	for _, code := range codes {
		d, ok := registry[code]
		if !ok {
			continue
		}
		for _, f := range d.Fields {
			if _, claimed := s.index[f.Name]; claimed {
				continue
			}
			s.index[f.Name] = f
			s.fields = append(s.fields, f)
		}
	}
	return s
}

// Codes returns the domain codes this schema was resolved from.
func (s *Schema) Codes() []string {
	return append([]string(nil), s.codes...)
}

// Fields returns the resolved field specs in resolution order.
func (s *Schema) Fields() []FieldSpec {
	return append([]FieldSpec(nil), s.fields...)
}

// Field looks up a resolved field spec by name.
func (s *Schema) Field(name string) (FieldSpec, bool) {
	f, ok := s.index[name]
	return f, ok
}

// ValidateCreate checks a full attribute payload: unknown fields are
// rejected, required fields must be present, and every value must satisfy
// its spec's type and range rules.
func (s *Schema) ValidateCreate(attrs map[string]any) error {
	return s.validate(attrs, false)
}

// ValidateUpdate checks a partial attribute payload: unknown fields and
// present values are checked as on create, but absent required fields are
// not an error.
func (s *Schema) ValidateUpdate(attrs map[string]any) error {
	return s.validate(attrs, true)
}

func (s *Schema) validate(attrs map[string]any, partial bool) error {
	fields := map[string]string{}

	for name, value := range attrs {
		spec, ok := s.index[name]
		if !ok {
			fields[name] = "unknown field for this tenant's domains"
			continue
		}
		if value == nil {
			if spec.Required {
				fields[name] = "field is required"
			}
			continue
		}
		if msg := checkValue(spec, value); msg != "" {
			fields[name] = msg
		}
	}

	if !partial {
		for _, spec := range s.fields {
			if !spec.Required {
				continue
			}
			if v, present := attrs[spec.Name]; !present || v == nil {
				fields[spec.Name] = "field is required"
			}
		}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// SerializeAttributes filters stored attributes down to the resolved
// schema. Values written under a domain the tenant no longer holds stay in
// the row but never reach a response.
func (s *Schema) SerializeAttributes(attrs map[string]any) map[string]any {
	out := make(map[string]any, len(attrs))
	for name, value := range attrs {
		if _, ok := s.index[name]; ok {
			out[name] = value
		}
	}
	return out
}

// checkValue validates a single decoded JSON value against its spec.
// JSON numbers arrive as float64; integer kinds additionally require an
// integral value.
func checkValue(spec FieldSpec, value any) string {
	switch spec.Kind {
	case KindString, KindDate:
		str, ok := value.(string)
		if !ok {
			return fmt.Sprintf("must be a %s", spec.Kind)
		}
		if spec.Kind == KindDate {
			if _, err := time.Parse("2006-01-02", str); err != nil {
				return "must be a date in YYYY-MM-DD format"
			}
			return ""
		}
		if spec.MaxLen > 0 && len(str) > spec.MaxLen {
			return fmt.Sprintf("cannot exceed %d characters", spec.MaxLen)
		}
	case KindInt:
		num, ok := value.(float64)
		if !ok || num != math.Trunc(num) {
			return "must be an integer"
		}
		if spec.Min != nil && num < *spec.Min {
			return fmt.Sprintf("must be at least %d", int(*spec.Min))
		}
	case KindFloat:
		num, ok := value.(float64)
		if !ok {
			return "must be a number"
		}
		if spec.Min != nil && num < *spec.Min {
			return fmt.Sprintf("must be at least %g", *spec.Min)
		}
	case KindBool:
		if _, ok := value.(bool); !ok {
			return "must be a boolean"
		}
	}
	return ""
}
