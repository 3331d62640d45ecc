package models

import (
	"fmt"
	"strings"
)

// Rule identifies the validation rule a field violated.
type Rule string

const (
	// RuleRequired means a required field was absent or empty.
	RuleRequired Rule = "required"

	// RuleForbidden means a field was present that the entity's type does
	// not allow.
	RuleForbidden Rule = "forbidden"

	// RuleEmpty means an optional field was present but empty. Empty
	// strings and explicit empty lists never count as "present"; they are
	// rejected instead.
	RuleEmpty Rule = "empty"

	// RuleEnum means a value was outside the field's enumerated set.
	RuleEnum Rule = "enum"

	// RuleFormat means a value failed a format constraint (UUID syntax,
	// MAC syntax, numeric range, and so on).
	RuleFormat Rule = "format"

	// RuleCardinality means a list field had the wrong number of entries
	// for the entity's type.
	RuleCardinality Rule = "cardinality"

	// RuleUnknownVariant means a discriminator value was outside the
	// enumerated set for its category.
	RuleUnknownVariant Rule = "unknown-variant"

	// RuleConflict means two fields that are mutually exclusive were both
	// present, or a cross-field requirement was not met.
	RuleConflict Rule = "conflict"
)

// Violation records a single validation failure: which field, which rule,
// and what value was provided.
type Violation struct {
	Path  string
	Rule  Rule
	Value any
}

func (v Violation) String() string {
	if v.Value == nil {
		return fmt.Sprintf("%s: %s", v.Path, v.Rule)
	}
	return fmt.Sprintf("%s: %s (got %v)", v.Path, v.Rule, v.Value)
}

// Report aggregates every violation found while validating one entity. It
// is returned as a single error so callers can decide whether to surface
// all violations at once or just abort.
type Report struct {
	Violations []Violation
}

// Error implements the error interface.
func (r *Report) Error() string {
	if len(r.Violations) == 0 {
		return "invalid configuration"
	}
	parts := make([]string, len(r.Violations))
	for i, v := range r.Violations {
		parts[i] = v.String()
	}
	return fmt.Sprintf("invalid configuration: %s", strings.Join(parts, "; "))
}

// Empty reports whether the report contains no violations.
func (r *Report) Empty() bool {
	return len(r.Violations) == 0
}

// add appends a violation at path under the report's current prefix.
func (r *Report) add(path string, rule Rule, value any) {
	r.Violations = append(r.Violations, Violation{Path: path, Rule: rule, Value: value})
}

// errOrNil returns the report as an error when it holds violations.
func (r *Report) errOrNil() error {
	if r.Empty() {
		return nil
	}
	return r
}

// path joins field path segments the way the report spells them.
func path(parts ...string) string {
	return strings.Join(parts, ".")
}

// indexed formats a list element path segment.
func indexed(field string, i int) string {
	return fmt.Sprintf("%s[%d]", field, i)
}
