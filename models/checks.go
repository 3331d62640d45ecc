package models

import (
	"github.com/google/uuid"
)

// presence marks whether a sub-field is required, optional, or forbidden
// for a given entity type.
type presence int

const (
	forbidden presence = iota
	optional
	required
)

// checkString verifies a string field against its declared presence.
// An empty string is treated as absent: required rejects it as missing,
// forbidden only fires on a non-empty value, and optional accepts it.
func checkString(r *Report, p string, want presence, v string) {
	switch want {
	case required:
		if v == "" {
			r.add(p, RuleRequired, nil)
		}
	case forbidden:
		if v != "" {
			r.add(p, RuleForbidden, v)
		}
	}
}

// checkList verifies a list field. Absent (nil) lists are fine for
// optional fields; explicit empty lists are not. exactly > 0 pins the
// entry count for types that accept only a fixed number of entries.
func checkList(r *Report, p string, want presence, v []string, exactly int) {
	switch want {
	case required:
		if len(v) == 0 {
			r.add(p, RuleRequired, nil)
			return
		}
	case forbidden:
		if v != nil {
			r.add(p, RuleForbidden, v)
		}
		return
	case optional:
		if v == nil {
			return
		}
		if len(v) == 0 {
			r.add(p, RuleEmpty, nil)
			return
		}
	}

	for i, entry := range v {
		if entry == "" {
			r.add(indexed(p, i), RuleEmpty, nil)
		}
	}

	if exactly > 0 && len(v) != exactly {
		r.add(p, RuleCardinality, len(v))
	}
}

// checkEnum verifies a present string value against an enumerated set.
// Absent values pass; use checkString for presence.
func checkEnum(r *Report, p string, v string, allowed ...string) {
	if v == "" {
		return
	}
	for _, a := range allowed {
		if v == a {
			return
		}
	}
	r.add(p, RuleEnum, v)
}

// checkOnOff verifies an on/off switch field.
func checkOnOff(r *Report, p string, v string) {
	checkEnum(r, p, v, "on", "off")
}

// checkYesNo verifies a yes/no switch field.
func checkYesNo(r *Report, p string, v string) {
	checkEnum(r, p, v, "yes", "no")
}

// checkUUID verifies UUID syntax for a present value.
func checkUUID(r *Report, p string, v string) {
	if v == "" {
		return
	}
	if _, err := uuid.Parse(v); err != nil {
		r.add(p, RuleFormat, v)
	}
}

// checkPositive verifies a present numeric field is strictly positive.
func checkPositive(r *Report, p string, v *int) {
	if v != nil && *v <= 0 {
		r.add(p, RuleFormat, *v)
	}
}

// checkRange verifies a present numeric field falls in (lo, hi) exclusive.
func checkRange(r *Report, p string, v *int, lo, hi int) {
	if v != nil && (*v <= lo || *v >= hi) {
		r.add(p, RuleFormat, *v)
	}
}
