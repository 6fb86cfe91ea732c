package model

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Float returns a pointer to v. Convenience for building records whose
// numeric parameters are nullable.
func Float(v float64) *float64 { return &v }

// Bool returns a pointer to v, for the tri-state boolean attributes where
// nil means the source never stated either way.
func Bool(v bool) *bool { return &v }

// checkPair enforces the bounded-range invariant min <= max. Either side
// may be nil (unknown); a point value is stored with min == max.
func checkPair(field string, min, max *float64) error {
	if min != nil && max != nil && *min > *max {
		return eris.Wrapf(ErrValidation, "%s: min %g exceeds max %g", field, *min, *max)
	}
	return nil
}

// midpoint returns the center of a range, or the known side when only one
// bound is present, or nil when both are unknown.
func midpoint(min, max *float64) *float64 {
	switch {
	case min != nil && max != nil:
		m := (*min + *max) / 2
		return &m
	case min != nil:
		return min
	default:
		return max
	}
}

// NormalizeTags dedupes a tag set, trimming whitespace and dropping
// empties. Order of first appearance is preserved so exports stay stable.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(tags))
	var out []string
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		key := strings.ToLower(t)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, t)
	}
	return out
}

// SplitTags parses a comma-joined tag column back into a tag set.
func SplitTags(s string) []string {
	if s == "" {
		return nil
	}
	return NormalizeTags(strings.Split(s, ","))
}

// JoinTags renders a tag set as the comma-joined storage form.
func JoinTags(tags []string) string {
	return strings.Join(NormalizeTags(tags), ",")
}

// MergeTags unions two tag sets, keeping existing order and appending
// new entries at the end.
func MergeTags(existing, incoming []string) []string {
	return NormalizeTags(append(append([]string{}, existing...), incoming...))
}
