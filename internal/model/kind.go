package model

import "github.com/rotisserie/eris"

// Kind identifies an ingredient record type.
type Kind string

const (
	KindHop   Kind = "hop"
	KindMalt  Kind = "malt"
	KindYeast Kind = "yeast"
)

// Kinds lists all ingredient kinds in catalog order.
var Kinds = []Kind{KindHop, KindMalt, KindYeast}

// ParseKind validates a kind string.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindHop, KindMalt, KindYeast:
		return Kind(s), nil
	}
	return "", eris.Wrapf(ErrValidation, "unknown ingredient kind %q", s)
}

// SourceType classifies where a record's parameters came from.
// Canonical data is taken from the producer's own documentation and wins
// over composed (third-party aggregated) data on conflict.
type SourceType string

const (
	SourceCanonical SourceType = "canonical"
	SourceComposed  SourceType = "composed"
)

func (s SourceType) valid() bool {
	return s == "" || s == SourceCanonical || s == SourceComposed
}

// ErrValidation is the root of all record validation failures. Callers
// check it with errors.Is; invalid records never reach storage.
var ErrValidation = eris.New("invalid ingredient record")
