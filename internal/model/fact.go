package model

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Fact is the ingestion boundary record: one extracted (name, parameter,
// source) tuple of possibly-unknown unit, handed over by the acquisition
// layer. How it was extracted is not this package's concern.
type Fact struct {
	Kind       Kind       `json:"ingredient_kind" yaml:"ingredient_kind"`
	Name       string     `json:"name" yaml:"name"`
	Producer   string     `json:"producer,omitempty" yaml:"producer,omitempty"`
	Parameter  string     `json:"parameter_name" yaml:"parameter_name"`
	ValueMin   *float64   `json:"value_min,omitempty" yaml:"value_min,omitempty"`
	ValueMax   *float64   `json:"value_max,omitempty" yaml:"value_max,omitempty"`
	Text       string     `json:"text_value,omitempty" yaml:"text_value,omitempty"`
	Unit       string     `json:"detected_unit,omitempty" yaml:"detected_unit,omitempty"`
	SourceURL  string     `json:"source_url" yaml:"source_url"`
	SourceType SourceType `json:"source_type" yaml:"source_type"`
}

// Validate checks identity fields and the raw range ordering. Parameter
// names are validated later, during normalization, where the kind's field
// table is known.
func (f *Fact) Validate() error {
	if _, err := ParseKind(string(f.Kind)); err != nil {
		return err
	}
	if strings.TrimSpace(f.Name) == "" {
		return eris.Wrap(ErrValidation, "fact: name is required")
	}
	if strings.TrimSpace(f.Parameter) == "" {
		return eris.Wrapf(ErrValidation, "fact %s: parameter name is required", f.Name)
	}
	if f.ValueMin == nil && f.ValueMax == nil && f.Text == "" {
		return eris.Wrapf(ErrValidation, "fact %s/%s: no value", f.Name, f.Parameter)
	}
	if err := checkPair("fact "+f.Name+": "+f.Parameter, f.ValueMin, f.ValueMax); err != nil {
		return err
	}
	if f.SourceType != "" && !f.SourceType.valid() {
		return eris.Wrapf(ErrValidation, "fact %s: unknown source type %q", f.Name, f.SourceType)
	}
	return nil
}

// Range returns the fact's numeric range with a point value widened to an
// equal min/max pair.
func (f *Fact) Range() (min, max *float64) {
	min, max = f.ValueMin, f.ValueMax
	if min == nil {
		min = max
	}
	if max == nil {
		max = min
	}
	return min, max
}
