package service

import (
	"strings"

	"go-catalog-admin/internal/model"
)

// AttributeMatrix indexes the declared attributes of a product so variant
// assignments can be checked with O(1) membership lookups.
type AttributeMatrix struct {
	codes  []string
	values map[string]map[string]struct{}
}

// BuildAttributeMatrix normalizes and indexes the attribute definitions.
// Codes are trimmed; duplicate codes, empty values and duplicate values
// within one attribute are rejected, since duplicates would make the variant
// matrix ambiguous.
func BuildAttributeMatrix(attrs []model.AttributeInput) (*AttributeMatrix, error) {
	m := &AttributeMatrix{
		codes:  make([]string, 0, len(attrs)),
		values: make(map[string]map[string]struct{}, len(attrs)),
	}

	for i := range attrs {
		code := strings.TrimSpace(attrs[i].Code)
		if code == "" {
			return nil, invalid("attributes.code", "is required")
		}
		if _, exists := m.values[code]; exists {
			return nil, invalid("attributes.code", "duplicate attribute code "+code)
		}
		attrs[i].Code = code

		set := make(map[string]struct{}, len(attrs[i].Values))
		for j, v := range attrs[i].Values {
			v = strings.TrimSpace(v)
			if v == "" {
				return nil, invalid("attributes.values", "attribute "+code+" has an empty value")
			}
			if _, dup := set[v]; dup {
				return nil, invalid("attributes.values", "attribute "+code+" has duplicate value "+v)
			}
			attrs[i].Values[j] = v
			set[v] = struct{}{}
		}

		m.codes = append(m.codes, code)
		m.values[code] = set
	}
	return m, nil
}

// ValidateAssignment checks that the assignment covers exactly the declared
// code set, each with a declared value. label identifies the variant in the
// returned error.
func (m *AttributeMatrix) ValidateAssignment(label string, assignment map[string]string) error {
	for _, code := range m.codes {
		value, ok := assignment[code]
		if !ok || value == "" {
			return &IncompleteVariantAttributesError{Variant: label, Code: code, Reason: "is missing"}
		}
		if _, ok := m.values[code][value]; !ok {
			return &IncompleteVariantAttributesError{Variant: label, Code: code, Reason: "has undeclared value " + value}
		}
	}

	// No extra codes either: an assignment against an attribute that was
	// never declared for the product is rejected, not ignored.
	for code := range assignment {
		if _, ok := m.values[code]; !ok {
			return &IncompleteVariantAttributesError{Variant: label, Code: code, Reason: "was never declared for this product"}
		}
	}
	return nil
}
