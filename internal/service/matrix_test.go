package service

import (
	"testing"

	"go-catalog-admin/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sizeColorAttrs() []model.AttributeInput {
	return []model.AttributeInput{
		{Code: "size", Name: "Size", Values: []string{"S", "M"}},
		{Code: "color", Name: "Color", Values: []string{"red", "blue"}},
	}
}

func TestBuildAttributeMatrix(t *testing.T) {
	m, err := BuildAttributeMatrix(sizeColorAttrs())
	require.NoError(t, err)

	err = m.ValidateAssignment("A", map[string]string{"size": "S", "color": "red"})
	assert.NoError(t, err)
}

func TestBuildAttributeMatrixTrimsCodesAndValues(t *testing.T) {
	attrs := []model.AttributeInput{
		{Code: "  size ", Values: []string{" S ", "M"}},
	}
	m, err := BuildAttributeMatrix(attrs)
	require.NoError(t, err)

	assert.Equal(t, "size", attrs[0].Code)
	assert.Equal(t, []string{"S", "M"}, attrs[0].Values)
	assert.NoError(t, m.ValidateAssignment("A", map[string]string{"size": "S"}))
}

func TestBuildAttributeMatrixRejectsDuplicateCode(t *testing.T) {
	attrs := []model.AttributeInput{
		{Code: "size", Values: []string{"S"}},
		{Code: "size", Values: []string{"M"}},
	}
	_, err := BuildAttributeMatrix(attrs)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "attributes.code", vErr.Field)
}

func TestBuildAttributeMatrixRejectsDuplicateValues(t *testing.T) {
	attrs := []model.AttributeInput{
		{Code: "size", Values: []string{"S", "S"}},
	}
	_, err := BuildAttributeMatrix(attrs)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Message, "duplicate value")
}

func TestBuildAttributeMatrixRejectsEmptyValue(t *testing.T) {
	attrs := []model.AttributeInput{
		{Code: "size", Values: []string{"S", "  "}},
	}
	_, err := BuildAttributeMatrix(attrs)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestValidateAssignmentMissingCode(t *testing.T) {
	m, err := BuildAttributeMatrix(sizeColorAttrs())
	require.NoError(t, err)

	err = m.ValidateAssignment("B", map[string]string{"size": "M"})

	var iErr *IncompleteVariantAttributesError
	require.ErrorAs(t, err, &iErr)
	assert.Equal(t, "B", iErr.Variant)
	assert.Equal(t, "color", iErr.Code)
}

func TestValidateAssignmentUndeclaredValue(t *testing.T) {
	m, err := BuildAttributeMatrix(sizeColorAttrs())
	require.NoError(t, err)

	err = m.ValidateAssignment("B", map[string]string{"size": "XL", "color": "red"})

	var iErr *IncompleteVariantAttributesError
	require.ErrorAs(t, err, &iErr)
	assert.Equal(t, "size", iErr.Code)
	assert.Contains(t, iErr.Reason, "undeclared value")
}

func TestValidateAssignmentUndeclaredCode(t *testing.T) {
	m, err := BuildAttributeMatrix(sizeColorAttrs())
	require.NoError(t, err)

	err = m.ValidateAssignment("B", map[string]string{
		"size": "S", "color": "red", "material": "wool",
	})

	var iErr *IncompleteVariantAttributesError
	require.ErrorAs(t, err, &iErr)
	assert.Equal(t, "material", iErr.Code)
}

func TestValidateAssignmentNoAttributesDeclared(t *testing.T) {
	m, err := BuildAttributeMatrix(nil)
	require.NoError(t, err)

	assert.NoError(t, m.ValidateAssignment("A", map[string]string{}))

	err = m.ValidateAssignment("A", map[string]string{"size": "S"})
	var iErr *IncompleteVariantAttributesError
	require.ErrorAs(t, err, &iErr)
}
