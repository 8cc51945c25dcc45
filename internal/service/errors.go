package service

import "fmt"

// ValidationError names the first violated field of an inbound payload.
// It never reaches the store; the HTTP layer maps it to a 400.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Message)
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IncompleteVariantAttributesError identifies a variant whose attribute
// assignment does not cover the product's declared attribute matrix.
type IncompleteVariantAttributesError struct {
	Variant string // SKU if present, else 1-based ordinal
	Code    string
	Reason  string
}

func (e *IncompleteVariantAttributesError) Error() string {
	return fmt.Sprintf("variant %s: attribute %q %s", e.Variant, e.Code, e.Reason)
}

// StorageWriteError wraps an asset store failure. Not retried internally;
// the caller resubmits the file.
type StorageWriteError struct {
	Path string
	Err  error
}

func (e *StorageWriteError) Error() string {
	return fmt.Sprintf("storage write failed for %s: %v", e.Path, e.Err)
}

func (e *StorageWriteError) Unwrap() error { return e.Err }
