package enrichment

import "errors"

// Common errors returned by Annotator implementations.
var (
	// ErrAnnotationFailed is returned when the upstream call fails for any general reason
	ErrAnnotationFailed = errors.New("failed to generate annotation")

	// ErrInvalidResponse is returned when the upstream response cannot be parsed or is malformed
	ErrInvalidResponse = errors.New("invalid response from text-generation service")

	// ErrEmptyAnnotation is returned when the upstream call succeeds but yields no text
	ErrEmptyAnnotation = errors.New("text-generation service returned no text")

	// ErrContentBlocked is returned when the model refuses to answer due to safety filters
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrInvalidConfig is returned when an annotator or prompt cannot be built from configuration
	ErrInvalidConfig = errors.New("invalid enrichment configuration")
)
