package pipeline

import "errors"

var (
	// ErrNotAResume means the classifier confidently rejected the document and
	// the caller did not force the analysis.
	ErrNotAResume = errors.New("document is not a resume")

	// ErrInvalidAIResponse means the model output could not be normalized into
	// the mode's schema.
	ErrInvalidAIResponse = errors.New("invalid model response")

	// ErrCapacityExceeded means no concurrency gate slot freed up within the
	// configured wait timeout.
	ErrCapacityExceeded = errors.New("analysis capacity exceeded")
)

const (
	ErrorCodeValidation     = "VALIDATION_ERROR"
	ErrorCodeNotAResume     = "NOT_A_RESUME"
	ErrorCodeCapacity       = "CAPACITY_EXCEEDED"
	ErrorCodeLLMTimeout     = "LLM_TIMEOUT"
	ErrorCodeLLMUnavailable = "LLM_UNAVAILABLE"
	ErrorCodeSchemaMismatch = "LLM_SCHEMA_MISMATCH"
	ErrorCodeInternal       = "INTERNAL_ERROR"
)
