package extract

import "errors"

// Extraction failures are deterministic for a given input; callers must not retry.
var (
	// ErrTooLarge means the payload exceeded the configured size limit.
	// It is returned before any parser touches the bytes.
	ErrTooLarge = errors.New("document too large")

	// ErrCorruptDocument means the payload could not be parsed as its declared format.
	ErrCorruptDocument = errors.New("corrupt document")

	// ErrNoTextContent means parsing succeeded but yielded no extractable text.
	ErrNoTextContent = errors.New("no text content")

	// ErrUnsupportedFormat means the declared MIME type or extension maps to no extractor.
	ErrUnsupportedFormat = errors.New("unsupported document format")
)
