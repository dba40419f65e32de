package chat

import "errors"

// NormalizationError marks a raw history record that cannot be converted to
// the canonical message form. Callers log it and drop the record; it never
// fails a whole batch.
type NormalizationError struct {
	Reason string
}

func (e *NormalizationError) Error() string { return "normalize: " + e.Reason }

// ErrClosed is returned by conversation operations started after Close.
var ErrClosed = errors.New("conversation closed")
