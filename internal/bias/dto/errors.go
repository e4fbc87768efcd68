package dto

import "errors"

var (
	// ErrNoUsableSeries is returned when a provider answers with fewer than two usable points.
	ErrNoUsableSeries = errors.New("no usable series")
	// ErrMissingCredential is returned when a keyed provider has no key configured.
	ErrMissingCredential = errors.New("missing provider credential")
	// ErrNoSignal is returned when an indicator produced nothing to score.
	ErrNoSignal = errors.New("no signal")
	// ErrUnknownMode is returned for a run mode without a registered pipeline.
	ErrUnknownMode = errors.New("unknown run mode")
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")
)

// ErrorResponse represents a generic error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}
