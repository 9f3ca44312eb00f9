package domain

import "errors"

// Common domain errors
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrDuplicateEntry = errors.New("duplicate entry")
)

// Submission errors
var (
	ErrDuplicateSubmission  = errors.New("submission already exists for this location and date")
	ErrRatingOutOfRange     = errors.New("rating must be between 1 and 10")
	ErrUnknownChecklistItem = errors.New("checklist item does not belong to the submission location")
)
