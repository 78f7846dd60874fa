package services

import "errors"

// Sentinel errors for business-rule failures. Services wrap them with
// fmt.Errorf("%w: ...") and the HTTP layer maps them to status codes:
// ErrValidation 400, ErrForbidden 403, ErrNotFound 404, ErrConflict 409.
// Anything else is a storage/IO failure and surfaces as 500.
var (
	ErrValidation = errors.New("validation failed")
	ErrForbidden  = errors.New("forbidden")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)
