package services

import "errors"

// Sentinel errors shared across services. Handlers map these to HTTP
// statuses with errors.Is.
var (
	ErrForbidden = errors.New("caller role does not permit this operation")
	ErrNotFound  = errors.New("not found")
)
