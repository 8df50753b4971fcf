package domain

import "errors"

// Sentinel errors shared across the client core. The request pipeline maps
// backend responses onto these so callers can branch with errors.Is without
// inspecting HTTP status codes.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionExpired     = errors.New("session expired")
	ErrForbidden          = errors.New("access forbidden")
	ErrNotFound           = errors.New("resource not found")
	ErrConflict           = errors.New("resource conflict")
	ErrValidation         = errors.New("validation failed")
	ErrServerError        = errors.New("backend internal error")
	ErrBackendUnreachable = errors.New("backend unreachable")
)

var (
	ErrInvalidQuantity   = errors.New("quantity changed must be a positive integer")
	ErrUnknownChangeType = errors.New("unknown stock change type")
)
