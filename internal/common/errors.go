// Package common defines shared constants and sentinel errors used across
// client and server layers of Your Journey. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")
	ErrStore           = errors.New("store error")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Time-capsule lifecycle errors.
	ErrCapsuleLocked   = errors.New("time capsule is still locked")
	ErrCapsuleExists   = errors.New("diary already has a time capsule")
	ErrInvalidOpenDate = errors.New("invalid open date")

	// Validation errors.
	ErrValidation = errors.New("validation error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)
