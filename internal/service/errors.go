package service

import "errors"

// Sentinel errors shared across services. Handlers map these to HTTP
// status codes and the response envelope.
var (
	ErrNotFound           = errors.New("record not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account is deactivated")

	ErrActiveTripExists = errors.New("user already has an active trip")
	ErrTripNotFound     = errors.New("no active trip found")
	ErrTripNotActive    = errors.New("trip not found or already closed")
	ErrReasonRequired   = errors.New("previous trip reason is required")
	ErrQRCodeRequired   = errors.New("qr code is required")
	ErrInvalidReference = errors.New("referenced option not found or inactive")
	ErrInvalidSelection = errors.New("invalid selection type")

	ErrRoleNotFound      = errors.New("role not found")
	ErrRoleNameTaken     = errors.New("role name already exists")
	ErrRoleInUse         = errors.New("role is assigned to users")
	ErrRoleImmutable     = errors.New("system roles cannot be modified")
	ErrInvalidPermission = errors.New("unknown permission code")

	ErrBatchTooLarge   = errors.New("telemetry batch exceeds maximum size")
	ErrInvalidLocation = errors.New("latitude or longitude out of range")

	ErrFileTooLarge     = errors.New("file exceeds maximum allowed size")
	ErrUnsupportedImage = errors.New("unsupported image type")
)
