package domain

import (
	"errors"
	"fmt"
)

// Error types for consistent error handling across the BFA.

// ErrExternalService indicates a failure in an external service call.
type ErrExternalService struct {
	Service string
	Err     error
}

func (e *ErrExternalService) Error() string {
	return fmt.Sprintf("external service error [%s]: %v", e.Service, e.Err)
}

func (e *ErrExternalService) Unwrap() error {
	return e.Err
}

// ErrCircuitOpen indicates the circuit breaker is open.
type ErrCircuitOpen struct {
	Service string
}

func (e *ErrCircuitOpen) Error() string {
	return fmt.Sprintf("circuit breaker open for service: %s", e.Service)
}

// ErrValidation indicates a validation error (bad input).
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error on '%s': %s", e.Field, e.Message)
}

// ErrUnauthorized indicates a missing, invalid or expired session token.
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "unauthorized"
}

// ErrCameraUnavailable indicates the device camera could not be acquired,
// either because permission was denied or no device is present.
type ErrCameraUnavailable struct {
	Reason string
}

func (e *ErrCameraUnavailable) Error() string {
	return fmt.Sprintf("camera unavailable: %s", e.Reason)
}

// ErrInvalidAction indicates an action that the current screen does not offer.
type ErrInvalidAction struct {
	View   View
	Action string
}

func (e *ErrInvalidAction) Error() string {
	return fmt.Sprintf("action %q not available on %s", e.Action, e.View)
}

// ErrDeviceBusy is returned when the camera is already held by another stream.
var ErrDeviceBusy = errors.New("camera already in use")

// ErrCameraIdle is returned when a frame arrives while no stream holds the camera.
var ErrCameraIdle = errors.New("camera is not streaming")
