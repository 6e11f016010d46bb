package services

import (
	"errors"
	"strings"
)

var (
	ErrFlowNotFound           = errors.New("sign-up flow not found")
	ErrInvalidFlowToken       = errors.New("invalid flow token")
	ErrAlreadyRegistered      = errors.New("flow already registered")
	ErrNotVerifying           = errors.New("flow is not awaiting verification")
	ErrFlowCompleted          = errors.New("flow already completed")
	ErrSubmissionInFlight     = errors.New("submission already in flight")
	ErrProviderUnavailable    = errors.New("identity provider unavailable")
	ErrVerificationFailed     = errors.New("verification failed")
	ErrVerificationIncomplete = errors.New("verification incomplete")
	ErrMetadataPending        = errors.New("profile metadata update pending")
	ErrAccountPersist         = errors.New("account could not be saved")
	ErrGenerationFailed       = errors.New("generation failed")
)

// ValidationError carries field-level messages; no remote call was made.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	return "validation failed: " + strings.Join(keys, ", ")
}

// IncompleteVerificationError means the provider accepted the code but needs another step.
type IncompleteVerificationError struct {
	Status           string
	MissingFields    []string
	UnverifiedFields []string
}

func (e *IncompleteVerificationError) Error() string {
	return "verification incomplete: status=" + e.Status
}

func (e *IncompleteVerificationError) Is(target error) bool {
	return target == ErrVerificationIncomplete
}
