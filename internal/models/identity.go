package models

import "strings"

// Provider sign-up statuses.
const (
	SignUpStatusComplete         = "complete"
	SignUpStatusMissingFields    = "missing_requirements"
	VerificationStrategyEmail    = "email_code"
	ProviderCodePasswordBreached = "form_password_pwned"
)

// CreateAccountParams is the payload for the provider's create-account operation.
type CreateAccountParams struct {
	Username       string         `json:"username"`
	EmailAddress   string         `json:"email_address"`
	Password       string         `json:"password"`
	UnsafeMetadata map[string]any `json:"unsafe_metadata,omitempty"`
}

// SignUpAttempt is the provider's view of a sign-up after create / attempt calls.
type SignUpAttempt struct {
	ID               string   `json:"id"`
	Status           string   `json:"status"`
	CreatedSessionID string   `json:"created_session_id"`
	CreatedUserID    string   `json:"created_user_id"`
	MissingFields    []string `json:"missing_fields"`
	UnverifiedFields []string `json:"unverified_fields"`
}

// Session is an activated provider session.
type Session struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Status string `json:"status"`
}

// ProviderError is one entry of the provider's error array.
type ProviderError struct {
	Code        string `json:"code"`
	Message     string `json:"message"`
	LongMessage string `json:"long_message"`
}

// ProviderErrors is the error array returned by the identity provider.
type ProviderErrors struct {
	StatusCode int             `json:"-"`
	Errors     []ProviderError `json:"errors"`
}

func (e *ProviderErrors) Error() string {
	if e == nil || len(e.Errors) == 0 {
		return "identity provider error"
	}
	parts := make([]string, 0, len(e.Errors))
	for _, pe := range e.Errors {
		msg := pe.Message
		if msg == "" {
			msg = pe.LongMessage
		}
		parts = append(parts, pe.Code+": "+msg)
	}
	return "identity provider: " + strings.Join(parts, "; ")
}

// Has reports whether any entry carries the given code.
func (e *ProviderErrors) Has(code string) bool {
	for _, pe := range e.Errors {
		if pe.Code == code {
			return true
		}
	}
	return false
}

// Permanent reports whether retrying the same request cannot succeed.
func (e *ProviderErrors) Permanent() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500 && e.StatusCode != 429
}
