package models

import "time"

// FlowState drives which form the client renders.
type FlowState string

const (
	FlowCollecting FlowState = "collecting"
	FlowVerifying  FlowState = "verifying"
	// FlowCompleted is recorded after the provider reported "complete"; replays are rejected.
	FlowCompleted FlowState = "completed"
)

// RegistrationDraft holds the fields of the sign-up form.
type RegistrationDraft struct {
	Username    string `json:"username" validate:"min=3"`
	Email       string `json:"email_address" validate:"email"`
	Password    string `json:"password" validate:"min=6"`
	FullName    string `json:"name" validate:"min=2"`
	PhoneNumber string `json:"phone_number" validate:"phone_digits"`
}

// VerificationAttempt is the code typed into the verification form.
type VerificationAttempt struct {
	Code string `json:"code" validate:"required"`
}

// SignUpFlow is the server-side record of one sign-up in progress.
// The password is never stored here.
type SignUpFlow struct {
	ID        string    `json:"id"`
	State     FlowState `json:"state"`
	TokenHash string    `json:"token_hash"`

	Username    string `json:"username,omitempty"`
	Email       string `json:"email,omitempty"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`

	SignUpID  string `json:"sign_up_id,omitempty"`
	SessionID string `json:"session_id,omitempty"`
	UserID    string `json:"user_id,omitempty"`
	AccountID int64  `json:"account_id,omitempty"`

	// PendingMetadataUpdate may only be true once SessionID is set.
	PendingMetadataUpdate bool `json:"pending_metadata_update"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SessionActive reports whether the provider session for this flow was activated.
func (f *SignUpFlow) SessionActive() bool {
	return f.SessionID != "" && f.UserID != ""
}

// FlowView is what the client sees of a flow.
type FlowView struct {
	FlowID                string    `json:"flow_id"`
	State                 FlowState `json:"state"`
	PendingMetadataUpdate bool      `json:"pending_metadata_update"`
}

func (f *SignUpFlow) View() FlowView {
	return FlowView{FlowID: f.ID, State: f.State, PendingMetadataUpdate: f.PendingMetadataUpdate}
}

// Notification mirrors a toast shown by the UI.
type Notification struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

const (
	NotifySuccess = "success"
	NotifyError   = "error"
)

// VerifyResult is returned by a verification attempt that did not fail.
type VerifyResult struct {
	Flow            *SignUpFlow
	Status          string
	AccessToken     string
	Redirect        string
	MetadataPending bool
}
