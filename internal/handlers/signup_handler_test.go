package handlers

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cipherhaven/internal/models"
	"cipherhaven/internal/services"
)

type stubSignUp struct {
	registerErr error
	verifyRes   *models.VerifyResult
	verifyErr   error
	retryErr    error

	gotToken string
	gotDraft models.RegistrationDraft
}

func (s *stubSignUp) StartFlow(context.Context) (*models.SignUpFlow, string, error) {
	return &models.SignUpFlow{ID: "flow-1", State: models.FlowCollecting}, "tok", nil
}

func (s *stubSignUp) GetFlow(_ context.Context, id, token string) (*models.SignUpFlow, error) {
	s.gotToken = token
	if token != "tok" {
		return nil, services.ErrInvalidFlowToken
	}
	return &models.SignUpFlow{ID: id, State: models.FlowVerifying}, nil
}

func (s *stubSignUp) Register(_ context.Context, id, token string, draft models.RegistrationDraft) (*models.SignUpFlow, error) {
	s.gotToken = token
	s.gotDraft = draft
	if s.registerErr != nil {
		return nil, s.registerErr
	}
	return &models.SignUpFlow{ID: id, State: models.FlowVerifying}, nil
}

func (s *stubSignUp) Verify(_ context.Context, id, token string, _ models.VerificationAttempt) (*models.VerifyResult, error) {
	s.gotToken = token
	return s.verifyRes, s.verifyErr
}

func (s *stubSignUp) RetryMetadata(_ context.Context, id, token string) (*models.SignUpFlow, error) {
	if s.retryErr != nil {
		return nil, s.retryErr
	}
	return &models.SignUpFlow{ID: id, State: models.FlowCompleted}, nil
}

func signUpRouter(svc services.SignUpService) *gin.Engine {
	h := NewSignUpHandler(svc, zap.NewNop())
	r := gin.New()
	r.POST("/signup/flows", h.StartFlow)
	r.GET("/signup/flows/:id", h.GetFlow)
	r.POST("/signup/flows/:id/register", h.Register)
	r.POST("/signup/flows/:id/verify", h.Verify)
	r.POST("/signup/flows/:id/reconcile", h.Reconcile)
	return r
}

var flowHeaders = map[string]string{FlowTokenHeader: "tok"}

func TestSignUpHandler_StartAndGet(t *testing.T) {
	r := signUpRouter(&stubSignUp{})

	w := doJSON(t, r, http.MethodPost, "/signup/flows", nil, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.Equal(t, "flow-1", body["flow_id"])
	assert.Equal(t, "tok", body["flow_token"])
	assert.Equal(t, "collecting", body["state"])

	w = doJSON(t, r, http.MethodGet, "/signup/flows/flow-1", nil, flowHeaders)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "verifying", decode(t, w)["state"])

	w = doJSON(t, r, http.MethodGet, "/signup/flows/flow-1", nil, map[string]string{FlowTokenHeader: "bad"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSignUpHandler_Register(t *testing.T) {
	svc := &stubSignUp{}
	r := signUpRouter(svc)

	w := doJSON(t, r, http.MethodPost, "/signup/flows/flow-1/register", map[string]string{
		"username":      "alice",
		"email_address": "alice@example.com",
		"password":      "s3cret!",
		"name":          "Alice Smith",
		"phone_number":  "5550109999",
	}, flowHeaders)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "tok", svc.gotToken)
	assert.Equal(t, "Alice Smith", svc.gotDraft.FullName)
	flow := decode(t, w)["flow"].(map[string]any)
	assert.Equal(t, "verifying", flow["state"])
}

func TestSignUpHandler_RegisterErrors(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		code     int
		errorMsg string
	}{
		{"validation", &services.ValidationError{Fields: map[string]string{"username": "Username must be at least 3 characters"}}, http.StatusBadRequest, "validation failed"},
		{"breached password", &models.ProviderErrors{StatusCode: 422, Errors: []models.ProviderError{{Code: models.ProviderCodePasswordBreached, Message: "pwned"}}}, http.StatusUnprocessableEntity, services.MsgPasswordBreached},
		{"provider without message", &models.ProviderErrors{StatusCode: 422, Errors: []models.ProviderError{{Code: "x"}}}, http.StatusUnprocessableEntity, services.MsgSignUpFallback},
		{"in flight", services.ErrSubmissionInFlight, http.StatusConflict, "a submission for this flow is already in progress"},
		{"already registered", services.ErrAlreadyRegistered, http.StatusConflict, "registration already submitted"},
		{"provider down", fmt.Errorf("%w: dial tcp", services.ErrProviderUnavailable), http.StatusBadGateway, services.MsgSignUpFallback},
		{"not found", services.ErrFlowNotFound, http.StatusNotFound, "sign-up flow not found"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := signUpRouter(&stubSignUp{registerErr: tc.err})

			w := doJSON(t, r, http.MethodPost, "/signup/flows/flow-1/register", map[string]string{"username": "alice"}, flowHeaders)

			assert.Equal(t, tc.code, w.Code)
			assert.Equal(t, tc.errorMsg, decode(t, w)["error"])
		})
	}
}

func TestSignUpHandler_VerifySuccess(t *testing.T) {
	svc := &stubSignUp{verifyRes: &models.VerifyResult{
		Flow:        &models.SignUpFlow{ID: "flow-1", State: models.FlowCompleted},
		Status:      models.SignUpStatusComplete,
		AccessToken: "jwt",
		Redirect:    "/",
	}}
	r := signUpRouter(svc)

	w := doJSON(t, r, http.MethodPost, "/signup/flows/flow-1/verify", map[string]string{"code": "424242"}, flowHeaders)

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "/", body["redirect"])
	assert.Equal(t, "jwt", body["access_token"])
	assert.Equal(t, false, body["metadata_pending"])
	notes := body["notifications"].([]any)
	require.Len(t, notes, 1)
	assert.Equal(t, services.MsgSignUpSuccess, notes[0].(map[string]any)["message"])
}

func TestSignUpHandler_VerifyIncomplete(t *testing.T) {
	svc := &stubSignUp{verifyErr: &services.IncompleteVerificationError{
		Status:        models.SignUpStatusMissingFields,
		MissingFields: []string{"phone_number"},
	}}
	r := signUpRouter(svc)

	w := doJSON(t, r, http.MethodPost, "/signup/flows/flow-1/verify", map[string]string{"code": "1"}, flowHeaders)

	require.Equal(t, http.StatusConflict, w.Code)
	body := decode(t, w)
	assert.Equal(t, "additional_verification_required", body["next_step"])
	assert.Equal(t, "missing_requirements", body["status"])
	assert.Equal(t, []any{"phone_number"}, body["missing_fields"])
	assert.Equal(t, services.MsgAdditionalVerification, body["error"])
}

func TestSignUpHandler_VerifyUnexpectedFailure(t *testing.T) {
	r := signUpRouter(&stubSignUp{verifyErr: fmt.Errorf("%w: timeout", services.ErrVerificationFailed)})

	w := doJSON(t, r, http.MethodPost, "/signup/flows/flow-1/verify", map[string]string{"code": "1"}, flowHeaders)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, services.MsgVerificationFailed, decode(t, w)["error"])
}

func TestSignUpHandler_ReconcilePending(t *testing.T) {
	r := signUpRouter(&stubSignUp{retryErr: fmt.Errorf("%w: 503", services.ErrMetadataPending)})

	w := doJSON(t, r, http.MethodPost, "/signup/flows/flow-1/reconcile", nil, flowHeaders)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, true, decode(t, w)["metadata_pending"])
}
