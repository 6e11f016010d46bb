package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cipherhaven/internal/models"
	"cipherhaven/internal/services"
)

// FlowTokenHeader carries the token returned when a flow is started.
const FlowTokenHeader = "X-Flow-Token"

const nextStepAdditionalVerification = "additional_verification_required"

type SignUpHandler struct {
	service services.SignUpService
	logger  *zap.Logger
}

func NewSignUpHandler(service services.SignUpService, logger *zap.Logger) *SignUpHandler {
	return &SignUpHandler{service: service, logger: logger}
}

// @Summary      Start a sign-up flow
// @Description  Mounts a new flow in the collecting state. The returned token must be sent in X-Flow-Token.
// @Tags         SignUp
// @Produce      json
// @Success      201  {object}  map[string]interface{}
// @Failure      500  {object}  map[string]string
// @Router       /signup/flows [post]
func (h *SignUpHandler) StartFlow(c *gin.Context) {
	flow, token, err := h.service.StartFlow(c.Request.Context())
	if err != nil {
		h.logger.Error("[signup][start] failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not start sign-up"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"flow_id":    flow.ID,
		"flow_token": token,
		"state":      flow.State,
	})
}

// @Summary      Get a sign-up flow
// @Tags         SignUp
// @Produce      json
// @Param        id            path    string  true  "Flow ID"
// @Param        X-Flow-Token  header  string  true  "Flow token"
// @Success      200  {object}  models.FlowView
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /signup/flows/{id} [get]
func (h *SignUpHandler) GetFlow(c *gin.Context) {
	flow, err := h.service.GetFlow(c.Request.Context(), c.Param("id"), c.GetHeader(FlowTokenHeader))
	if err != nil {
		h.writeError(c, err, services.MsgSignUpFallback)
		return
	}
	c.JSON(http.StatusOK, flow.View())
}

// @Summary      Submit the registration form
// @Tags         SignUp
// @Accept       json
// @Produce      json
// @Param        id            path    string                    true  "Flow ID"
// @Param        X-Flow-Token  header  string                    true  "Flow token"
// @Param        draft         body    models.RegistrationDraft  true  "Registration form"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]interface{}
// @Failure      422  {object}  map[string]interface{}
// @Failure      502  {object}  map[string]interface{}
// @Router       /signup/flows/{id}/register [post]
func (h *SignUpHandler) Register(c *gin.Context) {
	var draft models.RegistrationDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	flow, err := h.service.Register(c.Request.Context(), c.Param("id"), c.GetHeader(FlowTokenHeader), draft)
	if err != nil {
		h.writeError(c, err, services.MsgSignUpFallback)
		return
	}
	c.JSON(http.StatusOK, gin.H{"flow": flow.View()})
}

// @Summary      Submit the email verification code
// @Tags         SignUp
// @Accept       json
// @Produce      json
// @Param        id            path    string                      true  "Flow ID"
// @Param        X-Flow-Token  header  string                      true  "Flow token"
// @Param        attempt       body    models.VerificationAttempt  true  "Verification code"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]interface{}
// @Failure      422  {object}  map[string]interface{}
// @Failure      502  {object}  map[string]interface{}
// @Router       /signup/flows/{id}/verify [post]
func (h *SignUpHandler) Verify(c *gin.Context) {
	var attempt models.VerificationAttempt
	if err := c.ShouldBindJSON(&attempt); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := h.service.Verify(c.Request.Context(), c.Param("id"), c.GetHeader(FlowTokenHeader), attempt)
	if err != nil {
		h.writeError(c, err, services.MsgVerificationFailed)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"flow":             res.Flow.View(),
		"status":           res.Status,
		"access_token":     res.AccessToken,
		"redirect":         res.Redirect,
		"metadata_pending": res.MetadataPending,
		"notifications": []models.Notification{
			{Level: models.NotifySuccess, Message: services.MsgSignUpSuccess},
		},
	})
}

// @Summary      Retry the pending profile metadata update
// @Tags         SignUp
// @Produce      json
// @Param        id            path    string  true  "Flow ID"
// @Param        X-Flow-Token  header  string  true  "Flow token"
// @Success      200  {object}  models.FlowView
// @Failure      502  {object}  map[string]interface{}
// @Router       /signup/flows/{id}/reconcile [post]
func (h *SignUpHandler) Reconcile(c *gin.Context) {
	flow, err := h.service.RetryMetadata(c.Request.Context(), c.Param("id"), c.GetHeader(FlowTokenHeader))
	if err != nil {
		h.writeError(c, err, services.MsgSignUpFallback)
		return
	}
	c.JSON(http.StatusOK, flow.View())
}

func (h *SignUpHandler) writeError(c *gin.Context, err error, fallback string) {
	var (
		verr *services.ValidationError
		inc  *services.IncompleteVerificationError
		perr *models.ProviderErrors
	)
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": verr.Fields})
	case errors.As(err, &inc):
		c.JSON(http.StatusConflict, gin.H{
			"error":             services.MsgAdditionalVerification,
			"next_step":         nextStepAdditionalVerification,
			"status":            inc.Status,
			"missing_fields":    inc.MissingFields,
			"unverified_fields": inc.UnverifiedFields,
			"notifications":     errorNotice(services.MsgAdditionalVerification),
		})
	case errors.As(err, &perr):
		notes := services.ProviderNotifications(perr, fallback)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": notes[0].Message, "notifications": notes})
	case errors.Is(err, services.ErrFlowNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "sign-up flow not found"})
	case errors.Is(err, services.ErrInvalidFlowToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid flow token"})
	case errors.Is(err, services.ErrSubmissionInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": "a submission for this flow is already in progress"})
	case errors.Is(err, services.ErrAlreadyRegistered):
		c.JSON(http.StatusConflict, gin.H{"error": "registration already submitted", "next_step": "verify"})
	case errors.Is(err, services.ErrNotVerifying):
		c.JSON(http.StatusConflict, gin.H{"error": "flow is not awaiting verification"})
	case errors.Is(err, services.ErrFlowCompleted):
		c.JSON(http.StatusConflict, gin.H{"error": "sign-up already completed"})
	case errors.Is(err, services.ErrMetadataPending):
		c.JSON(http.StatusBadGateway, gin.H{"error": "profile update is still pending", "metadata_pending": true})
	case errors.Is(err, services.ErrProviderUnavailable), errors.Is(err, services.ErrVerificationFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": fallback, "notifications": errorNotice(fallback)})
	default:
		h.logger.Error("[signup] unexpected error", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback, "notifications": errorNotice(fallback)})
	}
}

func errorNotice(msg string) []models.Notification {
	return []models.Notification{{Level: models.NotifyError, Message: msg}}
}
