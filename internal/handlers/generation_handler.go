package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cipherhaven/internal/models"
	"cipherhaven/internal/services"
)

type GenerationHandler struct {
	service services.GenerationService
	logger  *zap.Logger
}

func NewGenerationHandler(service services.GenerationService, logger *zap.Logger) *GenerationHandler {
	return &GenerationHandler{service: service, logger: logger}
}

// @Summary      Expand an incident report into text
// @Description  Runs both text models concurrently; both answers must be present.
// @Tags         Generation
// @Accept       json
// @Produce      json
// @Param        report  body      models.IncidentReport  true  "Incident report"
// @Success      200     {object}  models.TextGenerationResult
// @Failure      400     {object}  map[string]interface{}
// @Failure      502     {object}  map[string]string
// @Router       /api/generate-text [post]
func (h *GenerationHandler) GenerateText(c *gin.Context) {
	var report models.IncidentReport
	if err := c.ShouldBindJSON(&report); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := h.service.GenerateText(c.Request.Context(), report)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary      Generate images for the chosen text
// @Tags         Generation
// @Accept       json
// @Produce      json
// @Param        request  body      models.ImageGenerationRequest  true  "Image prompt"
// @Success      200      {object}  models.ImageGenerationResult
// @Failure      400      {object}  map[string]string
// @Failure      502      {object}  map[string]string
// @Router       /api/generate-image [post]
func (h *GenerationHandler) GenerateImage(c *gin.Context) {
	var req models.ImageGenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := h.service.GenerateImages(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary      Break a text into short statements
// @Tags         Generation
// @Accept       json
// @Produce      json
// @Param        request  body      models.TextRequest  true  "Text"
// @Success      200      {object}  models.TextResult
// @Router       /api/decompose-text [post]
func (h *GenerationHandler) Decompose(c *gin.Context) {
	var req models.TextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	text, err := h.service.Decompose(c.Request.Context(), req.Text)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.TextResult{Text: text})
}

// @Summary      Write a short poem of encouragement
// @Tags         Generation
// @Accept       json
// @Produce      json
// @Param        request  body      models.TextRequest  true  "Text"
// @Success      200      {object}  models.TextResult
// @Router       /api/inspiration-poem [post]
func (h *GenerationHandler) InspirationPoem(c *gin.Context) {
	var req models.TextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	text, err := h.service.InspirationPoem(c.Request.Context(), req.Text)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.TextResult{Text: text})
}

func (h *GenerationHandler) writeError(c *gin.Context, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": verr.Fields})
	case errors.Is(err, services.ErrGenerationFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": "generation failed, please try again"})
	default:
		h.logger.Error("[generate] unexpected error", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
