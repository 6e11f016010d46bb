package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cipherhaven/internal/models"
	"cipherhaven/internal/pdf"
)

type ReportHandler struct {
	generator pdf.Generator
	logger    *zap.Logger
}

func NewReportHandler(generator pdf.Generator, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{generator: generator, logger: logger}
}

// @Summary      Export an incident report as PDF
// @Tags         Reports
// @Accept       json
// @Produce      application/pdf
// @Param        request  body  models.ReportExportRequest  true  "Report and generated text"
// @Success      200
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/incident-report/pdf [post]
func (h *ReportHandler) ExportPDF(c *gin.Context) {
	var req models.ReportExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	out, err := h.generator.GenerateIncidentReport(req)
	if err != nil {
		h.logger.Error("[report][pdf] render failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not render report"})
		return
	}
	name := fmt.Sprintf("incident-report-%s.pdf", time.Now().UTC().Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, "application/pdf", out)
}
