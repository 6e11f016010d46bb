package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cipherhaven/internal/services"
)

type DashboardHandler struct {
	accounts services.AccountService
	logger   *zap.Logger
}

func NewDashboardHandler(accounts services.AccountService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{accounts: accounts, logger: logger}
}

// @Summary      List registered accounts
// @Tags         Dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        limit   query  int  false  "Page size"
// @Param        offset  query  int  false  "Offset"
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /api/dashboard/accounts [get]
func (h *DashboardHandler) ListAccounts(c *gin.Context) {
	limit := queryInt(c, "limit", 50)
	offset := queryInt(c, "offset", 0)
	accounts, err := h.accounts.ListAccounts(c.Request.Context(), limit, offset)
	if err != nil {
		h.logger.Error("[dashboard][accounts] list failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list accounts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"accounts": accounts, "limit": limit, "offset": offset})
}
