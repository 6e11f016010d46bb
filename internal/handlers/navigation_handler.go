package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cipherhaven/internal/services"
)

type NavigationHandler struct {
	service services.NavigationService
}

func NewNavigationHandler(service services.NavigationService) *NavigationHandler {
	return &NavigationHandler{service: service}
}

// @Summary      Header links for the current page
// @Description  Role-dependent links; the role is read from the session token when present.
// @Tags         Navigation
// @Produce      json
// @Param        path  query  string  false  "Current page path"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/navigation [get]
func (h *NavigationHandler) Links(c *gin.Context) {
	_, roleID := getAccountAndRole(c)
	c.JSON(http.StatusOK, gin.H{"links": h.service.Links(c.Query("path"), roleID)})
}
