package v1

import (
	"net/http"

	"github.com/flexprice/invoicely/internal/config"
	"github.com/flexprice/invoicely/internal/logger"
	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	config *config.Configuration
	logger *logger.Logger
}

func NewHealthHandler(config *config.Configuration, logger *logger.Logger) *HealthHandler {
	return &HealthHandler{
		config: config,
		logger: logger,
	}
}

// @Summary Health check
// @Description Reports that the API is serving and which store backs it
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"mode":   string(h.config.Deployment.Mode),
		"store":  string(h.config.Store.Driver),
	})
}
