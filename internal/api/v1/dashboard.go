package v1

import (
	"net/http"

	"github.com/flexprice/invoicely/internal/api/dto"
	ierr "github.com/flexprice/invoicely/internal/errors"
	"github.com/flexprice/invoicely/internal/service"
	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(service service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// @Summary Dashboard summary
// @Description Revenue, outstanding balance, subscription and customer counts
// @Tags Dashboard
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.DashboardSummaryResponse
// @Router /dashboard/summary [get]
func (h *DashboardHandler) GetSummary(c *gin.Context) {
	resp, err := h.service.GetSummary(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Monthly revenue
// @Description Paid revenue per issue month of a calendar year
// @Tags Dashboard
// @Produce json
// @Security ApiKeyAuth
// @Param year query int false "Calendar year, defaults to the current year"
// @Success 200 {object} dto.RevenueSeriesResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /dashboard/revenue [get]
func (h *DashboardHandler) GetRevenueSeries(c *gin.Context) {
	var req dto.RevenueSeriesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Year must be a number").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.GetRevenueSeries(c.Request.Context(), req.Year)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
