package cron

import (
	"net/http"
	"time"

	"github.com/flexprice/invoicely/internal/logger"
	"github.com/flexprice/invoicely/internal/service"
	"github.com/gin-gonic/gin"
)

// InvoiceHandler handles invoice related cron jobs
type InvoiceHandler struct {
	invoiceService service.InvoiceService
	logger         *logger.Logger
}

func NewInvoiceHandler(invoiceService service.InvoiceService, logger *logger.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		logger:         logger,
	}
}

// MarkOverdueInvoices moves the caller tenant's pending invoices whose due
// date has passed to overdue. It is safe to run repeatedly.
func (h *InvoiceHandler) MarkOverdueInvoices(c *gin.Context) {
	start := time.Now()
	h.logger.Infow("starting mark overdue invoices cron job", "time", start.UTC().Format(time.RFC3339))

	resp, err := h.invoiceService.MarkOverdueInvoices(c.Request.Context())
	if err != nil {
		h.logger.Errorw("mark overdue invoices cron job failed", "error", err)
		c.Error(err)
		return
	}

	h.logger.Infow("completed mark overdue invoices cron job",
		"count", resp.Count,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	c.JSON(http.StatusOK, resp)
}
