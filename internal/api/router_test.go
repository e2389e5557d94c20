package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/flexprice/invoicely/internal/api/cron"
	"github.com/flexprice/invoicely/internal/api/dto"
	v1 "github.com/flexprice/invoicely/internal/api/v1"
	"github.com/flexprice/invoicely/internal/config"
	"github.com/flexprice/invoicely/internal/logger"
	"github.com/flexprice/invoicely/internal/postgres"
	"github.com/flexprice/invoicely/internal/repository/memory"
	"github.com/flexprice/invoicely/internal/rest/middleware"
	"github.com/flexprice/invoicely/internal/service"
	"github.com/flexprice/invoicely/internal/testutil"
	"github.com/flexprice/invoicely/internal/validator"
	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type RouterSuite struct {
	suite.Suite
	router *gin.Engine
}

func TestRouter(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	validator.NewValidator()
}

func (s *RouterSuite) SetupTest() {
	cfg := config.GetDefaultConfig()
	cfg.Auth.Enabled = false
	log := logger.NewNopLogger()

	params := service.NewServiceParams(
		log,
		cfg,
		postgres.NoopTransactor{},
		testutil.NewFixedClockOn("2024-02-20"),
		memory.NewCustomerStore(),
		memory.NewInvoiceStore(),
		memory.NewSubscriptionStore(),
		testutil.NewInMemoryEventPublisher(),
	)
	invoiceService := service.NewInvoiceService(params)

	s.router = NewRouter(Handlers{
		Health:       v1.NewHealthHandler(cfg, log),
		Customer:     v1.NewCustomerHandler(service.NewCustomerService(params), log),
		Invoice:      v1.NewInvoiceHandler(invoiceService, log),
		Subscription: v1.NewSubscriptionHandler(service.NewSubscriptionService(params), log),
		Dashboard:    v1.NewDashboardHandler(service.NewDashboardService(params)),
		CronInvoice:  cron.NewInvoiceHandler(invoiceService, log),
	}, cfg, log)
}

func (s *RouterSuite) do(method, path string, body any, out any) int {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	if out != nil {
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
	}
	return w.Code
}

func (s *RouterSuite) createCustomer() string {
	var cust dto.CustomerResponse
	code := s.do(http.MethodPost, "/v1/customers", map[string]any{
		"name":    "Jane Doe",
		"email":   "jane@acme.test",
		"company": "Acme Corp",
	}, &cust)
	s.Require().Equal(http.StatusCreated, code)
	return cust.ID
}

func (s *RouterSuite) TestHealth() {
	var body map[string]string
	s.Equal(http.StatusOK, s.do(http.MethodGet, "/v1/health", nil, &body))
	s.Equal("ok", body["status"])
	s.Equal("memory", body["store"])
}

func (s *RouterSuite) TestMetrics() {
	s.do(http.MethodGet, "/v1/health", nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "invoicely_http_requests_total")
}

func (s *RouterSuite) TestInvoiceFlow() {
	customerID := s.createCustomer()

	var created dto.InvoiceResponse
	code := s.do(http.MethodPost, "/v1/invoices", map[string]any{
		"customer_id": customerID,
		"issue_date":  "2024-02-01",
		"line_items": []map[string]any{
			{"description": "Web Development Services", "quantity": "2", "rate": "3500"},
			{"description": "Hosting", "quantity": "1", "rate": "1400"},
		},
	}, &created)
	s.Require().Equal(http.StatusCreated, code)
	s.Equal("INV-202402-0001", created.InvoiceNumber)
	s.True(decimal.NewFromInt(9072).Equal(created.Total))
	s.Equal("2024-03-02", created.DueDate.String())

	var fetched dto.InvoiceResponse
	s.Equal(http.StatusOK, s.do(http.MethodGet, "/v1/invoices/"+created.ID, nil, &fetched))
	s.Equal("Jane Doe", fetched.CustomerName)

	var status dto.InvoiceResponse
	s.Equal(http.StatusOK, s.do(http.MethodPost, "/v1/invoices/"+created.ID+"/status",
		map[string]string{"status": "pending"}, &status))
	s.Equal("pending", string(status.Status))

	var errResp middleware.ErrorResponse
	s.Equal(http.StatusBadRequest, s.do(http.MethodDelete, "/v1/invoices/"+created.ID, nil, &errResp))
	s.Equal("invalid_operation", errResp.Error.Code)

	var list dto.ListInvoicesResponse
	s.Equal(http.StatusOK, s.do(http.MethodGet, "/v1/invoices?status=pending&search_query=acme&sort=amount&direction=desc", nil, &list))
	s.Len(list.Items, 1)
	s.Equal(1, list.Pagination.Total)

	s.Equal(http.StatusBadRequest, s.do(http.MethodGet, "/v1/invoices?sort=price", nil, &errResp))
	s.Equal("validation_error", errResp.Error.Code)

	var overdue dto.MarkOverdueResponse
	s.Equal(http.StatusOK, s.do(http.MethodPost, "/v1/cron/invoices/mark-overdue", nil, &overdue))
	s.Zero(overdue.Count)
}

func (s *RouterSuite) TestPreviewTotals() {
	var totals dto.InvoiceTotalsResponse
	code := s.do(http.MethodPost, "/v1/invoices/preview", map[string]any{
		"line_items": []map[string]any{
			{"quantity": "2", "rate": "3500"},
			{"quantity": "1", "rate": "1400"},
		},
		"tax_rate": "0.08",
	}, &totals)
	s.Equal(http.StatusOK, code)
	s.Equal("$9,072.00", totals.FormattedTotal)
	s.Equal("$672.00", totals.FormattedTaxAmount)
}

func (s *RouterSuite) TestNotFound() {
	var errResp middleware.ErrorResponse
	s.Equal(http.StatusNotFound, s.do(http.MethodGet, "/v1/customers/cust_missing", nil, &errResp))
	s.False(errResp.Success)
	s.Equal("not_found", errResp.Error.Code)
	s.NotEmpty(errResp.Error.Display)
}

func (s *RouterSuite) TestCustomerRoutes() {
	id := s.createCustomer()

	var withStats dto.CustomerWithStatsResponse
	s.Equal(http.StatusOK, s.do(http.MethodGet, "/v1/customers/"+id+"/stats", nil, &withStats))
	s.Zero(withStats.TotalInvoices)

	var list dto.ListCustomersWithStatsResponse
	s.Equal(http.StatusOK, s.do(http.MethodGet, "/v1/customers/stats?search_query=jane&limit=10", nil, &list))
	s.Len(list.Items, 1)
	s.Equal(10, list.Pagination.Limit)

	var updated dto.CustomerResponse
	s.Equal(http.StatusOK, s.do(http.MethodPut, "/v1/customers/"+id, map[string]string{"phone": "+1 555 0100"}, &updated))
	s.Equal("+1 555 0100", updated.Phone)

	s.Equal(http.StatusOK, s.do(http.MethodDelete, "/v1/customers/"+id, nil, nil))
	s.Equal(http.StatusNotFound, s.do(http.MethodGet, "/v1/customers/"+id, nil, nil))
}

func (s *RouterSuite) TestSubscriptionRoutes() {
	customerID := s.createCustomer()

	var sub dto.SubscriptionResponse
	s.Require().Equal(http.StatusCreated, s.do(http.MethodPost, "/v1/subscriptions", map[string]any{
		"customer_id": customerID,
		"plan_name":   "Pro",
		"amount":      "49",
		"frequency":   "monthly",
		"start_date":  "2024-01-31",
	}, &sub))
	s.Equal(28, sub.BillingDay)
	s.Equal("2024-02-28", sub.NextBillingDate.String())

	s.Equal(http.StatusOK, s.do(http.MethodPost, "/v1/subscriptions/"+sub.ID+"/pause", nil, &sub))
	s.Equal("paused", string(sub.Status))
	s.Equal(http.StatusBadRequest, s.do(http.MethodPost, "/v1/subscriptions/"+sub.ID+"/pause", nil, nil))
	var cancelled dto.SubscriptionResponse
	s.Equal(http.StatusOK, s.do(http.MethodPost, "/v1/subscriptions/"+sub.ID+"/cancel", nil, &cancelled))
	s.Equal("cancelled", string(cancelled.Status))
	s.Nil(cancelled.NextBillingDate)

	var list dto.ListSubscriptionsResponse
	s.Equal(http.StatusOK, s.do(http.MethodGet, "/v1/subscriptions?subscription_status=cancelled", nil, &list))
	s.Len(list.Items, 1)
}

func (s *RouterSuite) TestDashboardRoutes() {
	var summary dto.DashboardSummaryResponse
	s.Equal(http.StatusOK, s.do(http.MethodGet, "/v1/dashboard/summary", nil, &summary))
	s.True(summary.TotalRevenue.IsZero())

	var series dto.RevenueSeriesResponse
	s.Equal(http.StatusOK, s.do(http.MethodGet, "/v1/dashboard/revenue?year=2023", nil, &series))
	s.Equal(2023, series.Year)
	s.Len(series.Months, 12)

	s.Equal(http.StatusBadRequest, s.do(http.MethodGet, "/v1/dashboard/revenue?year=abc", nil, nil))
}
