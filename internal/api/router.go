package api

import (
	"github.com/flexprice/invoicely/internal/api/cron"
	v1 "github.com/flexprice/invoicely/internal/api/v1"
	"github.com/flexprice/invoicely/internal/config"
	"github.com/flexprice/invoicely/internal/logger"
	"github.com/flexprice/invoicely/internal/rest/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Health       *v1.HealthHandler
	Customer     *v1.CustomerHandler
	Invoice      *v1.InvoiceHandler
	Subscription *v1.SubscriptionHandler
	Dashboard    *v1.DashboardHandler
	CronInvoice  *cron.InvoiceHandler
}

func NewRouter(handlers Handlers, cfg *config.Configuration, logger *logger.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware,
		middleware.CORSMiddleware,
		middleware.SentryMiddleware(cfg),
		middleware.MetricsMiddleware,
		middleware.ErrorHandler(),
	)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	public := router.Group("/v1")
	public.GET("/health", handlers.Health.Health)

	private := router.Group("/v1")
	private.Use(middleware.AuthenticateMiddleware(cfg, logger))
	registerV1Routes(private, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	invoices := router.Group("/invoices")
	{
		invoices.POST("", handlers.Invoice.CreateInvoice)
		invoices.GET("", handlers.Invoice.ListInvoices)
		invoices.POST("/preview", handlers.Invoice.PreviewTotals)
		invoices.GET("/:id", handlers.Invoice.GetInvoice)
		invoices.PUT("/:id", handlers.Invoice.UpdateInvoice)
		invoices.DELETE("/:id", handlers.Invoice.DeleteInvoice)
		invoices.POST("/:id/status", handlers.Invoice.UpdateInvoiceStatus)
	}

	customers := router.Group("/customers")
	{
		customers.POST("", handlers.Customer.CreateCustomer)
		customers.GET("", handlers.Customer.GetCustomers)
		customers.GET("/stats", handlers.Customer.GetCustomersWithStats)
		customers.GET("/:id", handlers.Customer.GetCustomer)
		customers.GET("/:id/stats", handlers.Customer.GetCustomerWithStats)
		customers.PUT("/:id", handlers.Customer.UpdateCustomer)
		customers.DELETE("/:id", handlers.Customer.DeleteCustomer)
	}

	subscriptions := router.Group("/subscriptions")
	{
		subscriptions.POST("", handlers.Subscription.CreateSubscription)
		subscriptions.GET("", handlers.Subscription.GetSubscriptions)
		subscriptions.GET("/:id", handlers.Subscription.GetSubscription)
		subscriptions.PUT("/:id", handlers.Subscription.UpdateSubscription)
		subscriptions.POST("/:id/pause", handlers.Subscription.PauseSubscription)
		subscriptions.POST("/:id/resume", handlers.Subscription.ResumeSubscription)
		subscriptions.POST("/:id/cancel", handlers.Subscription.CancelSubscription)
	}

	dashboard := router.Group("/dashboard")
	{
		dashboard.GET("/summary", handlers.Dashboard.GetSummary)
		dashboard.GET("/revenue", handlers.Dashboard.GetRevenueSeries)
	}

	cronGroup := router.Group("/cron")
	{
		cronGroup.POST("/invoices/mark-overdue", handlers.CronInvoice.MarkOverdueInvoices)
	}
}
