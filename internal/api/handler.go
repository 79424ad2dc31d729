package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"quote-service/internal/models"
	"quote-service/internal/service"
	"quote-service/internal/shared"
	"quote-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Quoter parses and answers availability quote requests
type Quoter interface {
	ParseQuotePayload(payload, location string) (*service.QuoteRequest, error)
	Quote(ctx context.Context, req *service.QuoteRequest) (*models.AvailabilityQuote, error)
}

// ProductLister lists the product catalog
type ProductLister interface {
	ListProducts(ctx context.Context) ([]models.ProductAvailability, error)
}

// CustomerManager reads and creates customers
type CustomerManager interface {
	ListCustomers(ctx context.Context) ([]models.CustomerSummary, error)
	GetCustomer(ctx context.Context, id int64) (*models.Customer, error)
	AddCustomer(ctx context.Context, fields map[string]interface{}) (*models.Customer, error)
}

// Pinger reports whether the default store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler contains HTTP handlers
type Handler struct {
	quoter    Quoter
	catalog   ProductLister
	customers CustomerManager
	db        Pinger
	env       string
	now       func() time.Time
	logger    *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(quoter Quoter, catalog ProductLister, customers CustomerManager, db Pinger, env string) *Handler {
	return &Handler{
		quoter:    quoter,
		catalog:   catalog,
		customers: customers,
		db:        db,
		env:       env,
		now:       time.Now,
		logger:    util.GetLogger(),
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	tools := router.Group("/tools")
	{
		tools.GET("", h.listTools)
		tools.POST("/health", h.healthTool)
		tools.POST("/quote_inventory_availability", h.quoteInventoryAvailability)
		tools.POST("/get_all_products", h.getAllProducts)
		tools.POST("/get_all_customers", h.getAllCustomers)
		tools.POST("/add_customer", h.addCustomer)
		tools.POST("/get_customer_by_id", h.getCustomerByID)
	}
}

// healthCheck handles liveness probes
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": util.ServiceName,
	})
}

// readinessCheck reports ready once the default store answers a ping
func (h *Handler) readinessCheck(c *gin.Context) {
	if err := h.db.Ping(c.Request.Context()); err != nil {
		h.logger.Warn("Readiness check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   h.now().Unix(),
	})
}

func (h *Handler) listTools(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tools": toolCatalog})
}

func (h *Handler) healthTool(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"service":       util.ServiceName,
		"timestamp_utc": h.now().UTC().Format(time.RFC3339),
		"env":           h.env,
	})
}

type quoteToolRequest struct {
	Payload json.RawMessage `json:"payload"`
	DBPath  string          `json:"db_path"`
}

// quoteInventoryAvailability accepts the payload as a JSON-encoded string or as an inline object
func (h *Handler) quoteInventoryAvailability(c *gin.Context) {
	var body quoteToolRequest
	if err := decodeBody(c, &body); err != nil {
		h.writeError(c, err)
		return
	}

	payload, err := payloadText(body.Payload)
	if err != nil {
		h.writeError(c, err)
		return
	}

	req, err := h.quoter.ParseQuotePayload(payload, body.DBPath)
	if err != nil {
		h.writeError(c, err)
		return
	}

	quote, err := h.quoter.Quote(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, quote)
}

func (h *Handler) getAllProducts(c *gin.Context) {
	products, err := h.catalog.ListProducts(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *Handler) getAllCustomers(c *gin.Context) {
	customers, err := h.customers.ListCustomers(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"customers": customers})
}

func (h *Handler) addCustomer(c *gin.Context) {
	var fields map[string]interface{}
	if err := decodeBody(c, &fields); err != nil {
		h.writeError(c, err)
		return
	}

	customer, err := h.customers.AddCustomer(c.Request.Context(), fields)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"customer": customer})
}

func (h *Handler) getCustomerByID(c *gin.Context) {
	var body map[string]interface{}
	if err := decodeBody(c, &body); err != nil {
		h.writeError(c, err)
		return
	}

	id, err := service.ParseCustomerID(body["customer_id"])
	if err != nil {
		h.writeError(c, err)
		return
	}

	customer, err := h.customers.GetCustomer(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"customer": customer})
}

// writeError maps the error kind to a status and writes {"error": message}
func (h *Handler) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, shared.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, shared.ErrNotFound):
		status = http.StatusNotFound
	default:
		h.logger.Error("Tool call failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}

	c.JSON(status, gin.H{"error": shared.Message(err)})
}

// decodeBody decodes a JSON request body into dst. An empty body leaves dst untouched.
func decodeBody(c *gin.Context, dst interface{}) error {
	dec := json.NewDecoder(c.Request.Body)
	dec.UseNumber()

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return shared.ValidationError("request body is not valid JSON: %v", err)
	}
	return nil
}

func payloadText(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", shared.ValidationError("Field payload must be present.")
	}

	if raw[0] != '"' {
		return string(raw), nil
	}

	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return "", shared.ValidationError("Field payload must be a string.")
	}
	return text, nil
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
