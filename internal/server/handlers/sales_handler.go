package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/riceledger/internal/domain/models"
	"github.com/mamadbah2/riceledger/internal/service/sales"
)

// SalesHandler exposes sale creation, edits and deletion.
type SalesHandler struct {
	processor *sales.Processor
	loc       *time.Location
	logger    *zap.Logger
}

// NewSalesHandler constructs the HTTP handler adapter. Query dates are read in loc.
func NewSalesHandler(processor *sales.Processor, loc *time.Location, logger *zap.Logger) *SalesHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &SalesHandler{processor: processor, loc: loc, logger: logger}
}

type createSaleRequest struct {
	ClientID string `json:"clientId"`
	models.Customer
	Items         []models.LineItemInput `json:"items"`
	PaymentStatus string                 `json:"paymentStatus"`
	PaymentMethod string                 `json:"paymentMethod"`
}

type updateSaleRequest struct {
	ClientID string `json:"clientId"`
	models.SalePatch
}

// Create records a sale and debits its items from stock.
func (h *SalesHandler) Create(c *gin.Context) {
	var req createSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid sale payload", zap.Error(err))
		badRequest(c, "invalid request body")
		return
	}

	sale, err := h.processor.CreateSale(c.Request.Context(), req.ClientID, sales.CreateSaleInput{
		Customer:      req.Customer,
		Items:         req.Items,
		PaymentStatus: req.PaymentStatus,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, sale)
}

// List returns the client's sales, newest first.
func (h *SalesHandler) List(c *gin.Context) {
	window, err := queryWindow(c, h.loc)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	list, err := h.processor.ListSales(c.Request.Context(), c.Query("clientId"), window)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if list == nil {
		list = []models.Sale{}
	}
	c.JSON(http.StatusOK, list)
}

// Get returns one sale.
func (h *SalesHandler) Get(c *gin.Context) {
	sale, err := h.processor.GetSale(c.Request.Context(), c.Query("clientId"), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, sale)
}

// Update patches a sale, re-reserving stock when the items change.
func (h *SalesHandler) Update(c *gin.Context) {
	var req updateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid sale update payload", zap.Error(err))
		badRequest(c, "invalid request body")
		return
	}

	sale, err := h.processor.UpdateSale(c.Request.Context(), req.ClientID, c.Param("id"), req.SalePatch)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, sale)
}

// Delete removes a sale and returns its items to stock.
func (h *SalesHandler) Delete(c *gin.Context) {
	if err := h.processor.DeleteSale(c.Request.Context(), c.Query("clientId"), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
