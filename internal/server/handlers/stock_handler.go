package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/riceledger/internal/domain/models"
	"github.com/mamadbah2/riceledger/internal/service/stock"
)

// StockHandler exposes stock registration and manual updates.
type StockHandler struct {
	ledger *stock.Ledger
	logger *zap.Logger
}

// NewStockHandler constructs the HTTP handler adapter.
func NewStockHandler(ledger *stock.Ledger, logger *zap.Logger) *StockHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockHandler{ledger: ledger, logger: logger}
}

type createStockRequest struct {
	ClientID          string  `json:"clientId"`
	ItemType          string  `json:"itemType"`
	AvailableQuantity float64 `json:"availableQuantity"`
	Unit              string  `json:"unit"`
}

type updateStockRequest struct {
	ClientID  string   `json:"clientId"`
	Operation string   `json:"operation"`
	Quantity  *float64 `json:"quantity"`
}

// Create registers a stock item.
func (h *StockHandler) Create(c *gin.Context) {
	var req createStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid stock payload", zap.Error(err))
		badRequest(c, "invalid request body")
		return
	}

	item, err := h.ledger.Register(c.Request.Context(), req.ClientID, req.ItemType, req.AvailableQuantity, req.Unit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// List returns every stock item of the client.
func (h *StockHandler) List(c *gin.Context) {
	items, err := h.ledger.List(c.Request.Context(), c.Query("clientId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if items == nil {
		items = []models.StockItem{}
	}
	c.JSON(http.StatusOK, items)
}

// Update applies an add, subtract or set operation.
func (h *StockHandler) Update(c *gin.Context) {
	var req updateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid stock update payload", zap.Error(err))
		badRequest(c, "invalid request body")
		return
	}
	if req.Quantity == nil {
		respondError(c, h.logger, models.Invalid("quantity", "is required"))
		return
	}
	op, err := models.ParseStockOperation(req.Operation)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	item, err := h.ledger.Update(c.Request.Context(), req.ClientID, c.Param("id"), op, *req.Quantity)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Delete removes a stock item.
func (h *StockHandler) Delete(c *gin.Context) {
	if err := h.ledger.Remove(c.Request.Context(), c.Query("clientId"), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
