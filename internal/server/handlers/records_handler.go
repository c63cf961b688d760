package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/riceledger/internal/domain/models"
	"github.com/mamadbah2/riceledger/internal/service/records"
)

// RecordsHandler serves the read-only order, wage, expense and employee lists.
type RecordsHandler struct {
	svc    *records.Service
	loc    *time.Location
	logger *zap.Logger
}

// NewRecordsHandler constructs the HTTP handler adapter.
func NewRecordsHandler(svc *records.Service, loc *time.Location, logger *zap.Logger) *RecordsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &RecordsHandler{svc: svc, loc: loc, logger: logger}
}

// Orders lists orders created inside the requested window.
func (h *RecordsHandler) Orders(c *gin.Context) {
	listWindowed(c, h, h.svc.ListOrders)
}

// Wages lists wages dated inside the requested window.
func (h *RecordsHandler) Wages(c *gin.Context) {
	listWindowed(c, h, h.svc.ListWages)
}

// Expenses lists expenses dated inside the requested window.
func (h *RecordsHandler) Expenses(c *gin.Context) {
	listWindowed(c, h, h.svc.ListExpenses)
}

// Employees lists staff; ?active=true keeps only active employees.
func (h *RecordsHandler) Employees(c *gin.Context) {
	activeOnly := false
	if raw := c.Query("active"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(c, h.logger, models.Invalid("active", "must be a boolean"))
			return
		}
		activeOnly = v
	}

	employees, err := h.svc.ListEmployees(c.Request.Context(), c.Query("clientId"), activeOnly)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, employees)
}

func listWindowed[T any](c *gin.Context, h *RecordsHandler, list func(ctx context.Context, clientID string, window models.Window) ([]T, error)) {
	window, err := queryWindow(c, h.loc)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	items, err := list(c.Request.Context(), c.Query("clientId"), window)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, items)
}
