package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/riceledger/internal/domain/models"
	"github.com/mamadbah2/riceledger/internal/service/export"
	"github.com/mamadbah2/riceledger/internal/service/reporting"
)

// DashboardHandler serves the financial dashboard as JSON or XLSX.
type DashboardHandler struct {
	svc    *reporting.Service
	logger *zap.Logger
}

// NewDashboardHandler constructs the HTTP handler adapter.
func NewDashboardHandler(svc *reporting.Service, logger *zap.Logger) *DashboardHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardHandler{svc: svc, logger: logger}
}

// Get returns the dashboard report.
func (h *DashboardHandler) Get(c *gin.Context) {
	report, ok := h.build(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, report)
}

// Export returns the dashboard report as a workbook download.
func (h *DashboardHandler) Export(c *gin.Context) {
	report, ok := h.build(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.WriteDashboard(&buf, report); err != nil {
		respondError(c, h.logger, fmt.Errorf("export dashboard: %w", err))
		return
	}

	filename := fmt.Sprintf("dashboard-%s-%s.xlsx", report.ClientID, report.GeneratedAt.Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}

func (h *DashboardHandler) build(c *gin.Context) (*models.DashboardReport, bool) {
	q, err := h.query(c)
	if err != nil {
		respondError(c, h.logger, err)
		return nil, false
	}

	report, err := h.svc.GetDashboard(c.Request.Context(), q)
	if err != nil {
		respondError(c, h.logger, err)
		return nil, false
	}
	return report, true
}

func (h *DashboardHandler) query(c *gin.Context) (reporting.DashboardQuery, error) {
	loc := h.svc.Location()
	q := reporting.DashboardQuery{ClientID: c.Query("clientId")}

	var err error
	if q.StartDate, err = parseDate(c.Query("startDate"), loc); err != nil {
		return q, err
	}
	if q.EndDate, err = parseDate(c.Query("endDate"), loc); err != nil {
		return q, err
	}
	if q.Year, err = optionalInt(c.Query("year"), "year"); err != nil {
		return q, err
	}
	if q.Month, err = optionalInt(c.Query("month"), "month"); err != nil {
		return q, err
	}
	return q, nil
}

func optionalInt(raw, field string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, models.Invalid(field, "must be an integer")
	}
	return v, nil
}
