package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/riceledger/internal/domain/models"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// statusOf maps domain errors onto HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInsufficientStock), errors.Is(err, models.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err with its mapped status. Infrastructure failures
// are logged and hidden behind a generic message.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.JSON(status, errorBody{Error: "internal server error"})
		return
	}

	body := errorBody{Error: err.Error()}
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		body.Field = verr.Field
	}
	c.JSON(status, body)
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, errorBody{Error: message})
}

// parseDate accepts a calendar date (interpreted in loc) or an RFC 3339
// timestamp. An empty value yields nil.
func parseDate(value string, loc *time.Location) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	if t, err := time.ParseInLocation(time.DateOnly, value, loc); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, models.Invalid("date", "%q is neither YYYY-MM-DD nor RFC 3339", value)
	}
	return &t, nil
}

// queryWindow reads the optional startDate and endDate query parameters and
// widens them to whole days.
func queryWindow(c *gin.Context, loc *time.Location) (models.Window, error) {
	start, err := parseDate(c.Query("startDate"), loc)
	if err != nil {
		return models.Window{}, err
	}
	end, err := parseDate(c.Query("endDate"), loc)
	if err != nil {
		return models.Window{}, err
	}
	return models.DayWindow(start, end, loc), nil
}
