package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/cantine/internal/domain/models"
	"github.com/mamadbah2/cantine/internal/entry"
)

// EntryHandler adapts HTTP requests onto the production entry form.
type EntryHandler struct {
	form   *entry.Form
	logger *zap.Logger
}

// NewEntryHandler constructs the HTTP handler adapter.
func NewEntryHandler(form *entry.Form, logger *zap.Logger) *EntryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EntryHandler{form: form, logger: logger}
}

// Page renders the entry form as HTML.
func (h *EntryHandler) Page(c *gin.Context) {
	c.HTML(http.StatusOK, "entry.html", h.form.Snapshot())
}

// State returns the current form snapshot as JSON.
func (h *EntryHandler) State(c *gin.Context) {
	c.JSON(http.StatusOK, h.form.Snapshot())
}

type fieldUpdateRequest struct {
	HospitalID string `json:"hospitalId" binding:"required"`
	Field      string `json:"field" binding:"required"`
	Value      any    `json:"value"`
}

// UpdateField applies one numeric edit to the matching row. Values that do
// not parse as numbers are coerced to zero, matching the input widgets.
func (h *EntryHandler) UpdateField(c *gin.Context) {
	var req fieldUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid field update payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	h.form.SetField(req.HospitalID, models.RowField(req.Field), coerceNumber(req.Value))
	c.JSON(http.StatusOK, h.form.Snapshot())
}

// Reset rebuilds every row from the current hospital list.
func (h *EntryHandler) Reset(c *gin.Context) {
	h.form.Reset()
	c.JSON(http.StatusOK, h.form.Snapshot())
}

// Reload refetches the hospital collection and re-derives the rows.
func (h *EntryHandler) Reload(c *gin.Context) {
	if err := h.form.LoadHospitals(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, h.form.Snapshot())
		return
	}
	c.JSON(http.StatusOK, h.form.Snapshot())
}

// Submit posts the full row set to the remote service.
func (h *EntryHandler) Submit(c *gin.Context) {
	if err := h.form.Submit(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, h.form.Snapshot())
		return
	}
	c.JSON(http.StatusOK, h.form.Snapshot())
}

func coerceNumber(value any) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}
