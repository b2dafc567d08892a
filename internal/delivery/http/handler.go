package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/SquaredPiano/emissionary/internal/domain"
	"github.com/SquaredPiano/emissionary/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	pipeline *usecase.Pipeline
	dict     domain.FoodDictionary
	sink     domain.ResultSink
}

// NewHandler creates a new HTTP handler
func NewHandler(pipeline *usecase.Pipeline, dict domain.FoodDictionary, sink domain.ResultSink) *Handler {
	return &Handler{pipeline: pipeline, dict: dict, sink: sink}
}

// ParseReceiptRequest is the body for POST /api/v1/receipts/parse.
// Callers send either raw OCR text or positioned OCR line records;
// when both are present the line records win because they carry layout.
type ParseReceiptRequest struct {
	Text  string           `json:"text"`
	Lines []domain.OCRLine `json:"lines"`
}

// ParseReceipt runs a receipt through the extraction pipeline and
// stores the result for later retrieval via GET /api/v1/receipts/last
func (h *Handler) ParseReceipt(c *gin.Context) {
	var req ParseReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body: " + err.Error(),
		})
		return
	}

	var (
		record *domain.ReceiptRecord
		err    error
	)
	if len(req.Lines) > 0 {
		record, err = h.pipeline.ProcessLines(c.Request.Context(), req.Lines)
	} else {
		record, err = h.pipeline.ProcessText(c.Request.Context(), req.Text)
	}

	if err != nil {
		if errors.Is(err, domain.ErrNoText) {
			// Still a well-formed answer: an empty receipt yields an
			// explicit failure record rather than a bare error string.
			c.JSON(http.StatusBadRequest, record)
			return
		}
		log.Printf("[HANDLER] Receipt processing failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to process receipt",
		})
		return
	}

	h.sink.Store(record)
	c.JSON(http.StatusOK, record)
}

// LastReceipt returns the most recently processed receipt record
func (h *Handler) LastReceipt(c *gin.Context) {
	record, err := h.sink.Last()
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "No receipt has been processed yet",
		})
		return
	}
	c.JSON(http.StatusOK, record)
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	stats := h.dict.Stats()
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "emissionary-backend",
		"version": "1.0.0",
		"dictionary": gin.H{
			"total_items": stats.TotalItems,
			"categories":  stats.Categories,
		},
	})
}
