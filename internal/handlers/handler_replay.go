package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/txn_processor/internal/adapters/csvio"
	"github.com/SscSPs/txn_processor/internal/apperrors"
	portssvc "github.com/SscSPs/txn_processor/internal/core/ports/services"
	"github.com/SscSPs/txn_processor/internal/dto"
	"github.com/SscSPs/txn_processor/internal/middleware"
	"github.com/SscSPs/txn_processor/internal/platform/config"
	"github.com/SscSPs/txn_processor/internal/utils/mapping"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

const mimeCSV = "text/csv"

// replayHandler handles HTTP requests that replay a transaction stream.
type replayHandler struct {
	replayService  portssvc.ReplaySvcFacade
	maxUploadBytes int64
	precision      int
}

// newReplayHandler creates a new replayHandler.
func newReplayHandler(rs portssvc.ReplaySvcFacade, cfg *config.Config) *replayHandler {
	return &replayHandler{
		replayService:  rs,
		maxUploadBytes: cfg.MaxUploadBytes,
		precision:      cfg.OutputPrecision,
	}
}

// registerReplayRoutes registers routes related to replay runs.
func registerReplayRoutes(rg *gin.RouterGroup, replayService portssvc.ReplaySvcFacade, cfg *config.Config) {
	h := newReplayHandler(replayService, cfg)
	rg.POST("/replay", h.replay)
}

// replay runs the posted transactions against a fresh ledger and returns the account table.
// The body is either transaction CSV (text/csv, text/plain) or a JSON dto.ReplayRequest.
// The response is JSON unless the client accepts text/csv first.
func (h *replayHandler) replay(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)

	var source portssvc.TransactionSource
	switch c.ContentType() {
	case mimeCSV, binding.MIMEPlain:
		source = csvio.NewReader(c.Request.Body, csvio.WithLogger(logger))
	case binding.MIMEJSON:
		var req dto.ReplayRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			if tooLarge(err) {
				logger.Warn("Replay body exceeds upload limit", slog.Int64("limit", h.maxUploadBytes))
				c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Request body too large"})
				return
			}
			logger.Warn("Failed to bind JSON for Replay", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
			return
		}
		source = newRequestSource(req.Transactions)
	default:
		logger.Warn("Unsupported content type for Replay", slog.String("content_type", c.ContentType()))
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "Content-Type must be text/csv, text/plain or application/json"})
		return
	}

	report, err := h.replayService.Replay(c.Request.Context(), source)
	if err != nil {
		switch {
		case tooLarge(err):
			logger.Warn("Replay body exceeds upload limit", slog.Int64("limit", h.maxUploadBytes))
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Request body too large"})
		case errors.Is(err, apperrors.ErrMissingColumn), errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Invalid replay input", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to replay transactions", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to replay transactions"})
		}
		return
	}

	if c.NegotiateFormat(binding.MIMEJSON, mimeCSV) == mimeCSV {
		c.Header("Content-Type", mimeCSV)
		c.Header("X-Run-ID", report.RunID)
		c.Status(http.StatusOK)
		if err := csvio.NewWriter(c.Writer, h.precision).WriteAccounts(report.Accounts); err != nil {
			logger.Error("Failed to write account CSV", slog.String("error", err.Error()))
		}
		return
	}

	resp := mapping.ToReplayResponse(report, h.precision)
	if subject, ok := middleware.GetSubjectFromContext(c); ok {
		resp.RequestedBy = subject
	}
	c.JSON(http.StatusOK, resp)
}

func tooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}
