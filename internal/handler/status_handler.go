package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"docsummary/internal/domain"
	"docsummary/internal/middleware"
	"docsummary/internal/status"
)

// StatusHandler serves the status register as a server-sent-event feed.
type StatusHandler struct {
	poller *status.Poller
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(poller *status.Poller) *StatusHandler {
	return &StatusHandler{poller: poller}
}

// Stream handles GET /status
// @Summary Stream the status register
// @Description Server-sent events; each event's data is {stage, message, timestamp}. Nothing is sent while no stage is set. Runs until the client disconnects.
// @Tags status
// @Produce text/event-stream
// @Success 200 {object} domain.StatusUpdate "SSE stream of status samples"
// @Router /status [get]
func (h *StatusHandler) Stream(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.WriteHeaderNow()
	c.Writer.Flush()

	err := h.poller.Run(c.Request.Context(), func(update domain.StatusUpdate) error {
		c.SSEvent("message", update)
		if len(c.Errors) > 0 {
			return fmt.Errorf("writing status event: %w", c.Errors.Last())
		}
		c.Writer.Flush()
		return nil
	})
	if err != nil {
		log.Debug().Err(err).Str("request_id", middleware.GetRequestID(c)).Msg("handler.Status: feed closed")
	}
}
