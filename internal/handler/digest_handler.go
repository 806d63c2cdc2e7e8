package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// DigestRunner sends the periodic digest batch.
type DigestRunner interface {
	Run() (int, error)
}

type DigestHandler struct {
	runner DigestRunner
}

func NewDigestHandler(runner DigestRunner) *DigestHandler {
	return &DigestHandler{runner: runner}
}

// Run triggers a digest batch outside the schedule, for ops use.
func (h *DigestHandler) Run(c *gin.Context) {
	sent, err := h.runner.Run()
	if err != nil {
		slog.Error("error running digest batch", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Digest run failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"sent": sent})
}
