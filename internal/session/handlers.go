package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers contains HTTP handlers for session management.
type Handlers struct {
	manager *Manager
	log     *zap.Logger
}

// NewHandlers creates a new session handlers instance.
func NewHandlers(manager *Manager, log *zap.Logger) *Handlers {
	return &Handlers{manager: manager, log: log}
}

// AddSessionHandler handles creating a new WhatsApp session.
func (h *Handlers) AddSessionHandler(c *gin.Context) {
	var req AddSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	sum, err := h.manager.Create(c.Request.Context(), req.User)
	if err != nil {
		var bootErr *BootError
		switch {
		case errors.Is(err, ErrAlreadyExists):
			c.JSON(http.StatusConflict, gin.H{"error": "Session already exists"})
		case errors.Is(err, ErrPairingTimeout):
			// The boot keeps running; the caller should poll status/QR.
			c.JSON(http.StatusRequestTimeout, gin.H{
				"error": "Timed out waiting for pairing, poll /wa/qr-image",
				"user":  req.User,
			})
		case errors.As(err, &bootErr):
			h.log.Error("session boot failed", zap.String("session", req.User), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start session"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	resp := gin.H{"user": sum.Name, "state": sum.State.String()}
	if sum.QR != "" {
		resp["qrcode"] = sum.QR
	}
	c.JSON(http.StatusOK, resp)
}

// ListSessionsHandler returns the names in the session directory.
func (h *Handlers) ListSessionsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sessions": h.manager.List()})
}

// StatusHandler handles checking the status of a WhatsApp session.
func (h *Handlers) StatusHandler(c *gin.Context) {
	user := c.Query("user")
	if user == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing user"})
		return
	}

	sum, ok := h.manager.Get(user)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":      sum.Name,
		"state":     sum.State.String(),
		"open":      sum.State == StateOpen,
		"needs_qr":  sum.State == StateAwaitingPairing,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// LogoutHandler removes a session, logging it out best-effort.
func (h *Handlers) LogoutHandler(c *gin.Context) {
	var req LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	removed := h.manager.Delete(c.Request.Context(), req.User)
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found", "removed": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Session removed", "removed": true})
}
