package messaging

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/wablastdev/wablast/internal/session"
)

// Handlers contains HTTP handlers for messaging.
type Handlers struct {
	service  *Service
	recorder *Recorder
	log      *zap.Logger
}

// NewHandlers creates a new messaging handlers instance.
func NewHandlers(service *Service, recorder *Recorder, log *zap.Logger) *Handlers {
	return &Handlers{service: service, recorder: recorder, log: log}
}

// SendMessageHandler handles sending a text message.
func (h *Handlers) SendMessageHandler(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	err := h.service.SendText(c.Request.Context(), req.User, req.PhoneNumber, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrUnknownSession):
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		case errors.Is(err, session.ErrChannelNotReady):
			c.JSON(http.StatusConflict, gin.H{"error": "Session is not open, pair it first"})
		default:
			h.log.Error("message send failed", zap.String("session", req.User), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Message cannot be sent",
				"details": err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "Message sent successfully"})
}

// InboxHandler returns recently recorded inbound messages for a session.
func (h *Handlers) InboxHandler(c *gin.Context) {
	user := c.Query("user")
	if user == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing user"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	rows, err := h.recorder.Recent(user, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": rows, "total": len(rows), "user": user})
}
