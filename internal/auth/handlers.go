package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wablastdev/wablast/internal/session"
)

// Handlers contains HTTP handlers for pairing.
type Handlers struct {
	manager *session.Manager
}

// NewHandlers creates a new pairing handlers instance.
func NewHandlers(manager *session.Manager) *Handlers {
	return &Handlers{manager: manager}
}

// QRImageHandler returns the current pairing QR image for a session as a PNG
// data URL. A null qrcode means the session is already paired (or has no
// challenge yet); callers polling this endpoint should stop once they see
// null together with an open state.
func (h *Handlers) QRImageHandler(c *gin.Context) {
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

	if sum.State != session.StateAwaitingPairing || sum.QR == "" {
		c.JSON(http.StatusOK, gin.H{"qrcode": nil, "state": sum.State.String()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"qrcode": sum.QR, "state": sum.State.String()})
}
