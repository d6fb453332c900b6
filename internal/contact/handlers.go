package contact

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handlers contains HTTP handlers for contact management.
type Handlers struct {
	service *Service
}

// NewHandlers creates a new contact handlers instance.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// ListHandler returns contacts, optionally filtered by ?group=.
func (h *Handlers) ListHandler(c *gin.Context) {
	contacts, err := h.service.List(c.Query("group"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, ContactsResponse{Contacts: contacts, Total: len(contacts)})
}

// GetHandler returns a single contact by ?phone=.
func (h *Handlers) GetHandler(c *gin.Context) {
	phone := c.Query("phone")
	if phone == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing phone"})
		return
	}
	found, err := h.service.Get(phone)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if found == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contact not found"})
		return
	}
	c.JSON(http.StatusOK, found)
}

// UpsertHandler creates or updates a contact keyed by phone.
func (h *Handlers) UpsertHandler(c *gin.Context) {
	var req Contact
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if err := h.service.Upsert(&req); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Contact saved", "contact": req})
}

// DeleteHandler removes a contact by phone.
func (h *Handlers) DeleteHandler(c *gin.Context) {
	phone := c.Query("phone")
	if phone == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing phone"})
		return
	}
	removed, err := h.service.Delete(phone)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contact not found", "removed": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Contact removed", "removed": true})
}
