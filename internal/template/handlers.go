package template

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Handlers contains HTTP handlers for template management.
type Handlers struct {
	service *Service
}

// NewHandlers creates a new template handlers instance.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return uint(id), true
}

// ListHandler returns all templates.
func (h *Handlers) ListHandler(c *gin.Context) {
	templates, err := h.service.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"templates": templates, "total": len(templates)})
}

// GetHandler returns one template by path ID.
func (h *Handlers) GetHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	t, err := h.service.Get(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if t == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
		return
	}
	c.JSON(http.StatusOK, t)
}

// CreateHandler stores a new template.
func (h *Handlers) CreateHandler(c *gin.Context) {
	var req MessageTemplate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if err := h.service.Create(&req); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, req)
}

// UpdateHandler replaces a template's name and body.
func (h *Handlers) UpdateHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req MessageTemplate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	updated, err := h.service.Update(id, req.Name, req.Body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !updated {
		c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Template updated"})
}

// DeleteHandler removes a template.
func (h *Handlers) DeleteHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	removed, err := h.service.Delete(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "Template not found", "removed": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Template removed", "removed": true})
}
