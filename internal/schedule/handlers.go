package schedule

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Handlers contains HTTP handlers for broadcast schedule management.
type Handlers struct {
	service *Service
}

// NewHandlers creates a new schedule handlers instance.
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

// ListHandler returns all schedules.
func (h *Handlers) ListHandler(c *gin.Context) {
	schedules, err := h.service.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedules": schedules, "total": len(schedules)})
}

// GetHandler returns one schedule by path ID.
func (h *Handlers) GetHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	sched, err := h.service.Get(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if sched == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Schedule not found"})
		return
	}
	c.JSON(http.StatusOK, sched)
}

// CreateHandler stores a new schedule.
func (h *Handlers) CreateHandler(c *gin.Context) {
	var req BroadcastSchedule
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if err := h.service.Create(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, req)
}

// UpdateHandler replaces a schedule's fields.
func (h *Handlers) UpdateHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req BroadcastSchedule
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	updated, err := h.service.Update(id, &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !updated {
		c.JSON(http.StatusNotFound, gin.H{"error": "Schedule not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Schedule updated"})
}

// DeleteHandler removes a schedule.
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
		c.JSON(http.StatusNotFound, gin.H{"error": "Schedule not found", "removed": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Schedule removed", "removed": true})
}

// RunHandler fires a schedule immediately, outside its cron cadence.
func (h *Handlers) RunHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	sched, err := h.service.Get(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if sched == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Schedule not found"})
		return
	}
	go h.service.Run(id)
	c.JSON(http.StatusOK, gin.H{"msg": "Schedule run started", "id": id})
}
