package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/p0x6/private-kit/module/core/domain"
	"github.com/p0x6/private-kit/module/core/service"
)

type trackingService interface {
	Start(ctx context.Context) (*service.TrackingHandle, error)
	Stop(ctx context.Context, id string) error
	Active() int
}

type TrackingHandler struct {
	trackingSvc trackingService
}

func NewTrackingHandler(trackingSvc trackingService) *TrackingHandler {
	return &TrackingHandler{trackingSvc: trackingSvc}
}

func (h *TrackingHandler) Register(r *gin.RouterGroup) {
	r.GET("/tracking", h.Status)
	r.POST("/tracking", h.Start)
	r.DELETE("/tracking/:id", h.Stop)
}

func (h *TrackingHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"active": h.trackingSvc.Active()})
}

func (h *TrackingHandler) Start(c *gin.Context) {
	handle, err := h.trackingSvc.Start(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to start tracking"})
		return
	}
	c.JSON(http.StatusCreated, handle)
}

func (h *TrackingHandler) Stop(c *gin.Context) {
	err := h.trackingSvc.Stop(c.Request.Context(), c.Param("id"))
	if errors.Is(err, domain.ErrHandleNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "tracking handle not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to stop tracking"})
		return
	}
	c.Status(http.StatusNoContent)
}
