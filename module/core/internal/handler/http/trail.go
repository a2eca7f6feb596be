package http

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/p0x6/private-kit/module/core/domain"
	"github.com/p0x6/private-kit/module/core/service"
)

type trailService interface {
	Samples(ctx context.Context) []domain.LocationSample
	Stats(ctx context.Context) domain.TrailStats
	Reset(ctx context.Context) error
}

type referenceService interface {
	ActiveZones() []domain.BannedZone
	SetReference(ctx context.Context, label domain.Label, coordinate []float64) error
}

type overlapService interface {
	Nearby(ctx context.Context, dataset io.Reader) ([]domain.Hotspot, error)
}

const maxDatasetBytes = 64 << 20

type TrailHandler struct {
	trailSvc     trailService
	referenceSvc referenceService
	overlapSvc   overlapService
}

func NewTrailHandler(trailSvc trailService, referenceSvc referenceService, overlapSvc overlapService) *TrailHandler {
	return &TrailHandler{
		trailSvc:     trailSvc,
		referenceSvc: referenceSvc,
		overlapSvc:   overlapSvc,
	}
}

func (h *TrailHandler) Register(r *gin.RouterGroup) {
	r.GET("/trail", h.GetTrail)
	r.GET("/trail/stats", h.GetStats)
	r.DELETE("/trail", h.ResetTrail)
	r.GET("/references", h.GetReferences)
	r.PUT("/references/:label", h.SetReference)
	r.POST("/overlap", h.Overlap)
}

func (h *TrailHandler) GetTrail(c *gin.Context) {
	c.JSON(http.StatusOK, h.trailSvc.Samples(c.Request.Context()))
}

func (h *TrailHandler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.trailSvc.Stats(c.Request.Context()))
}

func (h *TrailHandler) ResetTrail(c *gin.Context) {
	if err := h.trailSvc.Reset(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reset trail"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TrailHandler) GetReferences(c *gin.Context) {
	c.JSON(http.StatusOK, h.referenceSvc.ActiveZones())
}

// SetReference takes a JSON [lon, lat] body; null or any other shape clears
// the reference.
func (h *TrailHandler) SetReference(c *gin.Context) {
	label, err := domain.ParseLabel(c.Param("label"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown reference label"})
		return
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<10))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	if err := h.referenceSvc.SetReference(c.Request.Context(), label, service.ParseCoordinate(body)); err != nil {
		if errors.Is(err, domain.ErrUnknownLabel) {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown reference label"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save reference"})
		return
	}

	c.JSON(http.StatusOK, h.referenceSvc.ActiveZones())
}

func (h *TrailHandler) Overlap(c *gin.Context) {
	hotspots, err := h.overlapSvc.Nearby(c.Request.Context(), io.LimitReader(c.Request.Body, maxDatasetBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read dataset"})
		return
	}
	c.JSON(http.StatusOK, hotspots)
}
