package handler

import (
	"net/http"

	"animehub/internal/ingestion/jikan"

	"github.com/gin-gonic/gin"
)

type SyncHandler struct {
	syncService *jikan.SyncService
}

func NewSyncHandler(syncService *jikan.SyncService) *SyncHandler {
	return &SyncHandler{syncService: syncService}
}

// RegisterRoutes registers admin-only catalog sync routes; the caller is
// expected to wrap the group with RequireAdmin.
func (h *SyncHandler) RegisterRoutes(router *gin.RouterGroup) {
	sync := router.Group("/sync")
	{
		sync.POST("/search", h.SyncSearch)
		sync.POST("/popular", h.SyncPopular)
	}
}

type syncSearchRequest struct {
	Query string `json:"query" binding:"required,min=1"`
}

type syncPopularRequest struct {
	Pages int `json:"pages" binding:"omitempty,min=1,max=10"`
}

// SyncSearch imports anime matching a free-text query
// POST /api/sync/search
func (h *SyncHandler) SyncSearch(c *gin.Context) {
	var req syncSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.syncService.SyncSearch(c.Request.Context(), req.Query)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// SyncPopular imports pages from the popularity listing
// POST /api/sync/popular
func (h *SyncHandler) SyncPopular(c *gin.Context) {
	var req syncPopularRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Pages == 0 {
		req.Pages = 1
	}

	result, err := h.syncService.SyncPopular(c.Request.Context(), req.Pages)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}
