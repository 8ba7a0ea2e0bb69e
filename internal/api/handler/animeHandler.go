package handler

import (
	"errors"
	"net/http"
	"strconv"

	"animehub/internal/api/dto"
	"animehub/internal/api/middleware"
	"animehub/internal/api/service"

	"github.com/gin-gonic/gin"
)

type AnimeHandler struct {
	animeService service.AnimeService
}

func NewAnimeHandler(animeService service.AnimeService) *AnimeHandler {
	return &AnimeHandler{animeService: animeService}
}

// RegisterRoutes registers catalog routes. Reads are open to any
// authenticated user, writes require admin.
func (h *AnimeHandler) RegisterRoutes(router *gin.RouterGroup) {
	anime := router.Group("/anime")
	{
		anime.GET("", h.List)
		anime.GET("/search", h.Search)
		anime.GET("/:anime_id", h.Get)

		anime.POST("", middleware.RequireAdmin(), h.Create)
		anime.PUT("/:anime_id", middleware.RequireAdmin(), h.Update)
		anime.DELETE("/:anime_id", middleware.RequireAdmin(), h.Delete)
	}
}

// List returns the catalog with pagination
// GET /api/anime?page=1&page_size=20
func (h *AnimeHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	result, err := h.animeService.List(c.Request.Context(), page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// Search performs a token match on title/alt title
// GET /api/anime/search?q=...
func (h *AnimeHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing query parameter q"})
		return
	}

	result, err := h.animeService.Search(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

// Get returns one anime
// GET /api/anime/:anime_id
func (h *AnimeHandler) Get(c *gin.Context) {
	animeID, err := strconv.ParseInt(c.Param("anime_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid anime ID"})
		return
	}

	result, err := h.animeService.Get(c.Request.Context(), animeID)
	if err != nil {
		if errors.Is(err, service.ErrAnimeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// Create adds a catalog row (admin)
// POST /api/anime
func (h *AnimeHandler) Create(c *gin.Context) {
	var req dto.CreateAnimeDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.animeService.Create(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, result)
}

// Update patches a catalog row (admin)
// PUT /api/anime/:anime_id
func (h *AnimeHandler) Update(c *gin.Context) {
	animeID, err := strconv.ParseInt(c.Param("anime_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid anime ID"})
		return
	}

	var req dto.UpdateAnimeDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.animeService.Update(c.Request.Context(), animeID, &req)
	if err != nil {
		if errors.Is(err, service.ErrAnimeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// Delete removes a catalog row (admin)
// DELETE /api/anime/:anime_id
func (h *AnimeHandler) Delete(c *gin.Context) {
	animeID, err := strconv.ParseInt(c.Param("anime_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid anime ID"})
		return
	}

	if err := h.animeService.Delete(c.Request.Context(), animeID); err != nil {
		if errors.Is(err, service.ErrAnimeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Anime deleted successfully"})
}
