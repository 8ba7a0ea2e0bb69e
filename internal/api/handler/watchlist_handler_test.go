package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"animehub/internal/api/dto"
	"animehub/internal/api/handler"
	"animehub/internal/api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// --- MOCK SERVICE ---

type MockWatchlistService struct {
	mock.Mock
}

func (m *MockWatchlistService) Upsert(ctx context.Context, userID string, animeID int64, status string, progress int) (*dto.WatchlistItemResponse, error) {
	args := m.Called(ctx, userID, animeID, status, progress)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.WatchlistItemResponse), args.Error(1)
}

func (m *MockWatchlistService) Get(ctx context.Context, userID string, animeID int64) (*dto.WatchlistItemResponse, error) {
	args := m.Called(ctx, userID, animeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.WatchlistItemResponse), args.Error(1)
}

func (m *MockWatchlistService) List(ctx context.Context, userID, status string, page, pageSize int) (*dto.PaginatedWatchlistResponse, error) {
	args := m.Called(ctx, userID, status, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PaginatedWatchlistResponse), args.Error(1)
}

func (m *MockWatchlistService) Remove(ctx context.Context, userID string, animeID int64) error {
	args := m.Called(ctx, userID, animeID)
	return args.Error(0)
}

// --- SETUP ---

func mockAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", "test-user-id")
		c.Set("username", "testuser")
		c.Set("role", "user")
		c.Next()
	}
}

func setupWatchlistRouter(mockService *MockWatchlistService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handler.NewWatchlistHandler(mockService)

	rg := r.Group("/api")
	rg.Use(mockAuthMiddleware())
	h.RegisterRoutes(rg)
	return r
}

// --- TESTS ---

func TestWatchlistHandler_Upsert(t *testing.T) {
	mockService := new(MockWatchlistService)
	r := setupWatchlistRouter(mockService)

	t.Run("Success", func(t *testing.T) {
		item := &dto.WatchlistItemResponse{
			ID:       1,
			AnimeID:  42,
			Status:   "watching",
			Progress: 3,
		}
		mockService.On("Upsert", mock.Anything, "test-user-id", int64(42), "watching", 3).Return(item, nil).Once()

		body, _ := json.Marshal(dto.UpsertWatchlistDTO{Status: "watching", Progress: 3})
		req, _ := http.NewRequest(http.MethodPut, "/api/watchlist/42", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.WatchlistItemResponse
		json.Unmarshal(w.Body.Bytes(), &response)
		assert.Equal(t, int64(42), response.AnimeID)
		assert.Equal(t, "watching", response.Status)
		mockService.AssertExpectations(t)
	})

	t.Run("InvalidStatus", func(t *testing.T) {
		// Status is an enum in the DTO, binding rejects unknown values.
		body := []byte(`{"status":"binge_watching"}`)
		req, _ := http.NewRequest(http.MethodPut, "/api/watchlist/42", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("AnimeNotFound", func(t *testing.T) {
		mockService.On("Upsert", mock.Anything, "test-user-id", int64(999), "watching", 0).
			Return(nil, service.ErrAnimeNotFound).Once()

		body, _ := json.Marshal(dto.UpsertWatchlistDTO{Status: "watching"})
		req, _ := http.NewRequest(http.MethodPut, "/api/watchlist/999", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("InvalidAnimeID", func(t *testing.T) {
		body, _ := json.Marshal(dto.UpsertWatchlistDTO{Status: "watching"})
		req, _ := http.NewRequest(http.MethodPut, "/api/watchlist/abc", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestWatchlistHandler_List(t *testing.T) {
	mockService := new(MockWatchlistService)
	r := setupWatchlistRouter(mockService)

	t.Run("Success_StatusFilter", func(t *testing.T) {
		list := &dto.PaginatedWatchlistResponse{
			Data: []dto.WatchlistItemResponse{
				{ID: 1, AnimeID: 42, Status: "completed"},
			},
		}
		mockService.On("List", mock.Anything, "test-user-id", "completed", 1, 20).Return(list, nil).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/watchlist?status=completed", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &response)
		data := response["data"].([]interface{})
		assert.Len(t, data, 1)
		mockService.AssertExpectations(t)
	})

	t.Run("InvalidStatusFilter", func(t *testing.T) {
		mockService.On("List", mock.Anything, "test-user-id", "bogus", 1, 20).
			Return(nil, service.ErrInvalidWatchStatus).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/watchlist?status=bogus", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("PageBoundsClamped", func(t *testing.T) {
		list := &dto.PaginatedWatchlistResponse{Data: []dto.WatchlistItemResponse{}}
		mockService.On("List", mock.Anything, "test-user-id", "", 1, 20).Return(list, nil).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/watchlist?page=0&page_size=5000", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})
}

func TestWatchlistHandler_Get(t *testing.T) {
	mockService := new(MockWatchlistService)
	r := setupWatchlistRouter(mockService)

	t.Run("NotFound", func(t *testing.T) {
		mockService.On("Get", mock.Anything, "test-user-id", int64(42)).
			Return(nil, service.ErrWatchlistEntryNotFound).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/watchlist/42", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestWatchlistHandler_Remove(t *testing.T) {
	mockService := new(MockWatchlistService)
	r := setupWatchlistRouter(mockService)

	t.Run("Success", func(t *testing.T) {
		mockService.On("Remove", mock.Anything, "test-user-id", int64(42)).Return(nil).Once()

		req, _ := http.NewRequest(http.MethodDelete, "/api/watchlist/42", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("NotFound", func(t *testing.T) {
		mockService.On("Remove", mock.Anything, "test-user-id", int64(42)).
			Return(service.ErrWatchlistEntryNotFound).Once()

		req, _ := http.NewRequest(http.MethodDelete, "/api/watchlist/42", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
