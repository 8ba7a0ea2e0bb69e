package client

// HTTP client for talking to the AnimeHub API server.

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// Request/response structures mirroring the server DTOs.

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type AuthResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
}

type AnimeResponse struct {
	ID            int64    `json:"id"`
	Title         string   `json:"title"`
	AltTitle      *string  `json:"alt_title,omitempty"`
	Genre         string   `json:"genre"`
	Year          *int     `json:"year,omitempty"`
	Episodes      *int     `json:"episodes,omitempty"`
	AverageRating *float64 `json:"average_rating,omitempty"`
}

type PaginatedAnimeResponse struct {
	Data       []AnimeResponse `json:"data"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	Total      int64           `json:"total"`
	TotalPages int             `json:"total_pages"`
}

type RateAnimeRequest struct {
	Score int `json:"score"`
}

type RatingResponse struct {
	ID      int64 `json:"id"`
	AnimeID int64 `json:"anime_id"`
	Score   int   `json:"score"`
}

type RecommendationEntry struct {
	ID     int64         `json:"id"`
	Reason string        `json:"reason"`
	Score  int           `json:"score"`
	Anime  AnimeResponse `json:"anime"`
}

type RefreshSummary struct {
	Count   int `json:"count"`
	BasedOn struct {
		Ratings    int      `json:"ratings"`
		Friends    int      `json:"friends"`
		MeanRating float64  `json:"mean_rating"`
		TopGenres  []string `json:"top_genres"`
	} `json:"based_on"`
}

func NewHTTPClient(apiURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: apiURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *HTTPClient) SetToken(token string) {
	c.token = token
}

func (c *HTTPClient) Register(request *RegisterRequest) (*UserResponse, error) {
	var result UserResponse
	if err := c.doJSON("POST", "/api/auth/register", request, &result, http.StatusCreated); err != nil {
		return nil, fmt.Errorf("registration failed: %w", err)
	}
	return &result, nil
}

func (c *HTTPClient) Login(request *LoginRequest) (*AuthResponse, error) {
	var result AuthResponse
	if err := c.doJSON("POST", "/api/auth/login", request, &result, http.StatusOK); err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	return &result, nil
}

func (c *HTTPClient) Logout() error {
	return c.doJSON("POST", "/api/users/logout", nil, nil, http.StatusOK)
}

func (c *HTTPClient) ListAnime(page int) (*PaginatedAnimeResponse, error) {
	var result PaginatedAnimeResponse
	path := fmt.Sprintf("/api/anime?page=%d", page)
	if err := c.doJSON("GET", path, nil, &result, http.StatusOK); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) SearchAnime(query string) ([]AnimeResponse, error) {
	var result []AnimeResponse
	path := "/api/anime/search?q=" + url.QueryEscape(query)
	if err := c.doJSON("GET", path, nil, &result, http.StatusOK); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *HTTPClient) GetAnime(id int64) (*AnimeResponse, error) {
	var result AnimeResponse
	path := fmt.Sprintf("/api/anime/%d", id)
	if err := c.doJSON("GET", path, nil, &result, http.StatusOK); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) RateAnime(animeID int64, score int) (*RatingResponse, error) {
	var result RatingResponse
	path := fmt.Sprintf("/api/anime/%d/ratings", animeID)
	if err := c.doJSON("POST", path, &RateAnimeRequest{Score: score}, &result, http.StatusOK); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) GetRecommendations(limit int) ([]RecommendationEntry, error) {
	var result []RecommendationEntry
	path := fmt.Sprintf("/api/recommendations?limit=%d", limit)
	if err := c.doJSON("GET", path, nil, &result, http.StatusOK); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *HTTPClient) RefreshRecommendations() (*RefreshSummary, error) {
	var result RefreshSummary
	if err := c.doJSON("POST", "/api/recommendations", nil, &result, http.StatusOK); err != nil {
		return nil, err
	}
	return &result, nil
}

// doJSON sends a request and decodes the response into result, if non-nil.
func (c *HTTPClient) doJSON(method, path string, body, result interface{}, wantStatus int) error {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(jsonData)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		var apiErr struct {
			Error string `json:"error"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Error != "" {
			return fmt.Errorf("%s: %s", resp.Status, apiErr.Error)
		}
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}
