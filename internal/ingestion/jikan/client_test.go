package jikan

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&discardWriter{}, nil))
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func TestSearchAnime_ParsesResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/anime", r.URL.Path)
		assert.Equal(t, "cowboy", r.URL.Query().Get("q"))
		assert.Equal(t, "1", r.URL.Query().Get("page"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"pagination": {"last_visible_page": 1, "has_next_page": false},
			"data": [{
				"mal_id": 1,
				"title": "Cowboy Bebop",
				"title_english": "Cowboy Bebop",
				"episodes": 26,
				"year": 1998,
				"score": 8.75,
				"synopsis": "Bounty hunters in space.",
				"images": {"jpg": {"image_url": "http://img/small.jpg", "large_image_url": "http://img/large.jpg"}},
				"genres": [{"mal_id": 1, "name": "Action"}, {"mal_id": 24, "name": "Sci-Fi"}]
			}]
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, testLogger())
	resp, err := client.SearchAnime(context.Background(), "cowboy", 1)

	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	assert.False(t, resp.Pagination.HasNextPage)

	anime := resp.Data[0]
	assert.Equal(t, 1, anime.MALID)
	assert.Equal(t, "Cowboy Bebop", anime.Title)
	require.NotNil(t, anime.Episodes)
	assert.Equal(t, 26, *anime.Episodes)
	require.NotNil(t, anime.Year)
	assert.Equal(t, 1998, *anime.Year)
	assert.Equal(t, "http://img/large.jpg", anime.Images.JPG.LargeImageURL)
	require.Len(t, anime.Genres, 2)
	assert.Equal(t, "Action", anime.Genres[0].Name)
}

func TestDoRequest_RetriesOnTooManyRequests(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"pagination": {}, "data": []}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, testLogger())
	resp, err := client.TopAnime(context.Background(), 1)

	require.NoError(t, err)
	assert.Empty(t, resp.Data)
	assert.Equal(t, int32(2), calls.Load())
}

func TestDoRequest_RetriesOnServerError(t *testing.T) {
	if testing.Short() {
		t.Skip("waits out the first backoff delay")
	}

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"pagination": {}, "data": []}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, testLogger())
	resp, err := client.TopAnime(context.Background(), 1)

	require.NoError(t, err)
	assert.NotNil(t, resp)
	assert.Equal(t, int32(2), calls.Load())
}

func TestDoRequest_FailsOnClientError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error": "not found"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, testLogger())
	_, err := client.SearchAnime(context.Background(), "nope", 1)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 404")
	// 4xx other than 429 is not retried
	assert.Equal(t, int32(1), calls.Load())
}

func TestFromAnimeData(t *testing.T) {
	english := "English Title"
	episodes := 12
	year := 2020
	synopsis := "A story."

	anime := fromAnimeData(AnimeData{
		MALID:        42,
		Title:        "Native Title",
		TitleEnglish: &english,
		Episodes:     &episodes,
		Year:         &year,
		Synopsis:     &synopsis,
		Genres:       []Genre{{Name: "Action"}, {Name: "Drama"}},
	})

	require.NotNil(t, anime.MALID)
	assert.Equal(t, 42, *anime.MALID)
	assert.Equal(t, "Native Title", anime.Title)
	assert.Equal(t, &english, anime.AltTitle)
	assert.Equal(t, "Action, Drama", anime.Genre)
	assert.Equal(t, &episodes, anime.Episodes)
	assert.Nil(t, anime.ImageURL)
}

func TestImageURL_PrefersLarge(t *testing.T) {
	var item AnimeData
	item.Images.JPG.ImageURL = "http://img/small.jpg"
	item.Images.JPG.LargeImageURL = "http://img/large.jpg"
	require.NotNil(t, imageURL(item))
	assert.Equal(t, "http://img/large.jpg", *imageURL(item))

	item.Images.JPG.LargeImageURL = ""
	assert.Equal(t, "http://img/small.jpg", *imageURL(item))

	item.Images.JPG.ImageURL = ""
	assert.Nil(t, imageURL(item))
}
