package jikan

// Jikan v4 response envelopes. Only the fields the sync needs are mapped.

// AnimeListResponse is the envelope of /anime and /top/anime.
type AnimeListResponse struct {
	Pagination Pagination  `json:"pagination"`
	Data       []AnimeData `json:"data"`
}

// Pagination carries paging info for list endpoints
type Pagination struct {
	LastVisiblePage int  `json:"last_visible_page"`
	HasNextPage     bool `json:"has_next_page"`
	Items           struct {
		Count   int `json:"count"`
		Total   int `json:"total"`
		PerPage int `json:"per_page"`
	} `json:"items"`
}

// AnimeData represents a single anime entry
type AnimeData struct {
	MALID         int      `json:"mal_id"`
	Title         string   `json:"title"`
	TitleEnglish  *string  `json:"title_english"`
	TitleJapanese *string  `json:"title_japanese"`
	Type          *string  `json:"type"`
	Episodes      *int     `json:"episodes"`
	Status        *string  `json:"status"`
	Year          *int     `json:"year"`
	Score         *float64 `json:"score"`
	Synopsis      *string  `json:"synopsis"`
	Images        Images   `json:"images"`
	Genres        []Genre  `json:"genres"`
}

// Images holds cover art variants
type Images struct {
	JPG struct {
		ImageURL      string `json:"image_url"`
		LargeImageURL string `json:"large_image_url"`
	} `json:"jpg"`
}

// Genre is a named genre tag
type Genre struct {
	MALID int    `json:"mal_id"`
	Name  string `json:"name"`
}
