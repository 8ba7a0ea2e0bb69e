package jikan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"animehub/internal/api/models"
	"animehub/internal/api/repository"

	"gorm.io/gorm"
)

// catalogSource is the slice of the Jikan client the sync consumes.
type catalogSource interface {
	SearchAnime(ctx context.Context, query string, page int) (*AnimeListResponse, error)
	TopAnime(ctx context.Context, page int) (*AnimeListResponse, error)
}

// SyncService imports anime metadata from Jikan into the local catalog.
type SyncService struct {
	client        catalogSource
	animeRepo     *repository.AnimeRepo
	watchlistRepo repository.WatchlistRepository
	notifRepo     repository.NotificationRepository
	logger        *slog.Logger
}

func NewSyncService(
	client *Client,
	animeRepo *repository.AnimeRepo,
	watchlistRepo repository.WatchlistRepository,
	notifRepo repository.NotificationRepository,
	logger *slog.Logger,
) *SyncService {
	return &SyncService{
		client:        client,
		animeRepo:     animeRepo,
		watchlistRepo: watchlistRepo,
		notifRepo:     notifRepo,
		logger:        logger,
	}
}

// SyncResult summarizes one sync run. Partial success is the steady state:
// per-item failures land in Errors while the rest of the batch proceeds.
type SyncResult struct {
	Fetched int      `json:"fetched"`
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Errors  []string `json:"errors,omitempty"`
}

// SyncSearch imports the first page of a free-text Jikan search.
func (s *SyncService) SyncSearch(ctx context.Context, query string) (*SyncResult, error) {
	resp, err := s.client.SearchAnime(ctx, query, 1)
	if err != nil {
		return nil, err
	}
	return s.importBatch(ctx, resp.Data), nil
}

// SyncPopular imports the given number of pages from the top-anime listing.
func (s *SyncService) SyncPopular(ctx context.Context, pages int) (*SyncResult, error) {
	if pages < 1 {
		pages = 1
	}

	result := &SyncResult{}
	for page := 1; page <= pages; page++ {
		resp, err := s.client.TopAnime(ctx, page)
		if err != nil {
			// A failed page is reported but does not abort earlier progress.
			result.Errors = append(result.Errors, fmt.Sprintf("page %d: %v", page, err))
			break
		}

		pageResult := s.importBatch(ctx, resp.Data)
		result.Fetched += pageResult.Fetched
		result.Created += pageResult.Created
		result.Updated += pageResult.Updated
		result.Errors = append(result.Errors, pageResult.Errors...)

		if !resp.Pagination.HasNextPage {
			break
		}
	}
	return result, nil
}

// SyncPopularPage imports a single page of the top-anime listing. The bulk
// importer schedules pages over its worker pool with this.
func (s *SyncService) SyncPopularPage(ctx context.Context, page int) (*SyncResult, error) {
	resp, err := s.client.TopAnime(ctx, page)
	if err != nil {
		return nil, err
	}
	return s.importBatch(ctx, resp.Data), nil
}

// importBatch runs every item through create-or-patch and fans out
// notifications for the anime that were actually created.
func (s *SyncService) importBatch(ctx context.Context, items []AnimeData) *SyncResult {
	result := &SyncResult{Fetched: len(items)}

	var created []models.Anime
	for _, item := range items {
		anime, wasCreated, err := s.processAnime(ctx, item)
		if err != nil {
			s.logger.Error("failed to import anime", "mal_id", item.MALID, "title", item.Title, "error", err)
			result.Errors = append(result.Errors, fmt.Sprintf("mal_id %d (%s): %v", item.MALID, item.Title, err))
			continue
		}
		if wasCreated {
			result.Created++
			created = append(created, *anime)
		} else {
			result.Updated++
		}
	}

	if len(created) > 0 {
		if err := s.notifyNewAnime(ctx, created); err != nil {
			s.logger.Error("failed to fan out new-anime notifications", "error", err)
			result.Errors = append(result.Errors, fmt.Sprintf("notifications: %v", err))
		}
	}

	return result
}

// processAnime creates the catalog row for an unknown title, or patches
// missing metadata on an existing one. Dedup is by exact title.
func (s *SyncService) processAnime(ctx context.Context, item AnimeData) (*models.Anime, bool, error) {
	existing, err := s.animeRepo.GetByTitle(ctx, item.Title)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	if existing == nil {
		anime := fromAnimeData(item)
		if err := s.animeRepo.Create(ctx, anime); err != nil {
			return nil, false, err
		}
		s.logger.Info("imported anime", "id", anime.ID, "title", anime.Title)
		return anime, true, nil
	}

	patched := false
	if existing.ImageURL == nil {
		if img := imageURL(item); img != nil {
			existing.ImageURL = img
			patched = true
		}
	}
	if existing.Description == nil && item.Synopsis != nil {
		existing.Description = item.Synopsis
		patched = true
	}
	if existing.Episodes == nil && item.Episodes != nil {
		existing.Episodes = item.Episodes
		patched = true
	}
	if existing.Year == nil && item.Year != nil {
		existing.Year = item.Year
		patched = true
	}
	if existing.MALID == nil {
		malID := item.MALID
		existing.MALID = &malID
		patched = true
	}

	if patched {
		if err := s.animeRepo.Update(ctx, existing.ID, existing); err != nil {
			return nil, false, err
		}
	}
	return existing, false, nil
}

// notifyNewAnime tells every user with a non-empty watchlist about the
// freshly imported titles.
func (s *SyncService) notifyNewAnime(ctx context.Context, created []models.Anime) error {
	userIDs, err := s.watchlistRepo.DistinctUserIDs(ctx)
	if err != nil {
		return err
	}
	if len(userIDs) == 0 {
		return nil
	}

	notifications := make([]models.Notification, 0, len(userIDs)*len(created))
	for _, anime := range created {
		animeID := anime.ID
		for _, userID := range userIDs {
			notifications = append(notifications, models.Notification{
				UserID:  userID,
				Type:    models.NotifNewAnime,
				AnimeID: &animeID,
				Title:   "New anime added",
				Message: fmt.Sprintf("%q was added to the catalog", anime.Title),
			})
		}
	}
	return s.notifRepo.CreateBatch(ctx, notifications)
}

// fromAnimeData maps a Jikan entry onto a catalog row
func fromAnimeData(item AnimeData) *models.Anime {
	genres := make([]string, 0, len(item.Genres))
	for _, g := range item.Genres {
		genres = append(genres, g.Name)
	}

	malID := item.MALID
	anime := &models.Anime{
		MALID:       &malID,
		Title:       item.Title,
		AltTitle:    item.TitleEnglish,
		Genre:       strings.Join(genres, ", "),
		Year:        item.Year,
		Episodes:    item.Episodes,
		Status:      item.Status,
		Description: item.Synopsis,
		ImageURL:    imageURL(item),
	}
	return anime
}

func imageURL(item AnimeData) *string {
	if item.Images.JPG.LargeImageURL != "" {
		u := item.Images.JPG.LargeImageURL
		return &u
	}
	if item.Images.JPG.ImageURL != "" {
		u := item.Images.JPG.ImageURL
		return &u
	}
	return nil
}
