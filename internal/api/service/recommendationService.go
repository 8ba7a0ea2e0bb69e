package service

import (
	"context"
	"math"
	"sort"
	"strings"

	"animehub/internal/api/dto"
	"animehub/internal/api/models"
	"animehub/internal/api/repository"
	"animehub/internal/cache"
)

const (
	topGenreCount       = 5
	friendRatingFloor   = 7
	candidateFetchLimit = 100
	maxStoredEntries    = 25
	defaultListLimit    = 12
)

type RecommendationService interface {
	// Get returns the user's stored recommendations, computing them first if
	// the user has none. Results are capped at limit entries, stored-score
	// descending.
	Get(ctx context.Context, userID string, limit int) ([]dto.RecommendationEntryResponse, error)
	// Refresh always recomputes and fully replaces the user's stored set.
	Refresh(ctx context.Context, userID string) (*dto.RefreshSummaryResponse, error)
}

type recommendationService struct {
	recRepo    repository.RecommendationRepository
	ratingRepo repository.RatingRepository
	friendRepo repository.FriendshipRepository
	animeRepo  AnimeFinder
	cache      *cache.RecommendationCache // optional, nil disables caching
}

// AnimeFinder is the slice of the anime repository the scorer needs.
type AnimeFinder interface {
	FindByGenres(ctx context.Context, genres []string, excludeIDs []int64, limit int) ([]models.Anime, error)
}

func NewRecommendationService(
	recRepo repository.RecommendationRepository,
	ratingRepo repository.RatingRepository,
	friendRepo repository.FriendshipRepository,
	animeRepo AnimeFinder,
	recCache *cache.RecommendationCache,
) RecommendationService {
	return &recommendationService{
		recRepo:    recRepo,
		ratingRepo: ratingRepo,
		friendRepo: friendRepo,
		animeRepo:  animeRepo,
		cache:      recCache,
	}
}

// reasonSet is the closed set of reason tags a candidate can accumulate.
type reasonSet uint8

const (
	reasonFriendRating reasonSet = 1 << iota
	reasonGenre
)

func (s reasonSet) String() string {
	tags := make([]string, 0, 2)
	if s&reasonFriendRating != 0 {
		tags = append(tags, models.ReasonFriendRating)
	}
	if s&reasonGenre != 0 {
		tags = append(tags, models.ReasonGenre)
	}
	return strings.Join(tags, ",")
}

type scoredCandidate struct {
	animeID int64
	score   float64
	reasons reasonSet
}

// scoringRun carries the intermediate state of one recompute.
type scoringRun struct {
	ratingCount int
	friendCount int
	meanRating  float64
	topGenres   []string
	entries     []models.Recommendation
}

func (s *recommendationService) Get(ctx context.Context, userID string, limit int) ([]dto.RecommendationEntryResponse, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	if s.cache != nil {
		var cached []dto.RecommendationEntryResponse
		if ok := s.cache.Get(ctx, userID, limit, &cached); ok {
			return cached, nil
		}
	}

	count, err := s.recRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		if _, err := s.recompute(ctx, userID); err != nil {
			return nil, err
		}
	}

	entries, err := s.recRepo.GetByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.RecommendationEntryResponse, 0, len(entries))
	for i := range entries {
		responses = append(responses, dto.FromModelToRecommendationEntryResponse(&entries[i]))
	}

	if s.cache != nil {
		s.cache.Set(ctx, userID, limit, responses)
	}

	return responses, nil
}

func (s *recommendationService) Refresh(ctx context.Context, userID string) (*dto.RefreshSummaryResponse, error) {
	run, err := s.recompute(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, userID)
	}

	return &dto.RefreshSummaryResponse{
		Count: len(run.entries),
		BasedOn: dto.RefreshBasedOn{
			Ratings:    run.ratingCount,
			Friends:    run.friendCount,
			MeanRating: run.meanRating,
			TopGenres:  run.topGenres,
		},
	}, nil
}

// recompute runs the full scoring pass and replaces the user's stored set.
func (s *recommendationService) recompute(ctx context.Context, userID string) (*scoringRun, error) {
	// Step 1: genre preference weights from the user's own ratings.
	ratings, err := s.ratingRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}

	genreWeights := make(map[string]float64)
	ratingSum := 0
	for i := range ratings {
		ratingSum += ratings[i].Rating
		for _, token := range strings.Split(ratings[i].Anime.Genre, ",") {
			token = strings.TrimSpace(token)
			if token == "" {
				continue
			}
			genreWeights[token] += float64(ratings[i].Rating) / 10
		}
	}

	meanRating := 5.0
	if len(ratings) > 0 {
		meanRating = float64(ratingSum) / float64(len(ratings))
	}

	// Step 2: top genres by accumulated weight, genre name breaking ties.
	topGenres := topGenresByWeight(genreWeights, topGenreCount)

	// Step 3: accepted friend edges resolved to a friend id set.
	edges, err := s.friendRepo.GetAcceptedByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	friendSet := make(map[string]struct{}, len(edges))
	friendIDs := make([]string, 0, len(edges))
	for i := range edges {
		friendID := edges[i].FriendID(userID)
		if friendID == userID {
			// self-referential edge, should never exist
			continue
		}
		if _, seen := friendSet[friendID]; seen {
			continue
		}
		friendSet[friendID] = struct{}{}
		friendIDs = append(friendIDs, friendID)
	}

	ratedIDs, err := s.ratingRepo.GetRatedAnimeIDs(userID)
	if err != nil {
		return nil, err
	}

	// Step 4: friend-sourced candidates.
	friendRatings, err := s.ratingRepo.GetFriendHighRatings(friendIDs, friendRatingFloor, ratedIDs, candidateFetchLimit)
	if err != nil {
		return nil, err
	}

	// Step 5: genre-sourced candidates.
	genreCandidates, err := s.animeRepo.FindByGenres(ctx, topGenres, ratedIDs, candidateFetchLimit)
	if err != nil {
		return nil, err
	}

	// Step 6: aggregate stats over the union of surfaced anime ids.
	idSet := make(map[int64]struct{})
	for i := range friendRatings {
		idSet[friendRatings[i].AnimeID] = struct{}{}
	}
	for i := range genreCandidates {
		idSet[genreCandidates[i].ID] = struct{}{}
	}
	unionIDs := make([]int64, 0, len(idSet))
	for id := range idSet {
		unionIDs = append(unionIDs, id)
	}
	aggregates, err := s.ratingRepo.GetAggregates(unionIDs)
	if err != nil {
		return nil, err
	}

	// Steps 7-9: score both paths, merging by anime id. Merged candidates sum
	// their path scores and union their reason tags.
	candidates := make(map[int64]*scoredCandidate)
	merge := func(animeID int64, score float64, reason reasonSet) {
		c, ok := candidates[animeID]
		if !ok {
			c = &scoredCandidate{animeID: animeID}
			candidates[animeID] = c
		}
		c.score += score
		c.reasons |= reason
	}

	for i := range friendRatings {
		fr := &friendRatings[i]
		agg := aggregates[fr.AnimeID]
		base := 40 + float64(fr.Rating-5)*5
		popularityBonus := math.Min(20, math.Max(0, float64(agg.Count)/10))
		// Literal arithmetic from the defined behavior: avg/10*10, not avg.
		ratingBonus := math.Max(0, agg.Average/10*10)
		merge(fr.AnimeID, base+popularityBonus+ratingBonus, reasonFriendRating)
	}

	for i := range genreCandidates {
		a := &genreCandidates[i]
		agg := aggregates[a.ID]
		base := 25.0
		popularityBonus := math.Min(15, math.Max(0, float64(agg.Count)/15))
		ratingBonus := math.Max(0, agg.Average/10*8)
		merge(a.ID, base+popularityBonus+ratingBonus, reasonGenre)
	}

	// Step 10: order by summed score, anime id breaking ties for determinism.
	scored := make([]*scoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		scored = append(scored, c)
	}
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].animeID < scored[j].animeID
	})

	if len(scored) > maxStoredEntries {
		scored = scored[:maxStoredEntries]
	}

	entries := make([]models.Recommendation, 0, len(scored))
	for _, c := range scored {
		// The normalization is deliberately a clamp, not a rescale: the /100*100
		// round-trip is the defined behavior and must not be simplified away.
		finalScore := math.Min(100, math.Round(c.score/100*100))
		entries = append(entries, models.Recommendation{
			UserID:  userID,
			AnimeID: c.animeID,
			Score:   int(finalScore),
			Reason:  c.reasons.String(),
		})
	}

	// Step 11: replace-the-set. Delete and insert run in one transaction so a
	// failed run never leaves the user with a half-written set.
	if err := s.recRepo.ReplaceForUser(ctx, userID, entries); err != nil {
		return nil, err
	}

	return &scoringRun{
		ratingCount: len(ratings),
		friendCount: len(friendIDs),
		meanRating:  meanRating,
		topGenres:   topGenres,
		entries:     entries,
	}, nil
}

// topGenresByWeight returns up to n genres sorted by descending weight, name
// ascending on ties.
func topGenresByWeight(weights map[string]float64, n int) []string {
	genres := make([]string, 0, len(weights))
	for g := range weights {
		genres = append(genres, g)
	}
	sort.Slice(genres, func(i, j int) bool {
		if weights[genres[i]] != weights[genres[j]] {
			return weights[genres[i]] > weights[genres[j]]
		}
		return genres[i] < genres[j]
	})
	if len(genres) > n {
		genres = genres[:n]
	}
	return genres
}
