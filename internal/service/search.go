package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"entangl/internal/cache"
	"entangl/internal/models"
	"entangl/internal/repository"
)

// Search ranking weights. Username matches dominate display name matches at
// every tier, and a tier never outranks the one above it regardless of
// follower count.
const (
	scoreUsernameExact     = 100
	scoreUsernamePrefix    = 50
	scoreUsernameSubstring = 10
	scoreDisplayExact      = 80
	scoreDisplayPrefix     = 40
	scoreDisplaySubstring  = 5
	scoreVerifiedBonus     = 20
)

// searchCandidateFactor widens the DB candidate pull relative to the page
// size so ranking operates on a meaningful pool.
const searchCandidateFactor = 5

// ScoreUser computes the relevance score of a candidate for a query. It is a
// pure function so ranking can be tested without a database. The query is
// expected to be lowercased and trimmed by the caller.
func ScoreUser(query string, u *models.User) float64 {
	username := strings.ToLower(u.Username)
	display := strings.ToLower(u.DisplayName)

	var score float64
	switch {
	case username == query:
		score += scoreUsernameExact
	case strings.HasPrefix(username, query):
		score += scoreUsernamePrefix
	case strings.Contains(username, query):
		score += scoreUsernameSubstring
	}
	switch {
	case display != "" && display == query:
		score += scoreDisplayExact
	case display != "" && strings.HasPrefix(display, query):
		score += scoreDisplayPrefix
	case display != "" && strings.Contains(display, query):
		score += scoreDisplaySubstring
	}

	if u.Verified {
		score += scoreVerifiedBonus
	}
	score += float64(u.FollowersCount) / 100.0

	return score
}

// SearchService ranks user search results.
type SearchService struct {
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
}

// NewSearchService returns a new SearchService.
func NewSearchService(userRepo repository.UserRepository, followRepo repository.FollowRepository) *SearchService {
	return &SearchService{userRepo: userRepo, followRepo: followRepo}
}

// SearchUsers returns up to limit users matching the term, ordered by
// descending relevance score. An authenticated viewer (non-zero viewerID)
// gets the viewer-relative follow status attached to each result. The ranked
// page is cached per term; the annotation is applied per viewer afterwards.
func (s *SearchService) SearchUsers(ctx context.Context, viewerID uint, term string, limit int) ([]models.User, error) {
	query := strings.ToLower(strings.TrimSpace(term))
	if query == "" {
		return nil, models.NewValidationError("Search term is required")
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	var candidates []models.User
	key := cache.SearchKey(fmt.Sprintf("%s:%d", query, limit))
	err := cache.Aside(ctx, key, &candidates, cache.SearchTTL, func() error {
		fetched, err := s.userRepo.SearchCandidates(ctx, query, limit*searchCandidateFactor)
		if err != nil {
			return err
		}

		scores := make(map[uint]float64, len(fetched))
		for i := range fetched {
			scores[fetched[i].ID] = ScoreUser(query, &fetched[i])
		}

		sort.SliceStable(fetched, func(i, j int) bool {
			si, sj := scores[fetched[i].ID], scores[fetched[j].ID]
			if si != sj {
				return si > sj
			}
			return fetched[i].ID < fetched[j].ID
		})

		if len(fetched) > limit {
			fetched = fetched[:limit]
		}
		candidates = fetched
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := annotateFollowStatus(ctx, s.followRepo, viewerID, candidates); err != nil {
		return nil, err
	}
	return candidates, nil
}
