// internal/matching/candidates.go

package matching

import (
	"context"
	"math/rand"
	"sort"
	"time"
)

// activeWindow is how recently a candidate must have been seen when the
// viewer enables only_show_active_users.
const activeWindow = 30 * 24 * time.Hour

type scoredCandidate struct {
	profile    *Profile
	score      int
	commonTags []string
	tiebreak   float64
}

func (s *service) GetPotentialMatches(ctx context.Context, userID int64, limit int) ([]*CandidateResult, error) {
	viewer, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	prefs, err := s.GetPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}

	// No target is ever shown twice, whatever the earlier action was.
	swipedIDs, err := s.repo.GetSwipedTargetIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	excluded := make(map[int64]bool, len(swipedIDs)+1)
	excluded[userID] = true
	for _, id := range swipedIDs {
		excluded[id] = true
	}

	pool, err := s.profiles.ListCandidateProfiles(ctx, userID, prefs.MinAge, prefs.MaxAge)
	if err != nil {
		return nil, err
	}

	now := s.now()
	// Fresh source per request: repeated calls with identical pools still
	// get varied tie ordering, while ordering within one request is stable.
	rng := rand.New(rand.NewSource(now.UnixNano()))

	scored := make([]*scoredCandidate, 0, len(pool))
	for _, candidate := range pool {
		if !s.passesFilters(viewer, prefs, candidate, excluded, now) {
			continue
		}
		scored = append(scored, &scoredCandidate{
			profile:    candidate,
			score:      Score(viewer, prefs, candidate),
			commonTags: CommonTags(viewer, candidate),
			tiebreak:   rng.Float64(),
		})
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		if !scored[i].profile.LastActive.Equal(scored[j].profile.LastActive) {
			return scored[i].profile.LastActive.After(scored[j].profile.LastActive)
		}
		return scored[i].tiebreak < scored[j].tiebreak
	})

	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}

	// An empty page is a valid outcome: the pool is exhausted, not broken.
	results := make([]*CandidateResult, 0, len(scored))
	for _, sc := range scored {
		results = append(results, &CandidateResult{
			Candidate: UserSummary{
				ID:          sc.profile.ID,
				DisplayName: sc.profile.DisplayName,
				Age:         sc.profile.Age,
			},
			Score:      sc.score,
			CommonTags: sc.commonTags,
		})
	}

	RecordCandidatesReturned(len(results))

	return results, nil
}

func (s *service) passesFilters(viewer *Profile, prefs *SwipePreferences, candidate *Profile, excluded map[int64]bool, now time.Time) bool {
	if excluded[candidate.ID] {
		return false
	}
	if !candidate.IsVisible {
		return false
	}
	if candidate.Age < prefs.MinAge || candidate.Age > prefs.MaxAge {
		return false
	}
	distance := haversineKm(viewer.Latitude, viewer.Longitude, candidate.Latitude, candidate.Longitude)
	if distance > prefs.MaxDistanceKm {
		return false
	}
	if prefs.OnlyShowActiveUsers && now.Sub(candidate.LastActive) > activeWindow {
		return false
	}
	if prefs.RequireCommonInterests && len(CommonTags(viewer, candidate)) == 0 {
		return false
	}
	return true
}
