// internal/matching/detector.go
// Mutual-like detection and exactly-once match creation.

package matching

import (
	"context"
	"errors"
	"log"
	"math"
)

// detectMatch runs after a positive swipe swiperID -> targetID has been
// persisted. It returns (nil, nil) when there is no reciprocal positive
// swipe. When both directions exist it creates the match exactly once: two
// request handlers completing the same mutual like concurrently both land
// here, the storage unique constraint on the canonical pair picks the
// winner, and the loser returns the already-created match as success.
func (s *service) detectMatch(ctx context.Context, swiperID, targetID int64, action string) (*Match, error) {
	reverse, err := s.repo.GetSwipe(ctx, targetID, swiperID)
	if errors.Is(err, ErrSwipeNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !isPositiveAction(reverse.Action) {
		return nil, nil
	}

	swiper, err := s.profiles.GetProfile(ctx, swiperID)
	if err != nil {
		return nil, err
	}
	target, err := s.profiles.GetProfile(ctx, targetID)
	if err != nil {
		return nil, err
	}

	swiperPrefs, err := s.GetPreferences(ctx, swiperID)
	if err != nil {
		return nil, err
	}
	targetPrefs, err := s.GetPreferences(ctx, targetID)
	if err != nil {
		return nil, err
	}

	// The proximity factor depends on each viewer's own distance
	// preference, so the two directional scores differ; quality is their
	// average.
	quality := int(math.Round(float64(Score(swiper, swiperPrefs, target)+Score(target, targetPrefs, swiper)) / 2))

	match := &Match{
		UserAID:      swiperID,
		UserBID:      targetID,
		MatchQuality: quality,
		SuperMatch:   action == ActionSuperLike || reverse.Action == ActionSuperLike,
	}

	created, err := s.repo.CreateMatchIfAbsent(ctx, match)
	if err != nil {
		return nil, err
	}
	if !created {
		// Lost the race. Report success with the existing match.
		return s.repo.GetMatchByPair(ctx, swiperID, targetID)
	}

	RecordMatch(match.SuperMatch)
	RecordMatchQuality(match.MatchQuality)

	// Only the creating writer notifies, and delivery failure never rolls
	// back the match.
	event := newMatchEvent(match, swiper, target)
	if err := s.notifier.NotifyMatchCreated(ctx, event); err != nil {
		log.Printf("match %d: notification failed: %v", match.ID, err)
	}

	return match, nil
}

func isPositiveAction(action string) bool {
	return action == ActionLike || action == ActionSuperLike
}
