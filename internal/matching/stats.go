// internal/matching/stats.go

package matching

import (
	"context"
	"math"
	"time"
)

// streakLookbackDays bounds the swipe-day scan; a streak longer than a year
// is capped rather than paged.
const streakLookbackDays = 365

func (s *service) GetSwipeStats(ctx context.Context, userID int64) (*SwipeStats, error) {
	total, likes, err := s.repo.CountSwipes(ctx, userID)
	if err != nil {
		return nil, err
	}

	matches, err := s.repo.CountMatches(ctx, userID)
	if err != nil {
		return nil, err
	}

	avgQuality, err := s.repo.AverageMatchQuality(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	days, err := s.repo.GetSwipeDays(ctx, userID, now.AddDate(0, 0, -streakLookbackDays))
	if err != nil {
		return nil, err
	}

	return &SwipeStats{
		TotalSwipes:         total,
		TotalLikes:          likes,
		TotalMatches:        matches,
		SwipeStreak:         streakFromDays(days, now),
		AverageMatchQuality: math.Round(avgQuality*100) / 100,
	}, nil
}

// streakFromDays counts consecutive UTC calendar days with at least one
// swipe, walking backward from today. A day without swipes ends the streak,
// so swiping yesterday but not today yields 0.
func streakFromDays(days []time.Time, now time.Time) int {
	if len(days) == 0 {
		return 0
	}

	swiped := make(map[string]bool, len(days))
	for _, day := range days {
		swiped[day.UTC().Format("2006-01-02")] = true
	}

	streak := 0
	for cursor := now.UTC(); swiped[cursor.Format("2006-01-02")]; cursor = cursor.AddDate(0, 0, -1) {
		streak++
	}

	return streak
}
