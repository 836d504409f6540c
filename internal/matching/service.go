// internal/matching/service.go

package matching

import (
	"context"
	"errors"
	"time"
)

// Service is the matching engine's public surface. The authenticated user is
// always an explicit userID parameter; nothing here reads ambient state.
type Service interface {
	GetPotentialMatches(ctx context.Context, userID int64, limit int) ([]*CandidateResult, error)
	ProcessSwipe(ctx context.Context, userID, targetID int64, action string) (*SwipeOutcome, error)
	GetUserMatches(ctx context.Context, userID int64, limit int) ([]*MatchSummary, error)
	GetPreferences(ctx context.Context, userID int64) (*SwipePreferences, error)
	UpdatePreferences(ctx context.Context, userID int64, dto *UpdatePreferencesDTO) (*SwipePreferences, error)
	GetSwipeStats(ctx context.Context, userID int64) (*SwipeStats, error)
}

type service struct {
	repo     Repository
	profiles ProfileStore
	notifier Notifier
	now      func() time.Time
}

func NewService(repo Repository, profiles ProfileStore, notifier Notifier) Service {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &service{
		repo:     repo,
		profiles: profiles,
		notifier: notifier,
		now:      time.Now,
	}
}

func (s *service) ProcessSwipe(ctx context.Context, userID, targetID int64, action string) (*SwipeOutcome, error) {
	if userID == targetID {
		return nil, ErrSelfSwipe
	}
	if action != ActionLike && action != ActionSkip && action != ActionSuperLike {
		return nil, ErrInvalidAction
	}

	if _, err := s.profiles.GetProfile(ctx, targetID); err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return nil, ErrTargetNotFound
		}
		return nil, err
	}

	record := &SwipeRecord{
		SwiperID: userID,
		TargetID: targetID,
		Action:   action,
	}

	// The unique constraint on (swiper_id, target_id) is what makes this
	// idempotent under concurrent retries; a second attempt surfaces as
	// ErrDuplicateSwipe with no second row written.
	if err := s.repo.CreateSwipe(ctx, record); err != nil {
		return nil, err
	}

	RecordSwipe(action)

	outcome := &SwipeOutcome{Swipe: record}
	if !isPositiveAction(action) {
		return outcome, nil
	}

	match, err := s.detectMatch(ctx, userID, targetID, action)
	if err != nil {
		return nil, err
	}
	if match != nil {
		outcome.IsMatch = true
		outcome.Match = match
	}

	return outcome, nil
}

func (s *service) GetUserMatches(ctx context.Context, userID int64, limit int) ([]*MatchSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.GetUserMatches(ctx, userID, limit)
}
