package matching

import (
	"context"
	"errors"
	"fmt"
)

// Product bounds for swipe preferences.
const (
	minAllowedAge    = 13
	maxAllowedAge    = 120
	maxDistanceCapKm = 500.0
)

// DefaultPreferences are what a user gets before they ever save their own.
// They are returned on read but not persisted until the first update.
func DefaultPreferences(userID int64) *SwipePreferences {
	return &SwipePreferences{
		UserID:                 userID,
		MinAge:                 18,
		MaxAge:                 99,
		MaxDistanceKm:          50,
		IsVisible:              true,
		RequireCommonInterests: false,
		OnlyShowActiveUsers:    false,
	}
}

func (s *service) GetPreferences(ctx context.Context, userID int64) (*SwipePreferences, error) {
	prefs, err := s.repo.GetPreferences(ctx, userID)
	if errors.Is(err, ErrPreferencesNotFound) {
		return DefaultPreferences(userID), nil
	}
	if err != nil {
		return nil, err
	}
	return prefs, nil
}

func (s *service) UpdatePreferences(ctx context.Context, userID int64, dto *UpdatePreferencesDTO) (*SwipePreferences, error) {
	if err := validatePreferences(dto); err != nil {
		return nil, err
	}

	// Full replace: the whole validated object is written in one statement,
	// so a row can never hold a partially-applied update.
	prefs := &SwipePreferences{
		UserID:                 userID,
		MinAge:                 dto.MinAge,
		MaxAge:                 dto.MaxAge,
		MaxDistanceKm:          dto.MaxDistanceKm,
		IsVisible:              *dto.IsVisible,
		RequireCommonInterests: *dto.RequireCommonInterests,
		OnlyShowActiveUsers:    *dto.OnlyShowActiveUsers,
	}

	if err := s.repo.SavePreferences(ctx, prefs); err != nil {
		return nil, err
	}

	return prefs, nil
}

func validatePreferences(dto *UpdatePreferencesDTO) error {
	if dto.MinAge < minAllowedAge || dto.MinAge > maxAllowedAge {
		return fmt.Errorf("%w: min_age must be between %d and %d", ErrInvalidPreferences, minAllowedAge, maxAllowedAge)
	}
	if dto.MaxAge < minAllowedAge || dto.MaxAge > maxAllowedAge {
		return fmt.Errorf("%w: max_age must be between %d and %d", ErrInvalidPreferences, minAllowedAge, maxAllowedAge)
	}
	if dto.MinAge > dto.MaxAge {
		return fmt.Errorf("%w: min_age cannot exceed max_age", ErrInvalidPreferences)
	}
	if dto.MaxDistanceKm <= 0 || dto.MaxDistanceKm > maxDistanceCapKm {
		return fmt.Errorf("%w: max_distance_km must be in (0, %.0f]", ErrInvalidPreferences, maxDistanceCapKm)
	}
	if dto.IsVisible == nil || dto.RequireCommonInterests == nil || dto.OnlyShowActiveUsers == nil {
		return fmt.Errorf("%w: all preference fields are required", ErrInvalidPreferences)
	}
	return nil
}
