// internal/matching/dto.go
package matching

// DTOs for API requests

type SwipeRequestDTO struct {
	TargetID int64  `json:"target_id" validate:"required"`
	Action   string `json:"action" validate:"required,oneof=like skip super_like"`
}

// UpdatePreferencesDTO carries a full replacement preference set. The bool
// fields are pointers so a missing field fails validation instead of
// silently defaulting to false: partial patches are not supported.
type UpdatePreferencesDTO struct {
	MinAge                 int     `json:"min_age" validate:"required,min=13,max=120"`
	MaxAge                 int     `json:"max_age" validate:"required,min=13,max=120"`
	MaxDistanceKm          float64 `json:"max_distance_km" validate:"required,gt=0,lte=500"`
	IsVisible              *bool   `json:"is_visible" validate:"required"`
	RequireCommonInterests *bool   `json:"require_common_interests" validate:"required"`
	OnlyShowActiveUsers    *bool   `json:"only_show_active_users" validate:"required"`
}
