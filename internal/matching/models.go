package matching

import (
	"time"

	"github.com/lib/pq"
)

// Swipe actions. A swipe is final: one record per (swiper, target) pair,
// never updated, never retracted.
const (
	ActionLike      = "like"
	ActionSkip      = "skip"
	ActionSuperLike = "super_like"
)

// Profile is the read-only slice of a user's data the matching engine needs.
// Profile management lives elsewhere; this package only ever reads it.
type Profile struct {
	ID          int64          `json:"id" db:"user_id"`
	DisplayName string         `json:"display_name" db:"display_name"`
	Age         int            `json:"age" db:"age"`
	Latitude    float64        `json:"latitude" db:"location_lat"`
	Longitude   float64        `json:"longitude" db:"location_lng"`
	Interests   pq.StringArray `json:"interests" db:"interests"`
	Hobbies     pq.StringArray `json:"hobbies" db:"hobbies"`
	LastActive  time.Time      `json:"last_active" db:"last_active"`
	IsVisible   bool           `json:"is_visible" db:"is_visible"`
}

// SwipePreferences control which candidates a user is shown. One row per
// user, created lazily: reads fall back to defaults, writes replace the
// whole row.
type SwipePreferences struct {
	UserID                 int64     `json:"user_id" db:"user_id"`
	MinAge                 int       `json:"min_age" db:"min_age"`
	MaxAge                 int       `json:"max_age" db:"max_age"`
	MaxDistanceKm          float64   `json:"max_distance_km" db:"max_distance_km"`
	IsVisible              bool      `json:"is_visible" db:"is_visible"`
	RequireCommonInterests bool      `json:"require_common_interests" db:"require_common_interests"`
	OnlyShowActiveUsers    bool      `json:"only_show_active_users" db:"only_show_active_users"`
	UpdatedAt              time.Time `json:"updated_at" db:"updated_at"`
}

type SwipeRecord struct {
	ID        int64     `json:"id" db:"id"`
	SwiperID  int64     `json:"swiper_id" db:"swiper_id"`
	TargetID  int64     `json:"target_id" db:"target_id"`
	Action    string    `json:"action" db:"action"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Match is one durable record per mutually-positive pair. UserAID is always
// the smaller id so the unordered pair maps to a single unique key.
type Match struct {
	ID           int64     `json:"id" db:"id"`
	UserAID      int64     `json:"user_a_id" db:"user_a_id"`
	UserBID      int64     `json:"user_b_id" db:"user_b_id"`
	MatchQuality int       `json:"match_quality" db:"match_quality"`
	SuperMatch   bool      `json:"super_match" db:"super_match"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// SwipeStats are derived on read from swipe and match history, never stored.
type SwipeStats struct {
	TotalSwipes         int64   `json:"total_swipes"`
	TotalLikes          int64   `json:"total_likes"`
	TotalMatches        int64   `json:"total_matches"`
	SwipeStreak         int     `json:"swipe_streak"`
	AverageMatchQuality float64 `json:"average_match_quality"`
}

// UserSummary is the compact profile view embedded in candidate and match
// responses.
type UserSummary struct {
	ID          int64  `json:"id" db:"id"`
	DisplayName string `json:"display_name" db:"display_name"`
	Age         int    `json:"age" db:"age"`
}

type MatchSummary struct {
	MatchID      int64       `json:"match_id" db:"match_id"`
	MatchQuality int         `json:"match_quality" db:"match_quality"`
	SuperMatch   bool        `json:"super_match" db:"super_match"`
	MatchedAt    time.Time   `json:"matched_at" db:"matched_at"`
	MatchedUser  UserSummary `json:"matched_user"`
}

type CandidateResult struct {
	Candidate  UserSummary `json:"candidate"`
	Score      int         `json:"score"`
	CommonTags []string    `json:"common_tags"`
}

// SwipeOutcome is what ProcessSwipe returns: the persisted record plus the
// match, if this swipe completed a mutual like.
type SwipeOutcome struct {
	Swipe   *SwipeRecord `json:"swipe"`
	IsMatch bool         `json:"is_match"`
	Match   *Match       `json:"match,omitempty"`
}
