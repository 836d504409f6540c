package matching

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// uniqueViolation is the postgres error code the engine relies on for both
// write paths: duplicate swipes and racing match creation.
const uniqueViolation = "23505"

// Repository is the persistence surface of the matching engine. The store is
// expected to enforce UNIQUE(swiper_id, target_id) on swipes and
// UNIQUE(user_a_id, user_b_id) on matches; both write methods lean on those
// constraints instead of in-process locks.
type Repository interface {
	// Preferences
	GetPreferences(ctx context.Context, userID int64) (*SwipePreferences, error)
	SavePreferences(ctx context.Context, prefs *SwipePreferences) error

	// Swipes
	CreateSwipe(ctx context.Context, record *SwipeRecord) error
	GetSwipe(ctx context.Context, swiperID, targetID int64) (*SwipeRecord, error)
	GetSwipedTargetIDs(ctx context.Context, swiperID int64) ([]int64, error)

	// Matches
	CreateMatchIfAbsent(ctx context.Context, match *Match) (bool, error)
	GetMatchByPair(ctx context.Context, userAID, userBID int64) (*Match, error)
	GetUserMatches(ctx context.Context, userID int64, limit int) ([]*MatchSummary, error)

	// Stats
	CountSwipes(ctx context.Context, userID int64) (total, likes int64, err error)
	CountMatches(ctx context.Context, userID int64) (int64, error)
	AverageMatchQuality(ctx context.Context, userID int64) (float64, error)
	GetSwipeDays(ctx context.Context, userID int64, since time.Time) ([]time.Time, error)
}

// ProfileStore is the read-only view of user profiles the engine consumes.
// Profile CRUD belongs to the profile module; the selector only scans.
type ProfileStore interface {
	GetProfile(ctx context.Context, userID int64) (*Profile, error)
	// ListCandidateProfiles returns visible profiles other than the viewer
	// inside the given age window. The remaining filters (distance,
	// activity, common tags, already-swiped) are applied by the selector.
	ListCandidateProfiles(ctx context.Context, viewerID int64, minAge, maxAge int) ([]*Profile, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

// Preference methods

func (r *postgresRepository) GetPreferences(ctx context.Context, userID int64) (*SwipePreferences, error) {
	var prefs SwipePreferences
	query := `
        SELECT user_id, min_age, max_age, max_distance_km, is_visible,
               require_common_interests, only_show_active_users, updated_at
        FROM swipe_preferences
        WHERE user_id = $1
    `

	err := r.db.GetContext(ctx, &prefs, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPreferencesNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get preferences: %w", err)
	}

	return &prefs, nil
}

func (r *postgresRepository) SavePreferences(ctx context.Context, prefs *SwipePreferences) error {
	// Full-row upsert: either every field lands or nothing changes.
	query := `
        INSERT INTO swipe_preferences (
            user_id, min_age, max_age, max_distance_km, is_visible,
            require_common_interests, only_show_active_users
        ) VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (user_id)
        DO UPDATE SET
            min_age = $2, max_age = $3, max_distance_km = $4, is_visible = $5,
            require_common_interests = $6, only_show_active_users = $7,
            updated_at = CURRENT_TIMESTAMP
        RETURNING updated_at
    `

	err := r.db.QueryRowxContext(
		ctx, query,
		prefs.UserID, prefs.MinAge, prefs.MaxAge, prefs.MaxDistanceKm,
		prefs.IsVisible, prefs.RequireCommonInterests, prefs.OnlyShowActiveUsers,
	).Scan(&prefs.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}

	return nil
}

// Swipe methods

func (r *postgresRepository) CreateSwipe(ctx context.Context, record *SwipeRecord) error {
	query := `
        INSERT INTO swipes (swiper_id, target_id, action)
        VALUES ($1, $2, $3)
        RETURNING id, created_at
    `

	err := r.db.QueryRowxContext(
		ctx, query,
		record.SwiperID, record.TargetID, record.Action,
	).Scan(&record.ID, &record.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrDuplicateSwipe
		}
		return fmt.Errorf("create swipe: %w", err)
	}

	return nil
}

func (r *postgresRepository) GetSwipe(ctx context.Context, swiperID, targetID int64) (*SwipeRecord, error) {
	var record SwipeRecord
	query := `
        SELECT id, swiper_id, target_id, action, created_at
        FROM swipes
        WHERE swiper_id = $1 AND target_id = $2
    `

	err := r.db.GetContext(ctx, &record, query, swiperID, targetID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSwipeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get swipe: %w", err)
	}

	return &record, nil
}

func (r *postgresRepository) GetSwipedTargetIDs(ctx context.Context, swiperID int64) ([]int64, error) {
	var ids []int64
	query := `SELECT target_id FROM swipes WHERE swiper_id = $1`

	if err := r.db.SelectContext(ctx, &ids, query, swiperID); err != nil {
		return nil, fmt.Errorf("get swiped targets: %w", err)
	}

	return ids, nil
}

// Match methods

func (r *postgresRepository) CreateMatchIfAbsent(ctx context.Context, match *Match) (bool, error) {
	// Canonical ordering so the unordered pair maps to one unique key.
	if match.UserAID > match.UserBID {
		match.UserAID, match.UserBID = match.UserBID, match.UserAID
	}

	query := `
        INSERT INTO matches (user_a_id, user_b_id, match_quality, super_match)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (user_a_id, user_b_id) DO NOTHING
        RETURNING id, created_at
    `

	err := r.db.QueryRowxContext(
		ctx, query,
		match.UserAID, match.UserBID, match.MatchQuality, match.SuperMatch,
	).Scan(&match.ID, &match.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		// Another writer won the race; the match already exists.
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("create match: %w", err)
	}

	return true, nil
}

func (r *postgresRepository) GetMatchByPair(ctx context.Context, userAID, userBID int64) (*Match, error) {
	if userAID > userBID {
		userAID, userBID = userBID, userAID
	}

	var match Match
	query := `
        SELECT id, user_a_id, user_b_id, match_quality, super_match, created_at
        FROM matches
        WHERE user_a_id = $1 AND user_b_id = $2
    `

	err := r.db.GetContext(ctx, &match, query, userAID, userBID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMatchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get match: %w", err)
	}

	return &match, nil
}

func (r *postgresRepository) GetUserMatches(ctx context.Context, userID int64, limit int) ([]*MatchSummary, error) {
	query := `
        SELECT m.id, m.match_quality, m.super_match, m.created_at,
               CASE WHEN m.user_a_id = $1 THEN m.user_b_id ELSE m.user_a_id END,
               COALESCE(p.display_name, ''),
               COALESCE(p.age, 0)
        FROM matches m
        LEFT JOIN profiles p
               ON p.user_id = CASE WHEN m.user_a_id = $1 THEN m.user_b_id ELSE m.user_a_id END
        WHERE m.user_a_id = $1 OR m.user_b_id = $1
        ORDER BY m.created_at DESC
        LIMIT $2
    `

	rows, err := r.db.QueryxContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("get user matches: %w", err)
	}
	defer rows.Close()

	var matches []*MatchSummary
	for rows.Next() {
		var summary MatchSummary
		err := rows.Scan(
			&summary.MatchID, &summary.MatchQuality, &summary.SuperMatch, &summary.MatchedAt,
			&summary.MatchedUser.ID, &summary.MatchedUser.DisplayName, &summary.MatchedUser.Age,
		)
		if err != nil {
			return nil, fmt.Errorf("scan match summary: %w", err)
		}
		matches = append(matches, &summary)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate matches: %w", rows.Err())
	}

	return matches, nil
}

// Stats methods

func (r *postgresRepository) CountSwipes(ctx context.Context, userID int64) (int64, int64, error) {
	var total, likes int64
	query := `
        SELECT COUNT(*),
               COUNT(*) FILTER (WHERE action IN ($2, $3))
        FROM swipes
        WHERE swiper_id = $1
    `

	err := r.db.QueryRowxContext(ctx, query, userID, ActionLike, ActionSuperLike).Scan(&total, &likes)
	if err != nil {
		return 0, 0, fmt.Errorf("count swipes: %w", err)
	}

	return total, likes, nil
}

func (r *postgresRepository) CountMatches(ctx context.Context, userID int64) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM matches WHERE user_a_id = $1 OR user_b_id = $1`

	if err := r.db.GetContext(ctx, &count, query, userID); err != nil {
		return 0, fmt.Errorf("count matches: %w", err)
	}

	return count, nil
}

func (r *postgresRepository) AverageMatchQuality(ctx context.Context, userID int64) (float64, error) {
	var avg float64
	query := `
        SELECT COALESCE(AVG(match_quality), 0)
        FROM matches
        WHERE user_a_id = $1 OR user_b_id = $1
    `

	if err := r.db.GetContext(ctx, &avg, query, userID); err != nil {
		return 0, fmt.Errorf("average match quality: %w", err)
	}

	return avg, nil
}

func (r *postgresRepository) GetSwipeDays(ctx context.Context, userID int64, since time.Time) ([]time.Time, error) {
	var days []time.Time
	query := `
        SELECT DISTINCT (created_at AT TIME ZONE 'UTC')::date
        FROM swipes
        WHERE swiper_id = $1 AND created_at >= $2
        ORDER BY 1 DESC
    `

	if err := r.db.SelectContext(ctx, &days, query, userID, since); err != nil {
		return nil, fmt.Errorf("get swipe days: %w", err)
	}

	return days, nil
}

type postgresProfileStore struct {
	db *sqlx.DB
}

func NewPostgresProfileStore(db *sqlx.DB) ProfileStore {
	return &postgresProfileStore{db: db}
}

func (s *postgresProfileStore) GetProfile(ctx context.Context, userID int64) (*Profile, error) {
	var profile Profile
	query := `
        SELECT user_id, display_name, age, location_lat, location_lng,
               interests, hobbies, last_active, is_visible
        FROM profiles
        WHERE user_id = $1
    `

	err := s.db.GetContext(ctx, &profile, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	return &profile, nil
}

func (s *postgresProfileStore) ListCandidateProfiles(ctx context.Context, viewerID int64, minAge, maxAge int) ([]*Profile, error) {
	query := `
        SELECT user_id, display_name, age, location_lat, location_lng,
               interests, hobbies, last_active, is_visible
        FROM profiles
        WHERE user_id <> $1
          AND is_visible = TRUE
          AND age BETWEEN $2 AND $3
    `

	rows, err := s.db.QueryxContext(ctx, query, viewerID, minAge, maxAge)
	if err != nil {
		return nil, fmt.Errorf("list candidate profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*Profile
	for rows.Next() {
		var profile Profile
		if err := rows.StructScan(&profile); err != nil {
			return nil, fmt.Errorf("scan candidate profile: %w", err)
		}
		profiles = append(profiles, &profile)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate candidate profiles: %w", rows.Err())
	}

	return profiles, nil
}
