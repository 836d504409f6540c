// In-memory fakes for the matching engine's stores. They mirror the storage
// semantics the service relies on: unique swipes per directional pair and at
// most one match per canonical pair.

package matching

import (
	"context"
	"sort"
	"sync"
	"time"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

type swipeKey struct{ swiper, target int64 }

type pairKey struct{ a, b int64 }

func newPairKey(a, b int64) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a, b}
}

type fakeRepository struct {
	mu      sync.Mutex
	prefs   map[int64]*SwipePreferences
	swipes  map[swipeKey]*SwipeRecord
	matches map[pairKey]*Match

	nextSwipeID int64
	nextMatchID int64
	now         func() time.Time
}

func newFakeRepository(now func() time.Time) *fakeRepository {
	if now == nil {
		now = time.Now
	}
	return &fakeRepository{
		prefs:   make(map[int64]*SwipePreferences),
		swipes:  make(map[swipeKey]*SwipeRecord),
		matches: make(map[pairKey]*Match),
		now:     now,
	}
}

func (f *fakeRepository) GetPreferences(_ context.Context, userID int64) (*SwipePreferences, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	prefs, ok := f.prefs[userID]
	if !ok {
		return nil, ErrPreferencesNotFound
	}
	copied := *prefs
	return &copied, nil
}

func (f *fakeRepository) SavePreferences(_ context.Context, prefs *SwipePreferences) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	prefs.UpdatedAt = f.now()
	copied := *prefs
	f.prefs[prefs.UserID] = &copied
	return nil
}

func (f *fakeRepository) CreateSwipe(_ context.Context, record *SwipeRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := swipeKey{record.SwiperID, record.TargetID}
	if _, exists := f.swipes[key]; exists {
		return ErrDuplicateSwipe
	}
	f.nextSwipeID++
	record.ID = f.nextSwipeID
	record.CreatedAt = f.now()
	copied := *record
	f.swipes[key] = &copied
	return nil
}

func (f *fakeRepository) GetSwipe(_ context.Context, swiperID, targetID int64) (*SwipeRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.swipes[swipeKey{swiperID, targetID}]
	if !ok {
		return nil, ErrSwipeNotFound
	}
	copied := *record
	return &copied, nil
}

func (f *fakeRepository) GetSwipedTargetIDs(_ context.Context, swiperID int64) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []int64
	for key := range f.swipes {
		if key.swiper == swiperID {
			ids = append(ids, key.target)
		}
	}
	return ids, nil
}

func (f *fakeRepository) CreateMatchIfAbsent(_ context.Context, match *Match) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if match.UserAID > match.UserBID {
		match.UserAID, match.UserBID = match.UserBID, match.UserAID
	}
	key := pairKey{match.UserAID, match.UserBID}
	if _, exists := f.matches[key]; exists {
		return false, nil
	}
	f.nextMatchID++
	match.ID = f.nextMatchID
	match.CreatedAt = f.now()
	copied := *match
	f.matches[key] = &copied
	return true, nil
}

func (f *fakeRepository) GetMatchByPair(_ context.Context, userAID, userBID int64) (*Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	match, ok := f.matches[newPairKey(userAID, userBID)]
	if !ok {
		return nil, ErrMatchNotFound
	}
	copied := *match
	return &copied, nil
}

func (f *fakeRepository) GetUserMatches(_ context.Context, userID int64, limit int) ([]*MatchSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var summaries []*MatchSummary
	for _, match := range f.matches {
		if match.UserAID != userID && match.UserBID != userID {
			continue
		}
		other := match.UserBID
		if match.UserBID == userID {
			other = match.UserAID
		}
		summaries = append(summaries, &MatchSummary{
			MatchID:      match.ID,
			MatchQuality: match.MatchQuality,
			SuperMatch:   match.SuperMatch,
			MatchedAt:    match.CreatedAt,
			MatchedUser:  UserSummary{ID: other},
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		if !summaries[i].MatchedAt.Equal(summaries[j].MatchedAt) {
			return summaries[i].MatchedAt.After(summaries[j].MatchedAt)
		}
		return summaries[i].MatchID > summaries[j].MatchID
	})
	if limit > 0 && len(summaries) > limit {
		summaries = summaries[:limit]
	}
	return summaries, nil
}

func (f *fakeRepository) CountSwipes(_ context.Context, userID int64) (int64, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var total, likes int64
	for key, record := range f.swipes {
		if key.swiper != userID {
			continue
		}
		total++
		if record.Action == ActionLike || record.Action == ActionSuperLike {
			likes++
		}
	}
	return total, likes, nil
}

func (f *fakeRepository) CountMatches(_ context.Context, userID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, match := range f.matches {
		if match.UserAID == userID || match.UserBID == userID {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepository) AverageMatchQuality(_ context.Context, userID int64) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var sum, count float64
	for _, match := range f.matches {
		if match.UserAID == userID || match.UserBID == userID {
			sum += float64(match.MatchQuality)
			count++
		}
	}
	if count == 0 {
		return 0, nil
	}
	return sum / count, nil
}

func (f *fakeRepository) GetSwipeDays(_ context.Context, userID int64, since time.Time) ([]time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := make(map[time.Time]bool)
	for key, record := range f.swipes {
		if key.swiper != userID || record.CreatedAt.Before(since) {
			continue
		}
		ts := record.CreatedAt.UTC()
		day := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
		seen[day] = true
	}
	days := make([]time.Time, 0, len(seen))
	for day := range seen {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })
	return days, nil
}

type fakeProfileStore struct {
	profiles map[int64]*Profile
}

func newFakeProfileStore(profiles ...*Profile) *fakeProfileStore {
	store := &fakeProfileStore{profiles: make(map[int64]*Profile, len(profiles))}
	for _, profile := range profiles {
		store.profiles[profile.ID] = profile
	}
	return store
}

func (f *fakeProfileStore) GetProfile(_ context.Context, userID int64) (*Profile, error) {
	profile, ok := f.profiles[userID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	return profile, nil
}

func (f *fakeProfileStore) ListCandidateProfiles(_ context.Context, viewerID int64, minAge, maxAge int) ([]*Profile, error) {
	var pool []*Profile
	for _, profile := range f.profiles {
		if profile.ID == viewerID || !profile.IsVisible {
			continue
		}
		if profile.Age < minAge || profile.Age > maxAge {
			continue
		}
		pool = append(pool, profile)
	}
	sort.Slice(pool, func(i, j int) bool { return pool[i].ID < pool[j].ID })
	return pool, nil
}

type captureNotifier struct {
	mu     sync.Mutex
	events []*MatchEvent
	err    error
}

func (n *captureNotifier) NotifyMatchCreated(_ context.Context, event *MatchEvent) error {
	if n.err != nil {
		return n.err
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return nil
}

func newTestService(repo *fakeRepository, profiles *fakeProfileStore, notifier Notifier) *service {
	svc := NewService(repo, profiles, notifier).(*service)
	svc.now = fixedNow
	return svc
}

func testProfile(id int64, age int, lat, lng float64, tags ...string) *Profile {
	return &Profile{
		ID:          id,
		DisplayName: "user",
		Age:         age,
		Latitude:    lat,
		Longitude:   lng,
		Interests:   tags,
		LastActive:  testNow,
		IsVisible:   true,
	}
}
