package matching

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidateIDs(results []*CandidateResult) []int64 {
	ids := make([]int64, 0, len(results))
	for _, result := range results {
		ids = append(ids, result.Candidate.ID)
	}
	return ids
}

func TestGetPotentialMatchesFiltersThePool(t *testing.T) {
	viewer := testProfile(1, 30, 40.0, -74.0, "guitar", "hiking")
	nearby := testProfile(2, 30, 40.0, -74.0, "guitar")
	alsoNearby := testProfile(3, 28, 40.01, -74.01, "chess")
	hidden := testProfile(4, 30, 40.0, -74.0, "guitar")
	hidden.IsVisible = false
	farAway := testProfile(5, 30, 48.85, 2.35, "guitar")
	alreadySwiped := testProfile(6, 30, 40.0, -74.0, "guitar")

	repo := newFakeRepository(fixedNow)
	profiles := newFakeProfileStore(viewer, nearby, alsoNearby, hidden, farAway, alreadySwiped)
	svc := newTestService(repo, profiles, nil)

	ctx := context.Background()
	require.NoError(t, repo.CreateSwipe(ctx, &SwipeRecord{SwiperID: 1, TargetID: 6, Action: ActionSkip}))

	results, err := svc.GetPotentialMatches(ctx, 1, 20)
	require.NoError(t, err)

	assert.ElementsMatch(t, []int64{2, 3}, candidateIDs(results))
}

func TestGetPotentialMatchesNeverShowsSwipedTargetsAgain(t *testing.T) {
	viewer := testProfile(1, 30, 40.0, -74.0, "guitar")
	liked := testProfile(2, 30, 40.0, -74.0, "guitar")
	skipped := testProfile(3, 30, 40.0, -74.0, "guitar")

	repo := newFakeRepository(fixedNow)
	profiles := newFakeProfileStore(viewer, liked, skipped)
	svc := newTestService(repo, profiles, nil)

	ctx := context.Background()
	require.NoError(t, repo.CreateSwipe(ctx, &SwipeRecord{SwiperID: 1, TargetID: 2, Action: ActionLike}))
	require.NoError(t, repo.CreateSwipe(ctx, &SwipeRecord{SwiperID: 1, TargetID: 3, Action: ActionSkip}))

	results, err := svc.GetPotentialMatches(ctx, 1, 20)
	require.NoError(t, err)

	assert.Empty(t, results)
}

func TestGetPotentialMatchesRespectsAgeWindow(t *testing.T) {
	viewer := testProfile(1, 30, 40.0, -74.0, "guitar")
	inWindow := testProfile(2, 30, 40.0, -74.0, "guitar")
	tooYoung := testProfile(3, 20, 40.0, -74.0, "guitar")
	tooOld := testProfile(4, 50, 40.0, -74.0, "guitar")

	repo := newFakeRepository(fixedNow)
	prefs := DefaultPreferences(1)
	prefs.MinAge = 25
	prefs.MaxAge = 35
	require.NoError(t, repo.SavePreferences(context.Background(), prefs))

	svc := newTestService(repo, newFakeProfileStore(viewer, inWindow, tooYoung, tooOld), nil)

	results, err := svc.GetPotentialMatches(context.Background(), 1, 20)
	require.NoError(t, err)

	assert.Equal(t, []int64{2}, candidateIDs(results))
}

func TestGetPotentialMatchesAgeAndDistanceTogether(t *testing.T) {
	viewer := testProfile(1, 30, 52.52, 13.40, "guitar")

	passes1 := testProfile(2, 30, 52.55, 13.42, "guitar")
	passes2 := testProfile(3, 27, 52.50, 13.38, "chess")
	tooYoung := testProfile(4, 22, 52.52, 13.40, "guitar")
	tooOld := testProfile(5, 44, 52.52, 13.40, "guitar")
	tooFar := testProfile(6, 30, 48.85, 2.35, "guitar")

	repo := newFakeRepository(fixedNow)
	prefs := DefaultPreferences(1)
	prefs.MinAge = 25
	prefs.MaxAge = 35
	prefs.MaxDistanceKm = 20
	require.NoError(t, repo.SavePreferences(context.Background(), prefs))

	svc := newTestService(repo, newFakeProfileStore(viewer, passes1, passes2, tooYoung, tooOld, tooFar), nil)

	results, err := svc.GetPotentialMatches(context.Background(), 1, 20)
	require.NoError(t, err)

	assert.ElementsMatch(t, []int64{2, 3}, candidateIDs(results))
}

func TestGetPotentialMatchesOnlyShowActiveUsers(t *testing.T) {
	viewer := testProfile(1, 30, 40.0, -74.0, "guitar")
	active := testProfile(2, 30, 40.0, -74.0, "guitar")
	stale := testProfile(3, 30, 40.0, -74.0, "guitar")
	stale.LastActive = testNow.Add(-40 * 24 * time.Hour)

	repo := newFakeRepository(fixedNow)
	prefs := DefaultPreferences(1)
	prefs.OnlyShowActiveUsers = true
	require.NoError(t, repo.SavePreferences(context.Background(), prefs))

	svc := newTestService(repo, newFakeProfileStore(viewer, active, stale), nil)

	results, err := svc.GetPotentialMatches(context.Background(), 1, 20)
	require.NoError(t, err)

	assert.Equal(t, []int64{2}, candidateIDs(results))
}

func TestGetPotentialMatchesRequireCommonInterests(t *testing.T) {
	viewer := testProfile(1, 30, 40.0, -74.0, "guitar")
	shared := testProfile(2, 30, 40.0, -74.0, "guitar", "chess")
	disjoint := testProfile(3, 30, 40.0, -74.0, "painting")

	repo := newFakeRepository(fixedNow)
	prefs := DefaultPreferences(1)
	prefs.RequireCommonInterests = true
	require.NoError(t, repo.SavePreferences(context.Background(), prefs))

	svc := newTestService(repo, newFakeProfileStore(viewer, shared, disjoint), nil)

	results, err := svc.GetPotentialMatches(context.Background(), 1, 20)
	require.NoError(t, err)

	require.Equal(t, []int64{2}, candidateIDs(results))
	assert.Equal(t, []string{"guitar"}, results[0].CommonTags)
}

func TestGetPotentialMatchesRanksByScore(t *testing.T) {
	viewer := testProfile(1, 30, 40.0, -74.0, "guitar", "hiking", "chess")
	twoShared := testProfile(2, 30, 40.0, -74.0, "guitar", "hiking")
	oneShared := testProfile(3, 30, 40.0, -74.0, "guitar")
	noneShared := testProfile(4, 30, 40.0, -74.0, "painting")

	repo := newFakeRepository(fixedNow)
	svc := newTestService(repo, newFakeProfileStore(viewer, twoShared, oneShared, noneShared), nil)

	results, err := svc.GetPotentialMatches(context.Background(), 1, 20)
	require.NoError(t, err)

	require.Len(t, results, 3)
	assert.Equal(t, []int64{2, 3, 4}, candidateIDs(results))
	assert.GreaterOrEqual(t, results[0].Score, results[1].Score)
	assert.GreaterOrEqual(t, results[1].Score, results[2].Score)
}

func TestGetPotentialMatchesHonorsLimit(t *testing.T) {
	viewer := testProfile(1, 30, 40.0, -74.0, "guitar")
	repo := newFakeRepository(fixedNow)
	profiles := newFakeProfileStore(
		viewer,
		testProfile(2, 30, 40.0, -74.0, "guitar"),
		testProfile(3, 30, 40.0, -74.0, "guitar"),
		testProfile(4, 30, 40.0, -74.0, "guitar"),
	)
	svc := newTestService(repo, profiles, nil)

	results, err := svc.GetPotentialMatches(context.Background(), 1, 2)
	require.NoError(t, err)

	assert.Len(t, results, 2)
}

func TestGetPotentialMatchesEmptyPoolIsNotAnError(t *testing.T) {
	viewer := testProfile(1, 30, 40.0, -74.0, "guitar")
	repo := newFakeRepository(fixedNow)
	svc := newTestService(repo, newFakeProfileStore(viewer), nil)

	results, err := svc.GetPotentialMatches(context.Background(), 1, 20)
	require.NoError(t, err)

	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestGetPotentialMatchesUnknownViewer(t *testing.T) {
	repo := newFakeRepository(fixedNow)
	svc := newTestService(repo, newFakeProfileStore(), nil)

	_, err := svc.GetPotentialMatches(context.Background(), 1, 20)
	assert.ErrorIs(t, err, ErrProfileNotFound)
}
