package service

import (
	"context"
	"testing"
	"time"

	"github.com/postpilothq/postpilot/internal/models"
	"github.com/postpilothq/postpilot/internal/scheduler"
	"github.com/postpilothq/postpilot/internal/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSettingsRepo struct {
	settings *models.Settings
}

func (f *fakeSettingsRepo) GetByUserID(ctx context.Context, userID int64) (*models.Settings, bool, error) {
	if f.settings == nil {
		return nil, false, nil
	}
	return f.settings, true, nil
}

func (f *fakeSettingsRepo) Create(ctx context.Context, settings *models.Settings) (int64, error) {
	f.settings = settings
	return 1, nil
}

func (f *fakeSettingsRepo) Update(ctx context.Context, settings *models.Settings, userID int64) error {
	f.settings = settings
	return nil
}

// 2025-01-06 is a Monday.
var plannerMonday = time.Date(2025, time.January, 6, 0, 0, 0, 0, time.UTC)

func generateRequest(commit bool) *transfer.GenerateScheduleRequest {
	return &transfer.GenerateScheduleRequest{
		Config: scheduler.Config{
			StartDate: plannerMonday,
			EndDate:   plannerMonday.AddDate(0, 0, 7),
			Platforms: []string{"twitter"},
		},
		Items: []scheduler.ContentItem{
			{ID: "a", Platforms: []string{"twitter"}},
			{ID: "b", Platforms: []string{"twitter"}},
		},
		Commit: commit,
	}
}

func TestGenerateScheduleWithoutCommitWritesNothing(t *testing.T) {
	repo := newFakePostRepo()
	s := NewPlannerService(repo, &fakeSettingsRepo{})

	entries, ids, err := s.GenerateSchedule(context.Background(), 1, generateRequest(false))
	require.NoError(t, err)

	assert.NotEmpty(t, entries)
	assert.Nil(t, ids)
	assert.Zero(t, repo.batchCalls)
	assert.Empty(t, repo.posts)
}

func TestGenerateScheduleCommitPersistsEntries(t *testing.T) {
	repo := newFakePostRepo()
	s := NewPlannerService(repo, &fakeSettingsRepo{})

	entries, ids, err := s.GenerateSchedule(context.Background(), 1, generateRequest(true))
	require.NoError(t, err)
	require.Len(t, ids, len(entries))

	assert.Equal(t, 1, repo.batchCalls)
	for i, id := range ids {
		post := repo.posts[id]
		require.NotNil(t, post)
		assert.Equal(t, int64(1), post.UserID)
		assert.Equal(t, entries[i].ContentID, post.ContentID)
		assert.Equal(t, entries[i].ScheduledTime, post.ScheduledTime)
		assert.Equal(t, models.PostStatusScheduled, post.Status)
		assert.Equal(t, entries[i].Rationale, post.Metadata["rationale"])
	}
}

func TestGenerateScheduleSeedsOccupiedFromStore(t *testing.T) {
	repo := newFakePostRepo()
	s := NewPlannerService(repo, &fakeSettingsRepo{})
	ctx := context.Background()

	// An existing scheduled post at Monday 9:00 blocks that slot.
	_, err := repo.Create(ctx, nil, &models.ScheduledPost{
		UserID:        1,
		ContentID:     "existing",
		Platform:      "twitter",
		ScheduledTime: plannerMonday.Add(9 * time.Hour),
		Status:        models.PostStatusScheduled,
	})
	require.NoError(t, err)

	req := generateRequest(false)
	req.Config.EndDate = plannerMonday.AddDate(0, 0, 1)
	req.Config.MinGapHours = 2
	req.Items = req.Items[:1]

	entries, _, err := s.GenerateSchedule(ctx, 1, req)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	assert.NotEqual(t, plannerMonday.Add(9*time.Hour), entries[0].ScheduledTime)
}

func TestGenerateScheduleAppliesSettingsDefaults(t *testing.T) {
	repo := newFakePostRepo()
	settings := &fakeSettingsRepo{settings: &models.Settings{
		UserID:          1,
		Timezone:        "UTC",
		MinGapHours:     2,
		DefaultStrategy: string(scheduler.StrategyConcentrated),
	}}
	s := NewPlannerService(repo, settings)

	req := generateRequest(false)
	req.Items[0].Theme = "launch"
	req.Items[1].Theme = "launch"

	entries, _, err := s.GenerateSchedule(context.Background(), 1, req)
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	// Concentrated strategy from settings shows up in the rationale.
	assert.Contains(t, entries[0].Rationale, "launch")
}

func TestGenerateScheduleRejectsInvalidRequests(t *testing.T) {
	s := NewPlannerService(newFakePostRepo(), &fakeSettingsRepo{})
	ctx := context.Background()

	_, _, err := s.GenerateSchedule(ctx, 0, generateRequest(false))
	assert.Error(t, err)

	_, _, err = s.GenerateSchedule(ctx, 1, nil)
	assert.Error(t, err)

	req := generateRequest(false)
	req.Items = nil
	_, _, err = s.GenerateSchedule(ctx, 1, req)
	assert.ErrorIs(t, err, scheduler.ErrNoContentItems)
}

func TestFindOptimalTimeHonorsExistingSchedule(t *testing.T) {
	repo := newFakePostRepo()
	s := NewPlannerService(repo, &fakeSettingsRepo{})
	ctx := context.Background()

	_, err := repo.Create(ctx, nil, &models.ScheduledPost{
		UserID:        1,
		ContentID:     "existing",
		Platform:      "twitter",
		ScheduledTime: plannerMonday.Add(9 * time.Hour),
		Status:        models.PostStatusScheduled,
	})
	require.NoError(t, err)

	slot, err := s.FindOptimalTime(ctx, 1, &transfer.OptimalTimeRequest{
		Platform:  "twitter",
		AfterTime: plannerMonday,
		Config:    &scheduler.Config{MinGapHours: 2},
	})
	require.NoError(t, err)

	assert.Equal(t, plannerMonday.Add(15*time.Hour), slot)
}

func TestFindOptimalTimeRequiresPlatform(t *testing.T) {
	s := NewPlannerService(newFakePostRepo(), &fakeSettingsRepo{})

	_, err := s.FindOptimalTime(context.Background(), 1, &transfer.OptimalTimeRequest{})
	assert.Error(t, err)
}
