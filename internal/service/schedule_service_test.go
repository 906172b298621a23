package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/postpilothq/postpilot/internal/models"
	"github.com/postpilothq/postpilot/internal/repository"
	"github.com/postpilothq/postpilot/internal/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePostRepo is an in-memory ScheduledPostRepository.
type fakePostRepo struct {
	posts        map[int64]*models.ScheduledPost
	nextID       int64
	createCalls  int
	batchCalls   int
	updateFields map[string]interface{}
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[int64]*models.ScheduledPost), nextID: 1}
}

func (f *fakePostRepo) Create(ctx context.Context, tx *sql.Tx, post *models.ScheduledPost) (int64, error) {
	f.createCalls++
	id := f.nextID
	f.nextID++
	clone := *post
	clone.ID = id
	f.posts[id] = &clone
	return id, nil
}

func (f *fakePostRepo) CreateBatch(ctx context.Context, posts []*models.ScheduledPost) ([]int64, error) {
	f.batchCalls++
	ids := make([]int64, 0, len(posts))
	for _, post := range posts {
		id, _ := f.Create(ctx, nil, post)
		ids = append(ids, id)
	}
	return ids, nil
}

func (f *fakePostRepo) GetByID(ctx context.Context, id int64) (*models.ScheduledPost, error) {
	post, ok := f.posts[id]
	if !ok {
		return nil, nil
	}
	clone := *post
	return &clone, nil
}

func (f *fakePostRepo) ListByUserID(ctx context.Context, userID int64, filter *repository.ScheduledPostFilter) ([]*models.ScheduledPost, error) {
	var out []*models.ScheduledPost
	for _, post := range f.posts {
		if post.UserID != userID {
			continue
		}
		if filter != nil {
			if filter.Platform != "" && post.Platform != filter.Platform {
				continue
			}
			if filter.Status != "" && post.Status != filter.Status {
				continue
			}
			if filter.From != nil && post.ScheduledTime.Before(*filter.From) {
				continue
			}
			if filter.To != nil && post.ScheduledTime.After(*filter.To) {
				continue
			}
		}
		clone := *post
		out = append(out, &clone)
	}
	return out, nil
}

func (f *fakePostRepo) ListScheduledInRange(ctx context.Context, userID int64, from, to time.Time) ([]*models.ScheduledPost, error) {
	status := models.PostStatusScheduled
	return f.ListByUserID(ctx, userID, &repository.ScheduledPostFilter{Status: status, From: &from, To: &to})
}

func (f *fakePostRepo) ListDue(ctx context.Context, before time.Time, limit int) ([]*models.ScheduledPost, error) {
	var out []*models.ScheduledPost
	for _, post := range f.posts {
		if post.Status == models.PostStatusScheduled && !post.ScheduledTime.After(before) {
			clone := *post
			out = append(out, &clone)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakePostRepo) Update(ctx context.Context, id int64, fields map[string]interface{}) error {
	f.updateFields = fields
	post := f.posts[id]
	if t, ok := fields["scheduled_time"].(time.Time); ok {
		post.ScheduledTime = t
	}
	if s, ok := fields["status"].(string); ok {
		post.Status = s
	}
	if c, ok := fields["caption"].(string); ok {
		post.Caption = c
	}
	return nil
}

func (f *fakePostRepo) UpdateStatus(ctx context.Context, status string, postID int64) error {
	if post, ok := f.posts[postID]; ok {
		post.Status = status
	}
	return nil
}

func (f *fakePostRepo) CheckByUserID(ctx context.Context, postID, userID int64) (bool, error) {
	post, ok := f.posts[postID]
	return ok && post.UserID == userID, nil
}

func validPost(userID int64) *models.ScheduledPost {
	return &models.ScheduledPost{
		UserID:        userID,
		ContentID:     "content-1",
		Platform:      models.PlatformTwitter,
		ScheduledTime: time.Date(2025, time.January, 6, 9, 0, 0, 0, time.UTC),
	}
}

func TestSchedulePostDefaultsToDraft(t *testing.T) {
	repo := newFakePostRepo()
	s := NewScheduleService(repo)

	id, err := s.SchedulePost(context.Background(), validPost(1))
	require.NoError(t, err)

	assert.Equal(t, models.PostStatusDraft, repo.posts[id].Status)
	assert.Equal(t, "post", repo.posts[id].ContentType)
}

func TestSchedulePostValidation(t *testing.T) {
	repo := newFakePostRepo()
	s := NewScheduleService(repo)
	ctx := context.Background()

	cases := []*models.ScheduledPost{
		nil,
		{ContentID: "c", Platform: "twitter", ScheduledTime: time.Now()},
		{UserID: 1, Platform: "twitter", ScheduledTime: time.Now()},
		{UserID: 1, ContentID: "c", ScheduledTime: time.Now()},
		{UserID: 1, ContentID: "c", Platform: "myspace", ScheduledTime: time.Now()},
		{UserID: 1, ContentID: "c", Platform: "twitter"},
	}
	for _, post := range cases {
		_, err := s.SchedulePost(ctx, post)
		assert.Error(t, err)
	}
	assert.Zero(t, repo.createCalls)
}

func TestBulkScheduleEmptyInputSkipsStore(t *testing.T) {
	repo := newFakePostRepo()
	s := NewScheduleService(repo)

	ids, err := s.BulkSchedule(context.Background(), nil)
	require.NoError(t, err)

	assert.Empty(t, ids)
	assert.NotNil(t, ids)
	assert.Zero(t, repo.batchCalls)
}

func TestBulkScheduleRejectsWholeBatchOnOneBadPost(t *testing.T) {
	repo := newFakePostRepo()
	s := NewScheduleService(repo)

	bad := validPost(1)
	bad.Platform = ""
	_, err := s.BulkSchedule(context.Background(), []*models.ScheduledPost{validPost(1), bad})

	assert.Error(t, err)
	assert.Zero(t, repo.batchCalls)
}

func TestBulkScheduleReturnsIDsInOrder(t *testing.T) {
	repo := newFakePostRepo()
	s := NewScheduleService(repo)

	first := validPost(1)
	second := validPost(1)
	second.ContentID = "content-2"

	ids, err := s.BulkSchedule(context.Background(), []*models.ScheduledPost{first, second})
	require.NoError(t, err)
	require.Len(t, ids, 2)

	assert.Equal(t, "content-1", repo.posts[ids[0]].ContentID)
	assert.Equal(t, "content-2", repo.posts[ids[1]].ContentID)
}

func TestUpdateScheduledPostNotFound(t *testing.T) {
	s := NewScheduleService(newFakePostRepo())

	newTime := time.Now().Add(time.Hour)
	err := s.UpdateScheduledPost(context.Background(), 1, 42, &transfer.ScheduledPostUpdate{ScheduledTime: &newTime})

	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestUpdateScheduledPostWrongUser(t *testing.T) {
	repo := newFakePostRepo()
	s := NewScheduleService(repo)

	id, err := s.SchedulePost(context.Background(), validPost(1))
	require.NoError(t, err)

	caption := "hijacked"
	err = s.UpdateScheduledPost(context.Background(), 2, id, &transfer.ScheduledPostUpdate{Caption: &caption})
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestUpdateScheduledPostTerminalKeepsTime(t *testing.T) {
	repo := newFakePostRepo()
	s := NewScheduleService(repo)
	ctx := context.Background()

	post := validPost(1)
	post.Status = models.PostStatusScheduled
	id, err := s.SchedulePost(ctx, post)
	require.NoError(t, err)

	require.NoError(t, repo.UpdateStatus(ctx, models.PostStatusPosted, id))

	newTime := time.Now().Add(48 * time.Hour)
	err = s.UpdateScheduledPost(ctx, 1, id, &transfer.ScheduledPostUpdate{ScheduledTime: &newTime})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrPostNotFound)

	// Non-scheduling fields stay editable.
	caption := "updated caption"
	err = s.UpdateScheduledPost(ctx, 1, id, &transfer.ScheduledPostUpdate{Caption: &caption})
	require.NoError(t, err)
	assert.Equal(t, caption, repo.posts[id].Caption)
}

func TestUpdateScheduledPostMergesFields(t *testing.T) {
	repo := newFakePostRepo()
	s := NewScheduleService(repo)
	ctx := context.Background()

	id, err := s.SchedulePost(ctx, validPost(1))
	require.NoError(t, err)

	newTime := time.Date(2025, time.January, 8, 12, 0, 0, 0, time.UTC)
	status := models.PostStatusScheduled
	err = s.UpdateScheduledPost(ctx, 1, id, &transfer.ScheduledPostUpdate{
		ScheduledTime: &newTime,
		Status:        &status,
	})
	require.NoError(t, err)

	assert.Equal(t, newTime, repo.posts[id].ScheduledTime)
	assert.Equal(t, status, repo.posts[id].Status)
	assert.Len(t, repo.updateFields, 2)
}

func TestCancelScheduledPost(t *testing.T) {
	repo := newFakePostRepo()
	s := NewScheduleService(repo)
	ctx := context.Background()

	id, err := s.SchedulePost(ctx, validPost(1))
	require.NoError(t, err)

	require.NoError(t, s.CancelScheduledPost(ctx, 1, id))
	assert.Equal(t, models.PostStatusCancelled, repo.posts[id].Status)

	assert.ErrorIs(t, s.CancelScheduledPost(ctx, 1, 99), ErrPostNotFound)
}

func TestGetScheduleSummary(t *testing.T) {
	repo := newFakePostRepo()
	s := NewScheduleService(repo)
	ctx := context.Background()

	future := time.Now().Add(24 * time.Hour)
	past := time.Now().Add(-24 * time.Hour)

	seed := []*models.ScheduledPost{
		{UserID: 1, ContentID: "a", Platform: "twitter", ScheduledTime: future, Status: models.PostStatusScheduled},
		{UserID: 1, ContentID: "b", Platform: "twitter", ScheduledTime: past, Status: models.PostStatusPosted},
		{UserID: 1, ContentID: "c", Platform: "linkedin", ScheduledTime: future, Status: models.PostStatusScheduled},
		{UserID: 1, ContentID: "d", Platform: "instagram", ScheduledTime: past, Status: models.PostStatusScheduled},
		{UserID: 2, ContentID: "e", Platform: "twitter", ScheduledTime: future, Status: models.PostStatusScheduled},
	}
	for _, post := range seed {
		_, err := repo.Create(ctx, nil, post)
		require.NoError(t, err)
	}

	summary, err := s.GetScheduleSummary(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 2, summary.ByPlatform["twitter"])
	assert.Equal(t, 1, summary.ByPlatform["linkedin"])
	assert.Equal(t, 3, summary.ByStatus[models.PostStatusScheduled])
	assert.Equal(t, 1, summary.ByStatus[models.PostStatusPosted])

	// Upcoming counts only future posts still in scheduled status.
	assert.Equal(t, 2, summary.Upcoming)
}
