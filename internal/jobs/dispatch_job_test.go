package job

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/postpilothq/postpilot/internal/models"
	"github.com/postpilothq/postpilot/internal/queue"
	"github.com/postpilothq/postpilot/internal/repository"
	"github.com/stretchr/testify/assert"
)

// fakeDueRepo serves a canned due list; the embedded interface covers the
// methods the dispatcher never touches.
type fakeDueRepo struct {
	repository.ScheduledPostRepository
	due []*models.ScheduledPost
	err error
}

func (f *fakeDueRepo) ListDue(ctx context.Context, before time.Time, limit int) ([]*models.ScheduledPost, error) {
	return f.due, f.err
}

type fakeEnqueuer struct {
	enqueued []int64
	failFor  map[int64]error
}

func (f *fakeEnqueuer) EnqueuePost(payload queue.PublishPostPayload, delay time.Duration) error {
	if err, ok := f.failFor[payload.PostID]; ok {
		return err
	}
	f.enqueued = append(f.enqueued, payload.PostID)
	return nil
}

func TestDispatchDuePostsEnqueuesEachDuePost(t *testing.T) {
	repo := &fakeDueRepo{due: []*models.ScheduledPost{{ID: 1}, {ID: 2}, {ID: 3}}}
	enq := &fakeEnqueuer{}

	d := &DispatchJob{sp: repo, enqueue: enq}
	d.DispatchDuePosts()

	assert.Equal(t, []int64{1, 2, 3}, enq.enqueued)
}

func TestDispatchDuePostsContinuesPastEnqueueErrors(t *testing.T) {
	repo := &fakeDueRepo{due: []*models.ScheduledPost{{ID: 1}, {ID: 2}}}
	enq := &fakeEnqueuer{failFor: map[int64]error{1: errors.New("redis down")}}

	d := &DispatchJob{sp: repo, enqueue: enq}
	d.DispatchDuePosts()

	assert.Equal(t, []int64{2}, enq.enqueued)
}

func TestDispatchDuePostsToleratesListFailure(t *testing.T) {
	repo := &fakeDueRepo{err: errors.New("connection refused")}
	enq := &fakeEnqueuer{}

	d := &DispatchJob{sp: repo, enqueue: enq}
	d.DispatchDuePosts()

	assert.Empty(t, enq.enqueued)
}
