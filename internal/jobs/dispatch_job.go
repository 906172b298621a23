package job

import (
	"context"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/postpilothq/postpilot/internal/queue"
	"github.com/postpilothq/postpilot/internal/repository"
)

const dispatchBatchSize = 100

type publishEnqueuer interface {
	EnqueuePost(payload queue.PublishPostPayload, delay time.Duration) error
}

// DispatchJob moves due scheduled posts onto the publish queue. It runs every
// minute from the cron scheduler; task-id dedup in the queue keeps a post
// that is still publishing from being enqueued again on the next tick.
type DispatchJob struct {
	sp      repository.ScheduledPostRepository
	enqueue publishEnqueuer
}

func NewDispatchJob(sp repository.ScheduledPostRepository, client *asynq.Client) *DispatchJob {
	return &DispatchJob{
		sp:      sp,
		enqueue: queue.NewClient(client),
	}
}

func (d *DispatchJob) DispatchDuePosts() {
	ctx := context.Background()

	posts, err := d.sp.ListDue(ctx, time.Now(), dispatchBatchSize)
	if err != nil {
		slog.Info(err.Error())
		return
	}

	for _, post := range posts {
		payload := queue.PublishPostPayload{PostID: post.ID}
		if err := d.enqueue.EnqueuePost(payload, 0); err != nil {
			slog.Info("error enqueueing post", "post_id", post.ID, "error", err)
		}
	}
}
