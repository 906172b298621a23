package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

// Client is the producer side of the publish queue.
type Client struct {
	asynqClient *asynq.Client
}

func NewClient(asynqClient *asynq.Client) *Client {
	return &Client{asynqClient: asynqClient}
}

// PublishTaskID keys asynq task uniqueness so a post has at most one pending
// publish task at a time.
func PublishTaskID(postID int64) string {
	return fmt.Sprintf("%s:%d", TaskTypePublishPost, postID)
}

// EnqueuePost queues a publish task for the post. A post whose task is still
// pending or in flight is left alone, so the dispatcher re-listing a slow
// post does not publish it twice.
func (c *Client) EnqueuePost(payload PublishPostPayload, delay time.Duration) error {
	taskPayload, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	task := asynq.NewTask(TaskTypePublishPost, taskPayload)

	_, err = c.asynqClient.Enqueue(task, asynq.ProcessIn(delay), asynq.TaskID(PublishTaskID(payload.PostID)))
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		slog.Info("publish task already queued", "post_id", payload.PostID)
		return nil
	}
	if err != nil {
		return err
	}

	slog.Info("publish task enqueued", "post_id", payload.PostID, "delay", delay)
	return nil
}
