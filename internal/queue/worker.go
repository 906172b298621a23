package queue

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/hibiken/asynq"
	"github.com/postpilothq/postpilot/internal/models"
)

func (j *Queue) HandlePublishPostTask(ctx context.Context, task *asynq.Task) error {
	var payload PublishPostPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}

	return j.PublishPost(ctx, payload.PostID)
}

// PublishPost fans the post out to every connected account on its platform.
// The post ends up posted when at least one account accepted it, failed
// otherwise.
func (j *Queue) PublishPost(ctx context.Context, postID int64) error {
	post, err := j.sp.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return errors.New("scheduled post doesn't exist")
	}

	if post.Status != models.PostStatusScheduled {
		slog.Info("skipping publish, post is not scheduled", "post_id", postID, "status", post.Status)
		return nil
	}

	accounts, err := j.ac.ListByUserAndPlatform(ctx, post.UserID, post.Platform)
	if err != nil {
		return err
	}
	if len(accounts) == 0 {
		j.recordAttempt(ctx, post, 0, "no connected account for platform")
		return j.sp.UpdateStatus(ctx, models.PostStatusFailed, postID)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	semaphore := make(chan struct{}, 10)
	succeeded := false

	postToAccount := func(acc *models.SocialAccount) {
		defer wg.Done()
		defer func() { <-semaphore }()

		var err error
		switch acc.Platform {
		case models.PlatformTiktok:
			err = j.tt.PublishPost(ctx, post, acc)
		case models.PlatformInstagram:
			err = j.ig.PublishPost(ctx, post, acc)
		case models.PlatformYoutube:
			err = j.yt.PublishPost(ctx, post, acc)
		default:
			err = errors.New("publishing is not supported for this platform")
		}

		errorMessage := ""
		if err != nil {
			errorMessage = err.Error()
			slog.Info("error publishing post", "platform", acc.Platform, "post_id", post.ID, "error", err)
		} else {
			mu.Lock()
			succeeded = true
			mu.Unlock()
		}

		j.recordAttempt(ctx, post, acc.ID, errorMessage)
	}

	for _, acc := range accounts {
		wg.Add(1)
		semaphore <- struct{}{}
		go postToAccount(acc)
	}

	wg.Wait()

	status := models.PostStatusFailed
	if succeeded {
		status = models.PostStatusPosted
	}
	return j.sp.UpdateStatus(ctx, status, postID)
}

func (j *Queue) recordAttempt(ctx context.Context, post *models.ScheduledPost, accountID int64, errorMessage string) {
	history := models.PostingHistory{
		UserID:       post.UserID,
		PostID:       post.ID,
		AccountID:    accountID,
		Platform:     post.Platform,
		ErrorMessage: errorMessage,
	}
	if _, err := j.ph.Create(ctx, &history); err != nil {
		slog.Info("error saving posting history", "post_id", post.ID, "error", err)
	}
}
