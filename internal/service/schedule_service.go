package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/postpilothq/postpilot/internal/models"
	"github.com/postpilothq/postpilot/internal/repository"
	"github.com/postpilothq/postpilot/internal/transfer"
)

// ErrPostNotFound is returned by update/cancel operations targeting an id
// that does not exist.
var ErrPostNotFound = errors.New("scheduled post doesn't exist")

type ScheduleService interface {
	SchedulePost(ctx context.Context, post *models.ScheduledPost) (int64, error)
	BulkSchedule(ctx context.Context, posts []*models.ScheduledPost) ([]int64, error)
	GetScheduledPosts(ctx context.Context, userID int64, filter *repository.ScheduledPostFilter) ([]*models.ScheduledPost, error)
	UpdateScheduledPost(ctx context.Context, userID, id int64, update *transfer.ScheduledPostUpdate) error
	CancelScheduledPost(ctx context.Context, userID, id int64) error
	GetScheduleSummary(ctx context.Context, userID int64) (*transfer.ScheduleSummary, error)
}

type scheduleService struct {
	sp repository.ScheduledPostRepository
}

func NewScheduleService(sp repository.ScheduledPostRepository) ScheduleService {
	return &scheduleService{sp: sp}
}

func validateScheduledPost(post *models.ScheduledPost) error {
	if post == nil {
		return errors.New("scheduled post is nil")
	}
	if post.UserID == 0 {
		return errors.New("user is required")
	}
	if post.ContentID == "" {
		return errors.New("content reference is required")
	}
	if post.Platform == "" {
		return errors.New("platform is required")
	}
	if !models.IsSupportedPlatform(post.Platform) {
		return fmt.Errorf("platform %q is not supported", post.Platform)
	}
	if post.ScheduledTime.IsZero() {
		return errors.New("scheduled time is required")
	}
	return nil
}

func (s *scheduleService) SchedulePost(ctx context.Context, post *models.ScheduledPost) (int64, error) {
	if err := validateScheduledPost(post); err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	if post.Status == "" {
		post.Status = models.PostStatusDraft
	}
	if post.ContentType == "" {
		post.ContentType = "post"
	}

	id, err := s.sp.Create(ctx, nil, post)
	if err != nil {
		return 0, fmt.Errorf("error creating scheduled post: %w", err)
	}
	return id, nil
}

// BulkSchedule validates every post and persists the whole batch in one
// transaction. An empty input returns an empty result without touching the
// store.
func (s *scheduleService) BulkSchedule(ctx context.Context, posts []*models.ScheduledPost) ([]int64, error) {
	if len(posts) == 0 {
		return []int64{}, nil
	}

	for i, post := range posts {
		if err := validateScheduledPost(post); err != nil {
			slog.Info(err.Error())
			return nil, fmt.Errorf("post %d: %w", i, err)
		}
		if post.Status == "" {
			post.Status = models.PostStatusDraft
		}
		if post.ContentType == "" {
			post.ContentType = "post"
		}
	}

	ids, err := s.sp.CreateBatch(ctx, posts)
	if err != nil {
		return nil, fmt.Errorf("error creating scheduled posts: %w", err)
	}
	return ids, nil
}

func (s *scheduleService) GetScheduledPosts(ctx context.Context, userID int64, filter *repository.ScheduledPostFilter) ([]*models.ScheduledPost, error) {
	if userID == 0 {
		err := errors.New("user is not valid")
		slog.Info(err.Error())
		return nil, err
	}

	posts, err := s.sp.ListByUserID(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing scheduled posts: %w", err)
	}
	return posts, nil
}

// UpdateScheduledPost merges the given fields into an existing post. Posts in
// a terminal status (posted, failed, cancelled) keep their scheduled time and
// status forever.
func (s *scheduleService) UpdateScheduledPost(ctx context.Context, userID, id int64, update *transfer.ScheduledPostUpdate) error {
	if update == nil {
		err := errors.New("update is nil")
		slog.Info(err.Error())
		return err
	}

	post, err := s.sp.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if post == nil || post.UserID != userID {
		slog.Info(ErrPostNotFound.Error())
		return ErrPostNotFound
	}

	if models.IsTerminalStatus(post.Status) && (update.ScheduledTime != nil || update.Status != nil) {
		err := fmt.Errorf("post %d is %s and can no longer be rescheduled", id, post.Status)
		slog.Info(err.Error())
		return err
	}

	fields := make(map[string]interface{})
	if update.ScheduledTime != nil {
		fields["scheduled_time"] = *update.ScheduledTime
	}
	if update.Status != nil {
		fields["status"] = *update.Status
	}
	if update.ContentType != nil {
		fields["content_type"] = *update.ContentType
	}
	if update.Caption != nil {
		fields["caption"] = *update.Caption
	}
	if update.MediaURLs != nil {
		fields["media_urls"] = *update.MediaURLs
	}
	if update.Tags != nil {
		fields["tags"] = *update.Tags
	}
	if update.Metadata != nil {
		fields["metadata"] = *update.Metadata
	}
	if len(fields) == 0 {
		return nil
	}

	if err := s.sp.Update(ctx, id, fields); err != nil {
		return fmt.Errorf("error updating scheduled post: %w", err)
	}
	return nil
}

func (s *scheduleService) CancelScheduledPost(ctx context.Context, userID, id int64) error {
	post, err := s.sp.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if post == nil || post.UserID != userID {
		slog.Info(ErrPostNotFound.Error())
		return ErrPostNotFound
	}

	if err := s.sp.UpdateStatus(ctx, models.PostStatusCancelled, id); err != nil {
		return fmt.Errorf("error cancelling scheduled post: %w", err)
	}
	return nil
}

// GetScheduleSummary aggregates over a single full scan of the user's posts.
func (s *scheduleService) GetScheduleSummary(ctx context.Context, userID int64) (*transfer.ScheduleSummary, error) {
	if userID == 0 {
		err := errors.New("user is not valid")
		slog.Info(err.Error())
		return nil, err
	}

	posts, err := s.sp.ListByUserID(ctx, userID, nil)
	if err != nil {
		return nil, fmt.Errorf("error listing scheduled posts: %w", err)
	}

	summary := &transfer.ScheduleSummary{
		Total:      len(posts),
		ByPlatform: make(map[string]int),
		ByStatus:   make(map[string]int),
	}

	now := time.Now()
	for _, post := range posts {
		summary.ByPlatform[post.Platform]++
		summary.ByStatus[post.Status]++
		if post.Status == models.PostStatusScheduled && post.ScheduledTime.After(now) {
			summary.Upcoming++
		}
	}
	return summary, nil
}
