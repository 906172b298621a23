package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/postpilothq/postpilot/internal/models"
	"github.com/postpilothq/postpilot/internal/repository"
	"github.com/postpilothq/postpilot/internal/scheduler"
	"github.com/postpilothq/postpilot/internal/transfer"
)

// reservationPadding widens the occupied-slot query so gap checks also see
// posts sitting just outside the requested range.
const reservationPadding = 48 * time.Hour

type PlannerService interface {
	GenerateSchedule(ctx context.Context, userID int64, req *transfer.GenerateScheduleRequest) ([]scheduler.Entry, []int64, error)
	FindOptimalTime(ctx context.Context, userID int64, req *transfer.OptimalTimeRequest) (time.Time, error)
}

type plannerService struct {
	sp       repository.ScheduledPostRepository
	settings repository.SettingsRepository

	// userLocks serializes read-plan-commit per user so two concurrent
	// generations cannot hand out overlapping slots.
	userLocks sync.Map
}

func NewPlannerService(sp repository.ScheduledPostRepository, settings repository.SettingsRepository) PlannerService {
	return &plannerService{sp: sp, settings: settings}
}

func (s *plannerService) lockUser(userID int64) *sync.Mutex {
	mu, _ := s.userLocks.LoadOrStore(userID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// applyDefaults fills config fields the request left empty from the user's
// saved settings.
func (s *plannerService) applyDefaults(ctx context.Context, userID int64, cfg *scheduler.Config) {
	settings, exists, err := s.settings.GetByUserID(ctx, userID)
	if err != nil || !exists {
		return
	}
	if cfg.Timezone == "" {
		cfg.Timezone = settings.Timezone
	}
	if cfg.MinGapHours == 0 {
		cfg.MinGapHours = settings.MinGapHours
	}
	if cfg.Strategy == "" {
		cfg.Strategy = scheduler.Strategy(settings.DefaultStrategy)
	}
}

func (s *plannerService) occupiedTimes(ctx context.Context, userID int64, from, to time.Time) (*scheduler.ReservationSet, error) {
	posts, err := s.sp.ListScheduledInRange(ctx, userID, from.Add(-reservationPadding), to.Add(reservationPadding))
	if err != nil {
		return nil, fmt.Errorf("error loading existing schedule: %w", err)
	}

	occupied := scheduler.NewReservationSet()
	for _, post := range posts {
		occupied.Add(post.ScheduledTime)
	}
	return occupied, nil
}

// GenerateSchedule plans entries for the request and, when Commit is set,
// writes them as scheduled posts in one batch. The returned ids parallel the
// entries; without commit the id slice is nil.
func (s *plannerService) GenerateSchedule(ctx context.Context, userID int64, req *transfer.GenerateScheduleRequest) ([]scheduler.Entry, []int64, error) {
	if userID == 0 {
		err := errors.New("user is not valid")
		slog.Info(err.Error())
		return nil, nil, err
	}
	if req == nil {
		err := errors.New("request is nil")
		slog.Info(err.Error())
		return nil, nil, err
	}

	mu := s.lockUser(userID)
	mu.Lock()
	defer mu.Unlock()

	cfg := req.Config
	s.applyDefaults(ctx, userID, &cfg)

	start := cfg.StartDate
	if start.IsZero() {
		start = time.Now()
	}
	end := cfg.EndDate
	if end.IsZero() {
		end = start.AddDate(0, 0, 7)
	}

	occupied, err := s.occupiedTimes(ctx, userID, start, end)
	if err != nil {
		return nil, nil, err
	}

	entries, err := scheduler.GenerateSchedule(&cfg, req.Items, occupied)
	if err != nil {
		slog.Info(err.Error())
		return nil, nil, err
	}

	if !req.Commit {
		return entries, nil, nil
	}

	itemTypes := make(map[string]string, len(req.Items))
	for _, item := range req.Items {
		itemTypes[item.ID] = item.ContentType
	}

	posts := make([]*models.ScheduledPost, 0, len(entries))
	for _, entry := range entries {
		contentType := itemTypes[entry.ContentID]
		if contentType == "" {
			contentType = "post"
		}
		posts = append(posts, &models.ScheduledPost{
			UserID:        userID,
			ContentID:     entry.ContentID,
			Platform:      entry.Platform,
			ScheduledTime: entry.ScheduledTime,
			Status:        models.PostStatusScheduled,
			ContentType:   contentType,
			Metadata:      map[string]string{"rationale": entry.Rationale},
		})
	}
	if len(posts) == 0 {
		return entries, []int64{}, nil
	}

	ids, err := s.sp.CreateBatch(ctx, posts)
	if err != nil {
		return nil, nil, fmt.Errorf("error committing schedule: %w", err)
	}
	return entries, ids, nil
}

// FindOptimalTime returns the next good slot for one platform, honoring the
// user's already scheduled posts.
func (s *plannerService) FindOptimalTime(ctx context.Context, userID int64, req *transfer.OptimalTimeRequest) (time.Time, error) {
	if userID == 0 {
		err := errors.New("user is not valid")
		slog.Info(err.Error())
		return time.Time{}, err
	}
	if req == nil || req.Platform == "" {
		err := errors.New("platform is required")
		slog.Info(err.Error())
		return time.Time{}, err
	}

	after := req.AfterTime
	if after.IsZero() {
		after = time.Now()
	}

	occupied, err := s.occupiedTimes(ctx, userID, after, after.AddDate(0, 0, 14))
	if err != nil {
		return time.Time{}, err
	}

	opts := scheduler.SearchOptions{Occupied: occupied}
	if req.Config != nil {
		if times, ok := req.Config.OptimalTimes[req.Platform]; ok {
			opts.BestTimes = times
		}
		opts.AvoidWindows = req.Config.AvoidWindows[req.Platform]
		opts.MinGapHours = req.Config.MinGapHours
	}
	if opts.MinGapHours == 0 {
		if settings, exists, err := s.settings.GetByUserID(ctx, userID); err == nil && exists {
			opts.MinGapHours = settings.MinGapHours
		}
	}

	slot, err := scheduler.FindOptimalTime(req.Platform, after, opts)
	if err != nil {
		slog.Info(err.Error())
		return time.Time{}, err
	}
	return slot, nil
}
