package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/postpilothq/postpilot/internal/models"
	"github.com/postpilothq/postpilot/internal/repository"
	"github.com/postpilothq/postpilot/internal/scheduler"
)

type SettingsService interface {
	GetSettingsInfo(ctx context.Context, id int64) (*models.Settings, error)
	UpdateSettings(ctx context.Context, userID int64, timezone string, minGapHours float64, strategy string) error
}

type settingsService struct {
	sr repository.SettingsRepository
}

func NewSettingsService(sr repository.SettingsRepository) SettingsService {
	return &settingsService{
		sr: sr,
	}
}

func (s *settingsService) GetSettingsInfo(ctx context.Context, id int64) (*models.Settings, error) {
	settings, isExist, err := s.sr.GetByUserID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !isExist {
		err = errors.New("settings for given user don't exist")
		slog.Info(err.Error())
		return nil, err
	}

	return settings, nil
}

func (s *settingsService) UpdateSettings(ctx context.Context, userID int64, timezone string, minGapHours float64, strategy string) error {
	if timezone != "" {
		if _, err := time.LoadLocation(timezone); err != nil {
			slog.Info(err.Error())
			return fmt.Errorf("timezone %q is not valid", timezone)
		}
	}

	if minGapHours < 0 {
		err := errors.New("minimum gap cannot be negative")
		slog.Info(err.Error())
		return err
	}

	switch scheduler.Strategy(strategy) {
	case "", scheduler.StrategyBalanced, scheduler.StrategyConcentrated, scheduler.StrategyPlatformPriority:
	default:
		err := fmt.Errorf("strategy %q is not valid", strategy)
		slog.Info(err.Error())
		return err
	}

	settings := models.Settings{
		Timezone:        timezone,
		MinGapHours:     minGapHours,
		DefaultStrategy: strategy,
	}

	_, isExist, err := s.sr.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}

	if !isExist {
		settings.UserID = userID
		if _, err := s.sr.Create(ctx, &settings); err != nil {
			return err
		}
		return nil
	}

	return s.sr.Update(ctx, &settings, userID)
}
