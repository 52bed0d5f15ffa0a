package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/protocol-blackout/internal/domain/entity"
	repo "github.com/oksasatya/protocol-blackout/internal/domain/repository"
	"github.com/oksasatya/protocol-blackout/pkg/metrics"
)

// ProgressionService applies game results to a user's xp, level and completed games.
type ProgressionService struct {
	Users  repo.UserRepository
	Games  repo.GameCatalog
	Logger logrus.FieldLogger
}

func NewProgressionService(users repo.UserRepository, games repo.GameCatalog, logger logrus.FieldLogger) *ProgressionService {
	return &ProgressionService{Users: users, Games: games, Logger: logger}
}

// ApplyResult records one play of gameID. rawScore is whatever the client
// sent; anything that is not a non-negative number counts as 0.
func (s *ProgressionService) ApplyResult(ctx context.Context, userID, gameID string, rawScore any) (entity.Progress, error) {
	game, ok := s.Games.FindGameByID(gameID)
	if !ok {
		return entity.Progress{}, ErrGameNotFound
	}
	score := entity.CoerceScore(rawScore)

	u, err := s.Users.UpdateProgress(ctx, userID, func(u *entity.User) error {
		u.ApplyGameResult(game.ID, score)
		return nil
	})
	if errors.Is(err, repo.ErrNotFound) {
		return entity.Progress{}, ErrUserNotFound
	}
	if err != nil {
		return entity.Progress{}, err
	}

	metrics.GameResults.WithLabelValues(game.ID).Inc()
	s.Logger.WithFields(logrus.Fields{
		"user_id": userID,
		"game_id": game.ID,
		"score":   score,
		"xp":      u.XP,
		"level":   u.Level,
	}).Info("game result applied")
	return u.Progress(), nil
}

func (s *ProgressionService) Progress(ctx context.Context, userID string) (entity.Progress, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return entity.Progress{}, ErrUserNotFound
	}
	if err != nil {
		return entity.Progress{}, err
	}
	return u.Progress(), nil
}
