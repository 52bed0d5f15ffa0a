package application

import (
	"context"
	"strings"

	"github.com/oksasatya/protocol-blackout/internal/domain/entity"
	repo "github.com/oksasatya/protocol-blackout/internal/domain/repository"
)

// CatalogService serves the read-only game, quiz and password-target data.
type CatalogService struct {
	Games   repo.GameCatalog
	Content repo.CatalogRepository
}

func NewCatalogService(games repo.GameCatalog, content repo.CatalogRepository) *CatalogService {
	return &CatalogService{Games: games, Content: content}
}

func (s *CatalogService) ListGames() []entity.Game {
	return s.Games.List()
}

func (s *CatalogService) GetGame(id string) (entity.Game, error) {
	g, ok := s.Games.FindGameByID(id)
	if !ok {
		return entity.Game{}, ErrGameNotFound
	}
	return g, nil
}

func (s *CatalogService) Questions(ctx context.Context, category string) ([]entity.Question, error) {
	return s.Content.ListQuestions(ctx, strings.TrimSpace(category))
}

func (s *CatalogService) PasswordTargets(ctx context.Context) ([]entity.PasswordTarget, error) {
	return s.Content.ListPasswordTargets(ctx)
}
