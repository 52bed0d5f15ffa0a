package repository

import (
	"context"

	"github.com/oksasatya/protocol-blackout/internal/domain/entity"
)

// CatalogRepository reads the quiz and password-cracker content.
type CatalogRepository interface {
	// ListQuestions returns every question, or those in category when it is non-empty.
	ListQuestions(ctx context.Context, category string) ([]entity.Question, error)
	ListPasswordTargets(ctx context.Context) ([]entity.PasswordTarget, error)
}

// GameCatalog looks up entries of the static game list.
type GameCatalog interface {
	List() []entity.Game
	FindGameByID(id string) (entity.Game, bool)
}
