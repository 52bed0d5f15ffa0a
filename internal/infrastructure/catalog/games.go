// Package catalog holds the built-in game list.
package catalog

import (
	"slices"

	"github.com/oksasatya/protocol-blackout/internal/domain/entity"
	repo "github.com/oksasatya/protocol-blackout/internal/domain/repository"
)

var defaultGames = []entity.Game{
	{ID: "1", Title: "Terminal Breach (Demo)", Description: "Demo game for backend routes and tests.", Difficulty: "medium", Category: "demo"},
	{ID: "2", Title: "Cipher Rush (Demo)", Description: "Demo game for backend routes and tests.", Difficulty: "easy", Category: "demo"},
	{ID: "3", Title: "Log Analyzer (Demo)", Description: "Demo game for backend routes and tests.", Difficulty: "hard", Category: "demo"},
	{
		ID:             "quiz-01",
		Title:          "Cybersecurity Quiz – Basics",
		Description:    "Answer 10 questions on core IT security.",
		Difficulty:     "easy",
		Category:       "quiz",
		XPReward:       50,
		MaxTimeSeconds: 120,
		MinScoreForWin: 7,
	},
}

// StaticGames is an immutable, in-memory GameCatalog.
type StaticGames struct {
	games []entity.Game
	byID  map[string]int
}

// NewStaticGames indexes games; with no arguments it uses the built-in list.
func NewStaticGames(games ...entity.Game) *StaticGames {
	if len(games) == 0 {
		games = defaultGames
	}
	s := &StaticGames{games: slices.Clone(games), byID: make(map[string]int, len(games))}
	for i, g := range s.games {
		s.byID[g.ID] = i
	}
	return s
}

func (s *StaticGames) List() []entity.Game {
	return slices.Clone(s.games)
}

func (s *StaticGames) FindGameByID(id string) (entity.Game, bool) {
	i, ok := s.byID[id]
	if !ok {
		return entity.Game{}, false
	}
	return s.games[i], true
}

var _ repo.GameCatalog = (*StaticGames)(nil)
