package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/protocol-blackout/internal/application"
	"github.com/oksasatya/protocol-blackout/internal/domain/entity"
	"github.com/oksasatya/protocol-blackout/pkg/response"
	"github.com/oksasatya/protocol-blackout/pkg/validation"
)

// Progression records game results and reads progress.
type Progression interface {
	ApplyResult(ctx context.Context, userID, gameID string, rawScore any) (entity.Progress, error)
	Progress(ctx context.Context, userID string) (entity.Progress, error)
}

// Catalog serves the static games and the seeded content tables.
type Catalog interface {
	ListGames() []entity.Game
	GetGame(id string) (entity.Game, error)
	Questions(ctx context.Context, category string) ([]entity.Question, error)
	PasswordTargets(ctx context.Context) ([]entity.PasswordTarget, error)
}

type GameHandler struct {
	Catalog     Catalog
	Progression Progression
	Logger      logrus.FieldLogger
}

func NewGameHandler(catalog Catalog, progression Progression, logger logrus.FieldLogger) *GameHandler {
	return &GameHandler{Catalog: catalog, Progression: progression, Logger: logger}
}

// score is kept untyped; malformed values count as zero.
type resultRequest struct {
	Score any `json:"score"`
}

// List GET /games
func (h *GameHandler) List(c *gin.Context) {
	response.Success(c, http.StatusOK, h.Catalog.ListGames(), "games loaded", nil)
}

// Get GET /games/:id
func (h *GameHandler) Get(c *gin.Context) {
	game, err := h.Catalog.GetGame(c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, game, "game loaded", nil)
}

// SubmitResult POST /games/:id/result (auth required)
func (h *GameHandler) SubmitResult(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		writeError(c, h.Logger, application.ErrNotAuthorized)
		return
	}
	var req resultRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	progress, err := h.Progression.ApplyResult(c.Request.Context(), uid, c.Param("id"), req.Score)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, progress, "result saved", nil)
}

// Progress GET /auth/profile/progress (auth required)
func (h *GameHandler) Progress(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		writeError(c, h.Logger, application.ErrNotAuthorized)
		return
	}
	progress, err := h.Progression.Progress(c.Request.Context(), uid)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, progress, "progress loaded", nil)
}

// Questions GET /quiz/questions?category=
func (h *GameHandler) Questions(c *gin.Context) {
	qs, err := h.Catalog.Questions(c.Request.Context(), c.Query("category"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, qs, "questions loaded", map[string]any{"count": len(qs)})
}

// PasswordTargets GET /password-targets
func (h *GameHandler) PasswordTargets(c *gin.Context) {
	targets, err := h.Catalog.PasswordTargets(c.Request.Context())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, targets, "password targets loaded", map[string]any{"count": len(targets)})
}
