package application

import (
	"context"
	"sync"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/protocol-blackout/internal/domain/entity"
	"github.com/oksasatya/protocol-blackout/internal/infrastructure/catalog"
)

func newProgressionFixture(t *testing.T) (*ProgressionService, *memUsers, string) {
	t.Helper()
	logger, _ := test.NewNullLogger()
	users := newMemUsers()
	u := entity.NewUser("neo", "neo@example.com", "hashed:pw")
	require.NoError(t, users.Create(context.Background(), u))
	return NewProgressionService(users, catalog.NewStaticGames(), logger), users, u.ID
}

func TestApplyResult_ReplayAccruesXPButCompletesOnce(t *testing.T) {
	svc, _, id := newProgressionFixture(t)
	ctx := context.Background()

	_, err := svc.ApplyResult(ctx, id, "1", float64(60))
	require.NoError(t, err)
	p, err := svc.ApplyResult(ctx, id, "1", float64(50))
	require.NoError(t, err)

	assert.Equal(t, 110, p.XP)
	assert.Equal(t, 2, p.Level)
	assert.Equal(t, []string{"1"}, p.CompletedGames)
	require.NotNil(t, p.NextLevelXP)
	assert.Equal(t, 300, *p.NextLevelXP)
}

func TestApplyResult_UnknownGameLeavesUserUntouched(t *testing.T) {
	svc, users, id := newProgressionFixture(t)
	ctx := context.Background()
	_, err := svc.ApplyResult(ctx, id, "2", float64(40))
	require.NoError(t, err)

	_, err = svc.ApplyResult(ctx, id, "does-not-exist", float64(500))
	assert.ErrorIs(t, err, ErrGameNotFound)

	u, err := users.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 40, u.XP)
	assert.Equal(t, 1, u.Level)
	assert.Equal(t, []string{"2"}, u.CompletedGames)
}

func TestApplyResult_MalformedScoresCountAsZero(t *testing.T) {
	svc, _, id := newProgressionFixture(t)
	ctx := context.Background()

	for _, raw := range []any{"100", nil, true, float64(-30), map[string]any{"x": 1}} {
		p, err := svc.ApplyResult(ctx, id, "3", raw)
		require.NoError(t, err)
		assert.Equal(t, 0, p.XP)
	}
	p, err := svc.Progress(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []string{"3"}, p.CompletedGames)
}

func TestApplyResult_UnknownUser(t *testing.T) {
	svc, _, _ := newProgressionFixture(t)
	_, err := svc.ApplyResult(context.Background(), "missing", "1", float64(10))
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestApplyResult_ConcurrentSubmissionsAllApply(t *testing.T) {
	svc, _, id := newProgressionFixture(t)
	const n = 20
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.ApplyResult(context.Background(), id, "quiz-01", float64(10))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	p, err := svc.Progress(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 200, p.XP)
	assert.Equal(t, 2, p.Level)
	assert.Equal(t, []string{"quiz-01"}, p.CompletedGames)
}

func TestProgress_TopLevelHasNoNext(t *testing.T) {
	svc, _, id := newProgressionFixture(t)
	_, err := svc.ApplyResult(context.Background(), id, "1", float64(650))
	require.NoError(t, err)

	p, err := svc.Progress(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 4, p.Level)
	assert.Nil(t, p.NextLevelXP)
}

func TestProgress_UnknownUser(t *testing.T) {
	svc, _, _ := newProgressionFixture(t)
	_, err := svc.Progress(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
