package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"

	"github.com/oksasatya/protocol-blackout/internal/domain/entity"
	"github.com/oksasatya/protocol-blackout/internal/domain/repository"
)

type CatalogRepository struct {
	db DB
}

func NewCatalogRepository(db DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) ListQuestions(ctx context.Context, category string) ([]entity.Question, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if category == "" {
		rows, err = r.db.Query(ctx, `SELECT id, category, question, answer, options FROM quiz_questions ORDER BY id`)
	} else {
		rows, err = r.db.Query(ctx, `SELECT id, category, question, answer, options FROM quiz_questions WHERE category = $1 ORDER BY id`, category)
	}
	if err != nil {
		return nil, oops.Code("QUESTIONS_QUERY_FAILED").With("category", category).Wrap(err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.Question, error) {
		var q entity.Question
		err := row.Scan(&q.ID, &q.Category, &q.Question, &q.Answer, &q.Options)
		return q, err
	})
	if err != nil {
		return nil, oops.Code("QUESTIONS_SCAN_FAILED").Wrap(err)
	}
	return out, nil
}

func (r *CatalogRepository) ListPasswordTargets(ctx context.Context) ([]entity.PasswordTarget, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, required_keywords, difficulty, color FROM password_targets ORDER BY id`)
	if err != nil {
		return nil, oops.Code("TARGETS_QUERY_FAILED").Wrap(err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.PasswordTarget, error) {
		var t entity.PasswordTarget
		err := row.Scan(&t.ID, &t.Name, &t.RequiredKeywords, &t.Difficulty, &t.Color)
		return t, err
	})
	if err != nil {
		return nil, oops.Code("TARGETS_SCAN_FAILED").Wrap(err)
	}
	return out, nil
}

// UpsertQuestions and UpsertPasswordTargets are used by the seeder.
func (r *CatalogRepository) UpsertQuestions(ctx context.Context, qs []entity.Question) error {
	batch := &pgx.Batch{}
	for _, q := range qs {
		batch.Queue(`
			INSERT INTO quiz_questions (id, category, question, answer, options)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO UPDATE SET
				category = EXCLUDED.category, question = EXCLUDED.question,
				answer = EXCLUDED.answer, options = EXCLUDED.options
		`, q.ID, q.Category, q.Question, q.Answer, q.Options)
	}
	return r.sendBatch(ctx, "QUESTIONS_UPSERT_FAILED", batch)
}

func (r *CatalogRepository) UpsertPasswordTargets(ctx context.Context, ts []entity.PasswordTarget) error {
	batch := &pgx.Batch{}
	for _, t := range ts {
		batch.Queue(`
			INSERT INTO password_targets (id, name, required_keywords, difficulty, color)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name, required_keywords = EXCLUDED.required_keywords,
				difficulty = EXCLUDED.difficulty, color = EXCLUDED.color
		`, t.ID, t.Name, t.RequiredKeywords, t.Difficulty, t.Color)
	}
	return r.sendBatch(ctx, "TARGETS_UPSERT_FAILED", batch)
}

func (r *CatalogRepository) sendBatch(ctx context.Context, code string, batch *pgx.Batch) error {
	return inTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return oops.Code(code).Wrap(err)
		}
		return nil
	})
}

var _ repository.CatalogRepository = (*CatalogRepository)(nil)
