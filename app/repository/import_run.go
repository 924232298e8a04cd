package repository

import (
	"context"
	"database/sql"

	"github.com/mlongerich/DonationTracker-sub005/app/entity"
)

type ImportRunRepository struct {
	db DBTX
}

func NewImportRunRepository(db DBTX) *ImportRunRepository {
	return &ImportRunRepository{db: db}
}

func (r *ImportRunRepository) Create(ctx context.Context, run *entity.ImportRun) error {
	query := `
		INSERT INTO import_runs (
			public_id, profile, rows_total,
			succeeded_count, failed_count, needs_attention_count, skipped_count,
			errors_json, started_at, finished_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		run.PublicID,
		run.Profile,
		run.RowsTotal,
		run.SucceededCount,
		run.FailedCount,
		run.NeedsAttentionCount,
		run.SkippedCount,
		run.ErrorsJSON,
		run.StartedAt,
		run.FinishedAt,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	run.ID = uint64(id)
	return nil
}

func (r *ImportRunRepository) FindByPublicID(ctx context.Context, publicID string) (*entity.ImportRun, error) {
	query := `
		SELECT id, public_id, profile, rows_total,
			succeeded_count, failed_count, needs_attention_count, skipped_count,
			errors_json, started_at, finished_at
		FROM import_runs
		WHERE public_id = ?
		LIMIT 1
	`

	run := &entity.ImportRun{}
	err := r.db.QueryRowContext(ctx, query, publicID).Scan(
		&run.ID,
		&run.PublicID,
		&run.Profile,
		&run.RowsTotal,
		&run.SucceededCount,
		&run.FailedCount,
		&run.NeedsAttentionCount,
		&run.SkippedCount,
		&run.ErrorsJSON,
		&run.StartedAt,
		&run.FinishedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	return run, nil
}

func (r *ImportRunRepository) List(ctx context.Context, limit, offset int32) ([]*entity.ImportRun, error) {
	query := `
		SELECT id, public_id, profile, rows_total,
			succeeded_count, failed_count, needs_attention_count, skipped_count,
			errors_json, started_at, finished_at
		FROM import_runs
		ORDER BY id DESC
		LIMIT ? OFFSET ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]*entity.ImportRun, 0)
	for rows.Next() {
		run := &entity.ImportRun{}
		if err := rows.Scan(
			&run.ID,
			&run.PublicID,
			&run.Profile,
			&run.RowsTotal,
			&run.SucceededCount,
			&run.FailedCount,
			&run.NeedsAttentionCount,
			&run.SkippedCount,
			&run.ErrorsJSON,
			&run.StartedAt,
			&run.FinishedAt,
		); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return runs, nil
}
