package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mlongerich/DonationTracker-sub005/app/entity"
)

var ErrChildAlreadyExists = errors.New("child already exists")

type ChildRepository struct {
	db DBTX
}

func NewChildRepository(db DBTX) *ChildRepository {
	return &ChildRepository{db: db}
}

func (r *ChildRepository) Create(ctx context.Context, child *entity.Child) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO children (name, created_at) VALUES (?, ?)`,
		child.Name,
		child.CreatedAt,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrChildAlreadyExists
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	child.ID = uint64(id)
	return nil
}

func (r *ChildRepository) FindByName(ctx context.Context, name string) (*entity.Child, error) {
	child := &entity.Child{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM children WHERE name = ? LIMIT 1`,
		name,
	).Scan(&child.ID, &child.Name, &child.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return child, nil
}
