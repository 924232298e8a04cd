package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mlongerich/DonationTracker-sub005/app/entity"
)

var ErrProjectAlreadyExists = errors.New("project already exists")

type ProjectRepository struct {
	db DBTX
}

func NewProjectRepository(db DBTX) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(ctx context.Context, project *entity.Project) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO projects (name, created_at) VALUES (?, ?)`,
		project.Name,
		project.CreatedAt,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrProjectAlreadyExists
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	project.ID = uint64(id)
	return nil
}

func (r *ProjectRepository) FindByName(ctx context.Context, name string) (*entity.Project, error) {
	project := &entity.Project{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM projects WHERE name = ? LIMIT 1`,
		name,
	).Scan(&project.ID, &project.Name, &project.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return project, nil
}
