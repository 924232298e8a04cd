package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mlongerich/DonationTracker-sub005/app/entity"
)

var ErrDonorAlreadyExists = errors.New("donor already exists")

type DonorRepository struct {
	db DBTX
}

func NewDonorRepository(db DBTX) *DonorRepository {
	return &DonorRepository{db: db}
}

func (r *DonorRepository) Create(ctx context.Context, donor *entity.Donor) error {
	query := `
		INSERT INTO donors (email, name, placeholder_identity, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		donor.Email,
		nullableStringValue(donor.Name),
		donor.PlaceholderIdentity,
		donor.CreatedAt,
		donor.UpdatedAt,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrDonorAlreadyExists
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	donor.ID = uint64(id)
	return nil
}

func (r *DonorRepository) FindByEmail(ctx context.Context, email string) (*entity.Donor, error) {
	query := `
		SELECT id, email, name, placeholder_identity, created_at, updated_at
		FROM donors
		WHERE email = ?
		LIMIT 1
	`

	donor := &entity.Donor{}
	var name sql.NullString
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&donor.ID,
		&donor.Email,
		&name,
		&donor.PlaceholderIdentity,
		&donor.CreatedAt,
		&donor.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	donor.Name = stringPtrFromNull(name)
	return donor, nil
}
