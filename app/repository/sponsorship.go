package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mlongerich/DonationTracker-sub005/app/entity"
)

var ErrSponsorshipAlreadyExists = errors.New("sponsorship already exists")

type SponsorshipRepository struct {
	db DBTX
}

func NewSponsorshipRepository(db DBTX) *SponsorshipRepository {
	return &SponsorshipRepository{db: db}
}

func (r *SponsorshipRepository) Create(ctx context.Context, sponsorship *entity.Sponsorship) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO sponsorships (donor_id, child_id, created_at) VALUES (?, ?, ?)`,
		sponsorship.DonorID,
		sponsorship.ChildID,
		sponsorship.CreatedAt,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrSponsorshipAlreadyExists
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	sponsorship.ID = uint64(id)
	return nil
}

func (r *SponsorshipRepository) FindByDonorAndChild(ctx context.Context, donorID, childID uint64) (*entity.Sponsorship, error) {
	sponsorship := &entity.Sponsorship{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, donor_id, child_id, created_at FROM sponsorships WHERE donor_id = ? AND child_id = ? LIMIT 1`,
		donorID,
		childID,
	).Scan(&sponsorship.ID, &sponsorship.DonorID, &sponsorship.ChildID, &sponsorship.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return sponsorship, nil
}
