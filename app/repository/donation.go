package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/mlongerich/DonationTracker-sub005/app/entity"
)

var (
	ErrDonationNotFound      = errors.New("donation not found")
	ErrDonationAlreadyExists = errors.New("donation already exists")
)

type DonationFilter struct {
	DonorID         uint64
	ProjectID       uint64
	ChildID         uint64
	InvoiceID       uint64
	GatewayChargeID string
	HasStatus       bool
	Status          int32
	Limit           int32
	Offset          int32
}

const donationColumns = `id, donor_id, project_id, child_id, sponsorship_id, invoice_id,
		amount_cents, donation_date, status,
		gateway_charge_id, gateway_subscription_id,
		duplicate_subscription_detected, needs_attention_reason,
		created_at, updated_at`

type DonationRepository struct {
	db DBTX
}

func NewDonationRepository(db DBTX) *DonationRepository {
	return &DonationRepository{db: db}
}

func (r *DonationRepository) Create(ctx context.Context, donation *entity.Donation) error {
	query := `
		INSERT INTO donations (
			donor_id, project_id, child_id, sponsorship_id, invoice_id,
			amount_cents, donation_date, status,
			gateway_charge_id, gateway_subscription_id,
			duplicate_subscription_detected, needs_attention_reason,
			created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		donation.DonorID,
		nullableUint64Value(donation.ProjectID),
		nullableUint64Value(donation.ChildID),
		nullableUint64Value(donation.SponsorshipID),
		nullableUint64Value(donation.InvoiceID),
		donation.AmountCents,
		nullableTimeValue(donation.DonationDate),
		donation.Status,
		donation.GatewayChargeID,
		nullableStringValue(donation.GatewaySubscriptionID),
		donation.DuplicateSubscriptionDetected,
		nullableStringValue(donation.NeedsAttentionReason),
		donation.CreatedAt,
		donation.UpdatedAt,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrDonationAlreadyExists
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	donation.ID = uint64(id)
	return nil
}

func (r *DonationRepository) Update(ctx context.Context, donation *entity.Donation) error {
	query := `
		UPDATE donations SET
			status = ?,
			amount_cents = ?,
			donation_date = ?,
			duplicate_subscription_detected = ?,
			needs_attention_reason = ?,
			sponsorship_id = ?,
			updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		donation.Status,
		donation.AmountCents,
		nullableTimeValue(donation.DonationDate),
		donation.DuplicateSubscriptionDetected,
		nullableStringValue(donation.NeedsAttentionReason),
		nullableUint64Value(donation.SponsorshipID),
		donation.UpdatedAt,
		donation.ID,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrDonationNotFound
	}

	return nil
}

func (r *DonationRepository) FindByID(ctx context.Context, id uint64) (*entity.Donation, error) {
	query := `SELECT ` + donationColumns + ` FROM donations WHERE id = ?`
	return r.findOne(ctx, query, id)
}

func (r *DonationRepository) FindBySubscriptionAndChild(ctx context.Context, subscriptionID string, childID uint64) (*entity.Donation, error) {
	query := `SELECT ` + donationColumns + `
		FROM donations
		WHERE gateway_subscription_id = ? AND child_id = ?
		LIMIT 1`
	return r.findOne(ctx, query, subscriptionID, childID)
}

func (r *DonationRepository) FindConflictingSubscription(ctx context.Context, invoiceID, childID uint64, subscriptionID string) (*entity.Donation, error) {
	query := `SELECT ` + donationColumns + `
		FROM donations
		WHERE invoice_id = ?
		  AND child_id = ?
		  AND gateway_subscription_id IS NOT NULL
		  AND gateway_subscription_id <> ?
		ORDER BY id ASC
		LIMIT 1`
	return r.findOne(ctx, query, invoiceID, childID, subscriptionID)
}

func (r *DonationRepository) FindByChargeAndProject(ctx context.Context, chargeID string, projectID uint64) (*entity.Donation, error) {
	query := `SELECT ` + donationColumns + `
		FROM donations
		WHERE gateway_charge_id = ? AND project_id = ?
		LIMIT 1`
	return r.findOne(ctx, query, chargeID, projectID)
}

func (r *DonationRepository) FindByChargeAndDonor(ctx context.Context, chargeID string, donorID uint64) (*entity.Donation, error) {
	query := `SELECT ` + donationColumns + `
		FROM donations
		WHERE gateway_charge_id = ? AND donor_id = ? AND project_id IS NULL
		LIMIT 1`
	return r.findOne(ctx, query, chargeID, donorID)
}

func (r *DonationRepository) List(ctx context.Context, filter DonationFilter) ([]*entity.Donation, error) {
	query := `SELECT ` + donationColumns + ` FROM donations`

	conditions := make([]string, 0, 6)
	args := make([]interface{}, 0, 8)

	if filter.DonorID > 0 {
		conditions = append(conditions, "donor_id = ?")
		args = append(args, filter.DonorID)
	}
	if filter.ProjectID > 0 {
		conditions = append(conditions, "project_id = ?")
		args = append(args, filter.ProjectID)
	}
	if filter.ChildID > 0 {
		conditions = append(conditions, "child_id = ?")
		args = append(args, filter.ChildID)
	}
	if filter.InvoiceID > 0 {
		conditions = append(conditions, "invoice_id = ?")
		args = append(args, filter.InvoiceID)
	}
	if strings.TrimSpace(filter.GatewayChargeID) != "" {
		conditions = append(conditions, "gateway_charge_id = ?")
		args = append(args, filter.GatewayChargeID)
	}
	if filter.HasStatus {
		conditions = append(conditions, "status = ?")
		args = append(args, filter.Status)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY id DESC LIMIT ? OFFSET ?"
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	donations := make([]*entity.Donation, 0)
	for rows.Next() {
		item := &entity.Donation{}
		if err := scanDonation(rows, item); err != nil {
			return nil, err
		}
		donations = append(donations, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return donations, nil
}

func (r *DonationRepository) findOne(ctx context.Context, query string, args ...interface{}) (*entity.Donation, error) {
	donation := &entity.Donation{}
	if err := scanDonation(r.db.QueryRowContext(ctx, query, args...), donation); err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return donation, nil
}

func scanDonation(scan rowScanner, donation *entity.Donation) error {
	var projectID sql.NullInt64
	var childID sql.NullInt64
	var sponsorshipID sql.NullInt64
	var invoiceID sql.NullInt64
	var donationDate sql.NullTime
	var subscriptionID sql.NullString
	var reason sql.NullString

	err := scan.Scan(
		&donation.ID,
		&donation.DonorID,
		&projectID,
		&childID,
		&sponsorshipID,
		&invoiceID,
		&donation.AmountCents,
		&donationDate,
		&donation.Status,
		&donation.GatewayChargeID,
		&subscriptionID,
		&donation.DuplicateSubscriptionDetected,
		&reason,
		&donation.CreatedAt,
		&donation.UpdatedAt,
	)
	if err != nil {
		return err
	}

	donation.ProjectID = uint64PtrFromNull(projectID)
	donation.ChildID = uint64PtrFromNull(childID)
	donation.SponsorshipID = uint64PtrFromNull(sponsorshipID)
	donation.InvoiceID = uint64PtrFromNull(invoiceID)
	donation.DonationDate = timeFromNull(donationDate)
	donation.GatewaySubscriptionID = stringPtrFromNull(subscriptionID)
	donation.NeedsAttentionReason = stringPtrFromNull(reason)

	return nil
}
