package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mlongerich/DonationTracker-sub005/app/entity"
)

var ErrInvoiceAlreadyExists = errors.New("invoice already exists")

type InvoiceRepository struct {
	db DBTX
}

func NewInvoiceRepository(db DBTX) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

func (r *InvoiceRepository) Create(ctx context.Context, invoice *entity.Invoice) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO invoices (gateway_invoice_id, created_at) VALUES (?, ?)`,
		invoice.GatewayInvoiceID,
		invoice.CreatedAt,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrInvoiceAlreadyExists
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	invoice.ID = uint64(id)
	return nil
}

func (r *InvoiceRepository) FindByGatewayID(ctx context.Context, gatewayInvoiceID string) (*entity.Invoice, error) {
	invoice := &entity.Invoice{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, gateway_invoice_id, created_at FROM invoices WHERE gateway_invoice_id = ? LIMIT 1`,
		gatewayInvoiceID,
	).Scan(&invoice.ID, &invoice.GatewayInvoiceID, &invoice.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return invoice, nil
}
