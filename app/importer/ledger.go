package importer

import (
	"context"

	"github.com/mlongerich/DonationTracker-sub005/app/entity"
)

type DonorRef struct {
	ID    uint64
	Email string
}

type ProjectRef struct {
	ID   uint64
	Name string
}

type ChildRef struct {
	ID   uint64
	Name string
}

type SponsorshipRef struct {
	ID uint64
}

type InvoiceRef struct {
	ID               uint64
	GatewayInvoiceID string
}

// Ledger is the engine's view of the canonical donation store. Every method
// runs inside the caller-supplied transactional scope for the current row;
// find lookups that miss return the zero pointer, not an error.
type Ledger interface {
	FindOrCreateDonor(ctx context.Context, identity DonorIdentity) (DonorRef, error)
	FindOrCreateProject(ctx context.Context, name string) (ProjectRef, error)
	FindOrCreateChild(ctx context.Context, name string) (ChildRef, error)
	FindOrCreateSponsorship(ctx context.Context, donorID, childID uint64) (SponsorshipRef, error)
	FindOrCreateInvoice(ctx context.Context, gatewayInvoiceID string) (InvoiceRef, error)

	FindDonationBySubscriptionAndChild(ctx context.Context, subscriptionID string, childID uint64) (*entity.Donation, error)
	// FindConflictingSubscriptionDonation returns a donation recorded under
	// the same invoice and child but a different subscription id, if any.
	FindConflictingSubscriptionDonation(ctx context.Context, invoiceID, childID uint64, subscriptionID string) (*entity.Donation, error)
	FindDonationByChargeAndProject(ctx context.Context, chargeID string, projectID uint64) (*entity.Donation, error)
	FindDonationByChargeAndDonor(ctx context.Context, chargeID string, donorID uint64) (*entity.Donation, error)

	CreateDonation(ctx context.Context, donation *entity.Donation) error
	UpdateDonation(ctx context.Context, donation *entity.Donation) error

	RecordDonationEvent(ctx context.Context, event *entity.DonationEvent) error
}

// TxScope opens one atomic ledger transaction per invocation. An error from
// fn rolls the row back; nil commits it.
type TxScope interface {
	RunInTransaction(ctx context.Context, fn func(ledger Ledger) error) error
}
