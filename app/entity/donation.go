package entity

import "time"

const (
	DonationStatusSucceeded      int32 = 1
	DonationStatusFailed         int32 = 2
	DonationStatusRefunded       int32 = 3
	DonationStatusCanceled       int32 = 4
	DonationStatusNeedsAttention int32 = 5
)

type Donation struct {
	ID uint64

	DonorID       uint64
	ProjectID     *uint64
	ChildID       *uint64
	SponsorshipID *uint64
	InvoiceID     *uint64

	AmountCents  int64
	DonationDate time.Time

	Status int32

	GatewayChargeID       string
	GatewaySubscriptionID *string

	DuplicateSubscriptionDetected bool
	NeedsAttentionReason          *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
