package importer

import (
	"context"

	"github.com/mlongerich/DonationTracker-sub005/app/entity"
)

// Finding is the detector's verdict for one transaction. Existing is the
// donation already recorded under the transaction's idempotency key, if any.
// DuplicateSubscription marks the same-invoice-same-child-different-
// subscription anomaly: that transaction is recorded as a new donation,
// flagged for review, never merged into the earlier one.
type Finding struct {
	Existing              *entity.Donation
	DuplicateSubscription bool
}

// Detector decides whether a transaction already has a ledger donation.
// Recurring shape keys on (subscription id, child); one-time shape keys on
// (charge id, project) or (charge id, donor) when no project is involved.
type Detector struct {
	ledger Ledger
}

func NewDetector(ledger Ledger) *Detector {
	return &Detector{ledger: ledger}
}

func (d *Detector) Detect(ctx context.Context, tx *Transaction, res *Resolution) (*Finding, error) {
	if tx.Recurring() && res.Child != nil {
		return d.detectRecurring(ctx, tx, res)
	}
	return d.detectOneTime(ctx, tx, res)
}

func (d *Detector) detectRecurring(ctx context.Context, tx *Transaction, res *Resolution) (*Finding, error) {
	existing, err := d.ledger.FindDonationBySubscriptionAndChild(ctx, tx.SubscriptionID, res.Child.ID)
	if err != nil {
		return nil, err
	}

	finding := &Finding{Existing: existing}
	if res.Invoice == nil {
		return finding, nil
	}
	if existing != nil && !existing.DuplicateSubscriptionDetected {
		// The first subscription recorded under an invoice is never
		// retroactively flagged; the anomaly belongs to the later arrival.
		return finding, nil
	}

	// A donation for the same invoice and child under a different
	// subscription id means the gateway issued two subscriptions for one
	// child. The earlier donation stays untouched; this one is flagged. For
	// an already-flagged donation the check re-runs so the flag only clears
	// once the conflict is actually gone.
	conflicting, err := d.ledger.FindConflictingSubscriptionDonation(ctx, res.Invoice.ID, res.Child.ID, tx.SubscriptionID)
	if err != nil {
		return nil, err
	}
	finding.DuplicateSubscription = conflicting != nil

	return finding, nil
}

func (d *Detector) detectOneTime(ctx context.Context, tx *Transaction, res *Resolution) (*Finding, error) {
	// A blank charge id is not an idempotency key: two malformed rows for
	// the same donor must each be recorded, not merged as a re-import.
	if tx.ChargeID == "" {
		return &Finding{}, nil
	}

	if res.Project != nil {
		existing, err := d.ledger.FindDonationByChargeAndProject(ctx, tx.ChargeID, res.Project.ID)
		if err != nil {
			return nil, err
		}
		return &Finding{Existing: existing}, nil
	}

	existing, err := d.ledger.FindDonationByChargeAndDonor(ctx, tx.ChargeID, res.Donor.ID)
	if err != nil {
		return nil, err
	}
	return &Finding{Existing: existing}, nil
}
