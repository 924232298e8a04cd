package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mlongerich/DonationTracker-sub005/app/entity"
)

// RowError is one row that raised an error during processing; the raw data
// is kept so nothing from the export is ever lost.
type RowError struct {
	RowIndex int    `json:"row_index"`
	Message  string `json:"message"`
	RawRow   RawRow `json:"raw_row"`
}

// Result is the run summary handed to the reporting layer.
type Result struct {
	SucceededCount      int32      `json:"succeeded_count"`
	FailedCount         int32      `json:"failed_count"`
	NeedsAttentionCount int32      `json:"needs_attention_count"`
	SkippedCount        int32      `json:"skipped_count"`
	Errors              []RowError `json:"errors"`
}

// Runner drives one reconciliation pass over an export. Rows are processed
// strictly in order, each inside its own ledger transaction, so a later
// row's same-invoice anomaly check can see earlier committed rows and no
// single row failure can take down the batch.
type Runner struct {
	scope      TxScope
	profile    Profile
	classifier *Classifier
	logger     logrus.FieldLogger
}

func NewRunner(scope TxScope, profile Profile, classifier *Classifier, logger logrus.FieldLogger) *Runner {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Runner{
		scope:      scope,
		profile:    profile,
		classifier: classifier,
		logger:     logger,
	}
}

// Run processes every row and returns the four outcome counters plus the
// ordered row errors. The only way to stop early is cancelling ctx, which
// takes effect between rows; committed rows stay committed and the run can
// be resumed by re-importing the same file.
func (r *Runner) Run(ctx context.Context, rows []RawRow) *Result {
	result := &Result{Errors: make([]RowError, 0)}

	for index, row := range rows {
		if err := ctx.Err(); err != nil {
			result.Errors = append(result.Errors, RowError{RowIndex: index, Message: err.Error(), RawRow: row})
			result.FailedCount++
			continue
		}

		outcome, err := r.processRow(ctx, row)
		if err != nil {
			r.logger.WithError(err).WithField("row_index", index).Warn("import_row_failed")
			result.Errors = append(result.Errors, RowError{RowIndex: index, Message: err.Error(), RawRow: row})
			result.FailedCount++
			continue
		}

		switch outcome {
		case rowOutcomeSkipped:
			result.SkippedCount++
		case rowOutcomeFailed:
			result.FailedCount++
		case rowOutcomeNeedsAttention:
			result.NeedsAttentionCount++
		default:
			result.SucceededCount++
		}
	}

	return result
}

type rowOutcome int

const (
	rowOutcomeSucceeded rowOutcome = iota + 1
	rowOutcomeSkipped
	rowOutcomeFailed
	rowOutcomeNeedsAttention
)

func (r *Runner) processRow(ctx context.Context, row RawRow) (rowOutcome, error) {
	tx, issues := Normalize(row, r.profile)
	beneficiary := r.classifier.Classify(tx)

	var outcome rowOutcome
	err := r.scope.RunInTransaction(ctx, func(ledger Ledger) error {
		resolver := NewEntityResolver(ledger)
		res, err := resolver.Resolve(ctx, tx, beneficiary)
		if err != nil {
			return err
		}

		finding, err := NewDetector(ledger).Detect(ctx, tx, res)
		if err != nil {
			return err
		}

		if finding.Existing != nil {
			outcome, err = r.reconcileExisting(ctx, ledger, tx, res, finding)
			return err
		}

		if tx.Recurring() && res.Child != nil {
			if err := resolver.EnsureSponsorship(ctx, res); err != nil {
				return err
			}
		}

		outcome, err = r.recordNew(ctx, ledger, tx, beneficiary, res, finding, issues)
		return err
	})
	if err != nil {
		return 0, err
	}
	return outcome, nil
}

func (r *Runner) recordNew(ctx context.Context, ledger Ledger, tx *Transaction, beneficiary Beneficiary, res *Resolution, finding *Finding, issues []FieldIssue) (rowOutcome, error) {
	status, reason := ResolveStatus(StatusInput{
		GatewayStatus:         tx.GatewayStatus,
		DuplicateSubscription: finding.DuplicateSubscription,
		MissingFields:         missingFields(tx, beneficiary, res, issues),
	})

	now := time.Now().UTC()
	donation := &entity.Donation{
		DonorID:                       res.Donor.ID,
		AmountCents:                   tx.AmountCents,
		DonationDate:                  tx.Date,
		Status:                        status,
		GatewayChargeID:               tx.ChargeID,
		DuplicateSubscriptionDetected: finding.DuplicateSubscription,
		NeedsAttentionReason:          reason,
		CreatedAt:                     now,
		UpdatedAt:                     now,
	}
	if tx.SubscriptionID != "" {
		subscriptionID := tx.SubscriptionID
		donation.GatewaySubscriptionID = &subscriptionID
	}
	if res.Project != nil {
		donation.ProjectID = &res.Project.ID
	}
	if res.Child != nil {
		donation.ChildID = &res.Child.ID
	}
	if res.Sponsorship != nil {
		donation.SponsorshipID = &res.Sponsorship.ID
	}
	if res.Invoice != nil {
		donation.InvoiceID = &res.Invoice.ID
	}

	if err := ledger.CreateDonation(ctx, donation); err != nil {
		return 0, fmt.Errorf("create donation: %w", err)
	}

	if err := ledger.RecordDonationEvent(ctx, &entity.DonationEvent{
		DonationID: donation.ID,
		EventType:  "donation_recorded",
		NewStatus:  status,
		CreatedAt:  now,
	}); err != nil {
		r.logger.WithError(err).WithField("donation_id", donation.ID).Warn("donation_event_write_failed")
	}

	switch status {
	case entity.DonationStatusFailed:
		return rowOutcomeFailed, nil
	case entity.DonationStatusNeedsAttention:
		return rowOutcomeNeedsAttention, nil
	default:
		return rowOutcomeSucceeded, nil
	}
}

func (r *Runner) reconcileExisting(ctx context.Context, ledger Ledger, tx *Transaction, res *Resolution, finding *Finding) (rowOutcome, error) {
	existing := finding.Existing
	resolved, reason := ResolveStatus(StatusInput{
		GatewayStatus:         tx.GatewayStatus,
		DuplicateSubscription: finding.DuplicateSubscription,
		MissingFields:         missingFieldsForExisting(tx, res),
	})

	next, changed := NextStatus(existing.Status, resolved, tx.GatewayStatus)
	if !changed {
		return rowOutcomeSkipped, nil
	}

	now := time.Now().UTC()
	oldStatus := existing.Status
	existing.Status = next
	if next == entity.DonationStatusSucceeded {
		existing.NeedsAttentionReason = nil
		existing.DuplicateSubscriptionDetected = false
	} else {
		existing.NeedsAttentionReason = reason
	}
	// A corrected re-import carries the values the original row lacked.
	if tx.AmountCents > 0 {
		existing.AmountCents = tx.AmountCents
	}
	if !tx.Date.IsZero() {
		existing.DonationDate = tx.Date
	}
	existing.UpdatedAt = now

	if err := ledger.UpdateDonation(ctx, existing); err != nil {
		return 0, fmt.Errorf("update donation: %w", err)
	}

	if err := ledger.RecordDonationEvent(ctx, &entity.DonationEvent{
		DonationID: existing.ID,
		EventType:  "donation_reconciled",
		OldStatus:  &oldStatus,
		NewStatus:  next,
		CreatedAt:  now,
	}); err != nil {
		r.logger.WithError(err).WithField("donation_id", existing.ID).Warn("donation_event_write_failed")
	}

	if next == entity.DonationStatusNeedsAttention {
		return rowOutcomeNeedsAttention, nil
	}
	return rowOutcomeSucceeded, nil
}

func missingFields(tx *Transaction, beneficiary Beneficiary, res *Resolution, issues []FieldIssue) []string {
	missing := make([]string, 0, 3)
	if res.MissingDonor {
		missing = append(missing, "donor identity")
	}
	if tx.AmountCents <= 0 {
		missing = append(missing, "non-zero amount")
	}
	if beneficiary.Kind != BeneficiaryGeneral && beneficiary.Name == "" {
		missing = append(missing, "beneficiary")
	}
	for _, issue := range issues {
		if issue.Field == "amount" || issue.Field == "date" {
			continue // already surfaced through the amount/date fields above
		}
		missing = append(missing, issue.String())
	}
	return missing
}

func missingFieldsForExisting(tx *Transaction, res *Resolution) []string {
	missing := make([]string, 0, 2)
	if res.MissingDonor {
		missing = append(missing, "donor identity")
	}
	if tx.AmountCents <= 0 {
		missing = append(missing, "non-zero amount")
	}
	return missing
}
