package importer

import (
	"fmt"
	"strings"

	"github.com/mlongerich/DonationTracker-sub005/app/entity"
)

const (
	GatewayStatusSucceeded = "succeeded"
	GatewayStatusFailed    = "failed"
	GatewayStatusRefunded  = "refunded"
	GatewayStatusCanceled  = "canceled"
)

// StatusInput feeds the per-transaction status state machine.
type StatusInput struct {
	GatewayStatus         string
	DuplicateSubscription bool
	MissingFields         []string
}

// ResolveStatus evaluates the state machine for a freshly imported
// transaction, in priority order: gateway failure, duplicate-subscription
// anomaly, missing required fields, success. The reason names every missing
// field so a reviewer sees the whole problem at once.
func ResolveStatus(in StatusInput) (int32, *string) {
	if in.GatewayStatus == GatewayStatusFailed {
		return entity.DonationStatusFailed, nil
	}
	if in.DuplicateSubscription {
		reason := "duplicate subscription detected for this invoice and child"
		return entity.DonationStatusNeedsAttention, &reason
	}
	if len(in.MissingFields) > 0 {
		reason := "missing required fields: " + strings.Join(in.MissingFields, ", ")
		return entity.DonationStatusNeedsAttention, &reason
	}

	switch in.GatewayStatus {
	case GatewayStatusSucceeded, "":
		return entity.DonationStatusSucceeded, nil
	case GatewayStatusRefunded:
		return entity.DonationStatusRefunded, nil
	case GatewayStatusCanceled:
		return entity.DonationStatusCanceled, nil
	}

	// An unrecognized gateway status is never trusted as success.
	reason := fmt.Sprintf("unrecognized gateway status %q", in.GatewayStatus)
	return entity.DonationStatusNeedsAttention, &reason
}

// NextStatus applies the re-import transition rules to an already-recorded
// donation and reports whether anything changed. Transitions from succeeded
// are forward-only (refunded/canceled); needs_attention may recover to
// succeeded once its anomaly clears, but never moves to failed on its own.
func NextStatus(current, resolved int32, gatewayStatus string) (int32, bool) {
	switch current {
	case entity.DonationStatusSucceeded:
		switch gatewayStatus {
		case GatewayStatusRefunded:
			return entity.DonationStatusRefunded, true
		case GatewayStatusCanceled:
			return entity.DonationStatusCanceled, true
		}
	case entity.DonationStatusNeedsAttention:
		if resolved == entity.DonationStatusSucceeded {
			return entity.DonationStatusSucceeded, true
		}
	case entity.DonationStatusFailed:
		if resolved == entity.DonationStatusSucceeded {
			return entity.DonationStatusSucceeded, true
		}
	}
	return current, false
}
