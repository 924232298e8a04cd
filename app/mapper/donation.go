package mapper

import (
	"encoding/json"
	"time"

	"github.com/mlongerich/DonationTracker-sub005/app/entity"
	"github.com/mlongerich/DonationTracker-sub005/app/types"
)

func DonationToResponse(item *entity.Donation) *types.Donation {
	if item == nil {
		return nil
	}

	resp := &types.Donation{
		Id:                            item.ID,
		DonorId:                       item.DonorID,
		ProjectId:                     derefUint64(item.ProjectID),
		ChildId:                       derefUint64(item.ChildID),
		SponsorshipId:                 derefUint64(item.SponsorshipID),
		InvoiceId:                     derefUint64(item.InvoiceID),
		AmountCents:                   item.AmountCents,
		Status:                        types.DonationStatusLabel(item.Status),
		GatewayChargeId:               item.GatewayChargeID,
		GatewaySubscriptionId:         derefString(item.GatewaySubscriptionID),
		DuplicateSubscriptionDetected: item.DuplicateSubscriptionDetected,
		NeedsAttentionReason:          derefString(item.NeedsAttentionReason),
		CreatedAt:                     item.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:                     item.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if !item.DonationDate.IsZero() {
		resp.DonationDate = item.DonationDate.UTC().Format("2006-01-02")
	}
	return resp
}

func DonationsToResponse(items []*entity.Donation) []*types.Donation {
	result := make([]*types.Donation, 0, len(items))
	for _, item := range items {
		result = append(result, DonationToResponse(item))
	}
	return result
}

func ImportRunToResponse(item *entity.ImportRun) *types.ImportRun {
	if item == nil {
		return nil
	}

	rowErrors := make([]*types.ImportRowError, 0)
	if item.ErrorsJSON != "" {
		// Stored by the import service; a decode failure leaves the error
		// list empty rather than failing the read.
		_ = json.Unmarshal([]byte(item.ErrorsJSON), &rowErrors)
	}

	return &types.ImportRun{
		Id:                  item.PublicID,
		Profile:             item.Profile,
		RowsTotal:           item.RowsTotal,
		SucceededCount:      item.SucceededCount,
		FailedCount:         item.FailedCount,
		NeedsAttentionCount: item.NeedsAttentionCount,
		SkippedCount:        item.SkippedCount,
		Errors:              rowErrors,
		StartedAt:           item.StartedAt.UTC().Format(time.RFC3339),
		FinishedAt:          item.FinishedAt.UTC().Format(time.RFC3339),
	}
}

func ImportRunsToResponse(items []*entity.ImportRun) []*types.ImportRun {
	result := make([]*types.ImportRun, 0, len(items))
	for _, item := range items {
		result = append(result, ImportRunToResponse(item))
	}
	return result
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func derefUint64(v *uint64) uint64 {
	if v == nil {
		return 0
	}
	return *v
}
