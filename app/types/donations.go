package types

import (
	"errors"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mlongerich/DonationTracker-sub005/app/entity"
)

var donationStatusLabels = map[int32]string{
	entity.DonationStatusSucceeded:      "succeeded",
	entity.DonationStatusFailed:         "failed",
	entity.DonationStatusRefunded:       "refunded",
	entity.DonationStatusCanceled:       "canceled",
	entity.DonationStatusNeedsAttention: "needs_attention",
}

func DonationStatusLabel(status int32) string {
	if label, ok := donationStatusLabels[status]; ok {
		return label
	}
	return "unknown"
}

func ParseDonationStatus(label string) (int32, error) {
	for status, candidate := range donationStatusLabels {
		if candidate == label {
			return status, nil
		}
	}
	return 0, errors.New("invalid status")
}

type GetDonationRequest struct {
	Id uint64
}

func NewGetDonationRequestFromContext(ctx echo.Context) (*GetDonationRequest, error) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return nil, err
	}
	return &GetDonationRequest{Id: id}, nil
}

func (r *GetDonationRequest) GetId() uint64 {
	return r.Id
}

func (r *GetDonationRequest) Validate() error {
	if r.Id == 0 {
		return errors.New("invalid donation id")
	}
	return nil
}

type ListDonationsRequest struct {
	GatewayChargeId string
	HasStatus       bool
	Status          int32
	Limit           int32
	Offset          int32
}

func NewListDonationsRequestFromContext(ctx echo.Context) (*ListDonationsRequest, error) {
	req := &ListDonationsRequest{
		GatewayChargeId: strings.TrimSpace(ctx.QueryParam("gateway_charge_id")),
		Limit:           100,
		Offset:          0,
	}

	statusRaw := strings.TrimSpace(strings.ToLower(ctx.QueryParam("status")))
	if statusRaw != "" {
		status, err := ParseDonationStatus(statusRaw)
		if err != nil {
			return nil, err
		}
		req.HasStatus = true
		req.Status = status
	}

	if limitRaw := strings.TrimSpace(ctx.QueryParam("limit")); limitRaw != "" {
		limit, err := strconv.ParseInt(limitRaw, 10, 32)
		if err != nil {
			return nil, err
		}
		req.Limit = int32(limit)
	}

	if offsetRaw := strings.TrimSpace(ctx.QueryParam("offset")); offsetRaw != "" {
		offset, err := strconv.ParseInt(offsetRaw, 10, 32)
		if err != nil {
			return nil, err
		}
		req.Offset = int32(offset)
	}

	return req, nil
}

func (r *ListDonationsRequest) GetGatewayChargeId() string { return r.GatewayChargeId }
func (r *ListDonationsRequest) GetHasStatus() bool         { return r.HasStatus }
func (r *ListDonationsRequest) GetStatus() int32           { return r.Status }
func (r *ListDonationsRequest) GetLimit() int32            { return r.Limit }
func (r *ListDonationsRequest) GetOffset() int32           { return r.Offset }

func (r *ListDonationsRequest) Validate() error {
	if r.Limit <= 0 || r.Limit > 500 {
		return errors.New("limit must be between 1 and 500")
	}
	if r.Offset < 0 {
		return errors.New("offset must be >= 0")
	}
	return nil
}
