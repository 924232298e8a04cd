package service

import (
	"context"
	"strings"

	"github.com/mlongerich/DonationTracker-sub005/app/entity"
	"github.com/mlongerich/DonationTracker-sub005/app/repository"
)

const defaultListLimit = int32(100)

type donationRepository interface {
	FindByID(ctx context.Context, id uint64) (*entity.Donation, error)
	List(ctx context.Context, filter repository.DonationFilter) ([]*entity.Donation, error)
}

type listDonationsRequest interface {
	GetGatewayChargeId() string
	GetHasStatus() bool
	GetStatus() int32
	GetLimit() int32
	GetOffset() int32
}

// DonationService is the read side for the reporting/UI layer.
type DonationService struct {
	donationRepo donationRepository
}

func NewDonationService(donationRepo donationRepository) *DonationService {
	return &DonationService{donationRepo: donationRepo}
}

func (s *DonationService) GetDonation(ctx context.Context, id uint64) (*entity.Donation, error) {
	donation, err := s.donationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if donation == nil {
		return nil, ErrDonationNotFound
	}
	return donation, nil
}

func (s *DonationService) ListDonations(ctx context.Context, req listDonationsRequest) ([]*entity.Donation, error) {
	limit := req.GetLimit()
	if limit <= 0 {
		limit = defaultListLimit
	}

	filter := repository.DonationFilter{
		GatewayChargeID: strings.TrimSpace(req.GetGatewayChargeId()),
		HasStatus:       req.GetHasStatus(),
		Status:          req.GetStatus(),
		Limit:           limit,
		Offset:          req.GetOffset(),
	}

	return s.donationRepo.List(ctx, filter)
}
