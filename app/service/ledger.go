package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/mlongerich/DonationTracker-sub005/app/entity"
	"github.com/mlongerich/DonationTracker-sub005/app/importer"
	"github.com/mlongerich/DonationTracker-sub005/app/repository"
)

// repoLedger implements the engine's ledger contract over the MySQL
// repositories, bound to one DBTX so all writes for a row share its
// transaction.
type repoLedger struct {
	donors       *repository.DonorRepository
	projects     *repository.ProjectRepository
	children     *repository.ChildRepository
	sponsorships *repository.SponsorshipRepository
	invoices     *repository.InvoiceRepository
	donations    *repository.DonationRepository
	events       *repository.DonationEventRepository
}

func newRepoLedger(db repository.DBTX) *repoLedger {
	return &repoLedger{
		donors:       repository.NewDonorRepository(db),
		projects:     repository.NewProjectRepository(db),
		children:     repository.NewChildRepository(db),
		sponsorships: repository.NewSponsorshipRepository(db),
		invoices:     repository.NewInvoiceRepository(db),
		donations:    repository.NewDonationRepository(db),
		events:       repository.NewDonationEventRepository(db),
	}
}

func (l *repoLedger) FindOrCreateDonor(ctx context.Context, identity importer.DonorIdentity) (importer.DonorRef, error) {
	existing, err := l.donors.FindByEmail(ctx, identity.Email)
	if err != nil {
		return importer.DonorRef{}, err
	}
	if existing != nil {
		return importer.DonorRef{ID: existing.ID, Email: existing.Email}, nil
	}

	now := time.Now().UTC()
	donor := &entity.Donor{
		Email:               identity.Email,
		PlaceholderIdentity: identity.Placeholder,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if identity.Name != "" {
		name := identity.Name
		donor.Name = &name
	}

	if err := l.donors.Create(ctx, donor); err != nil {
		if errors.Is(err, repository.ErrDonorAlreadyExists) {
			return l.FindOrCreateDonor(ctx, identity)
		}
		return importer.DonorRef{}, err
	}
	return importer.DonorRef{ID: donor.ID, Email: donor.Email}, nil
}

func (l *repoLedger) FindOrCreateProject(ctx context.Context, name string) (importer.ProjectRef, error) {
	existing, err := l.projects.FindByName(ctx, name)
	if err != nil {
		return importer.ProjectRef{}, err
	}
	if existing != nil {
		return importer.ProjectRef{ID: existing.ID, Name: existing.Name}, nil
	}

	project := &entity.Project{Name: name, CreatedAt: time.Now().UTC()}
	if err := l.projects.Create(ctx, project); err != nil {
		if errors.Is(err, repository.ErrProjectAlreadyExists) {
			return l.FindOrCreateProject(ctx, name)
		}
		return importer.ProjectRef{}, err
	}
	return importer.ProjectRef{ID: project.ID, Name: project.Name}, nil
}

func (l *repoLedger) FindOrCreateChild(ctx context.Context, name string) (importer.ChildRef, error) {
	existing, err := l.children.FindByName(ctx, name)
	if err != nil {
		return importer.ChildRef{}, err
	}
	if existing != nil {
		return importer.ChildRef{ID: existing.ID, Name: existing.Name}, nil
	}

	child := &entity.Child{Name: name, CreatedAt: time.Now().UTC()}
	if err := l.children.Create(ctx, child); err != nil {
		if errors.Is(err, repository.ErrChildAlreadyExists) {
			return l.FindOrCreateChild(ctx, name)
		}
		return importer.ChildRef{}, err
	}
	return importer.ChildRef{ID: child.ID, Name: child.Name}, nil
}

func (l *repoLedger) FindOrCreateSponsorship(ctx context.Context, donorID, childID uint64) (importer.SponsorshipRef, error) {
	existing, err := l.sponsorships.FindByDonorAndChild(ctx, donorID, childID)
	if err != nil {
		return importer.SponsorshipRef{}, err
	}
	if existing != nil {
		return importer.SponsorshipRef{ID: existing.ID}, nil
	}

	sponsorship := &entity.Sponsorship{DonorID: donorID, ChildID: childID, CreatedAt: time.Now().UTC()}
	if err := l.sponsorships.Create(ctx, sponsorship); err != nil {
		if errors.Is(err, repository.ErrSponsorshipAlreadyExists) {
			return l.FindOrCreateSponsorship(ctx, donorID, childID)
		}
		return importer.SponsorshipRef{}, err
	}
	return importer.SponsorshipRef{ID: sponsorship.ID}, nil
}

func (l *repoLedger) FindOrCreateInvoice(ctx context.Context, gatewayInvoiceID string) (importer.InvoiceRef, error) {
	existing, err := l.invoices.FindByGatewayID(ctx, gatewayInvoiceID)
	if err != nil {
		return importer.InvoiceRef{}, err
	}
	if existing != nil {
		return importer.InvoiceRef{ID: existing.ID, GatewayInvoiceID: existing.GatewayInvoiceID}, nil
	}

	invoice := &entity.Invoice{GatewayInvoiceID: gatewayInvoiceID, CreatedAt: time.Now().UTC()}
	if err := l.invoices.Create(ctx, invoice); err != nil {
		if errors.Is(err, repository.ErrInvoiceAlreadyExists) {
			return l.FindOrCreateInvoice(ctx, gatewayInvoiceID)
		}
		return importer.InvoiceRef{}, err
	}
	return importer.InvoiceRef{ID: invoice.ID, GatewayInvoiceID: invoice.GatewayInvoiceID}, nil
}

func (l *repoLedger) FindDonationBySubscriptionAndChild(ctx context.Context, subscriptionID string, childID uint64) (*entity.Donation, error) {
	return l.donations.FindBySubscriptionAndChild(ctx, subscriptionID, childID)
}

func (l *repoLedger) FindConflictingSubscriptionDonation(ctx context.Context, invoiceID, childID uint64, subscriptionID string) (*entity.Donation, error) {
	return l.donations.FindConflictingSubscription(ctx, invoiceID, childID, subscriptionID)
}

func (l *repoLedger) FindDonationByChargeAndProject(ctx context.Context, chargeID string, projectID uint64) (*entity.Donation, error) {
	return l.donations.FindByChargeAndProject(ctx, chargeID, projectID)
}

func (l *repoLedger) FindDonationByChargeAndDonor(ctx context.Context, chargeID string, donorID uint64) (*entity.Donation, error) {
	return l.donations.FindByChargeAndDonor(ctx, chargeID, donorID)
}

func (l *repoLedger) CreateDonation(ctx context.Context, donation *entity.Donation) error {
	return l.donations.Create(ctx, donation)
}

func (l *repoLedger) UpdateDonation(ctx context.Context, donation *entity.Donation) error {
	return l.donations.Update(ctx, donation)
}

func (l *repoLedger) RecordDonationEvent(ctx context.Context, event *entity.DonationEvent) error {
	return l.events.Create(ctx, event)
}

// sqlTxScope opens one database transaction per row; the engine commits a
// row by returning nil and rolls it back by returning an error.
type sqlTxScope struct {
	db *sql.DB
}

func NewSQLTxScope(db *sql.DB) importer.TxScope {
	return &sqlTxScope{db: db}
}

func (s *sqlTxScope) RunInTransaction(ctx context.Context, fn func(ledger importer.Ledger) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if err := fn(newRepoLedger(tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
