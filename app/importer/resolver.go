package importer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// DonorIdentity is the resolved identity key for a donor. Placeholder
// identities are derived deterministically from whatever contact fields the
// gateway supplied, so re-imports resolve to the same donor and unrelated
// donors are never merged under a shared sentinel.
type DonorIdentity struct {
	Email       string
	Name        string
	Placeholder bool
}

// ResolveDonorIdentity picks the donor key for a transaction: primary email,
// then billing email, then a placeholder derived from contact fields, then a
// placeholder derived from the gateway identifiers.
func ResolveDonorIdentity(tx *Transaction) DonorIdentity {
	if tx.Email != "" {
		return DonorIdentity{Email: tx.Email, Name: tx.DonorName}
	}
	if tx.FallbackEmail != "" {
		return DonorIdentity{Email: tx.FallbackEmail, Name: tx.DonorName}
	}

	if tx.Phone != "" || tx.Address != "" || tx.DonorName != "" {
		return DonorIdentity{
			Email:       placeholderEmail(tx.Phone, tx.Address, tx.DonorName),
			Name:        tx.DonorName,
			Placeholder: true,
		}
	}

	return DonorIdentity{
		Email:       placeholderEmail(tx.CustomerID, tx.ChargeID),
		Placeholder: true,
	}
}

// HasContactFields reports whether any donor-identifying field was present
// on the transaction; without one the donor identity counts as missing for
// the status resolver.
func HasContactFields(tx *Transaction) bool {
	return tx.Email != "" || tx.FallbackEmail != "" || tx.Phone != "" || tx.Address != "" || tx.DonorName != ""
}

func placeholderEmail(fields ...string) string {
	digest := sha256.Sum256([]byte(strings.Join(fields, "|")))
	return "donor+" + hex.EncodeToString(digest[:8]) + "@placeholder.invalid"
}

// Resolution holds the ledger references resolved for one transaction.
type Resolution struct {
	Donor        DonorRef
	MissingDonor bool

	Project     *ProjectRef
	Child       *ChildRef
	Sponsorship *SponsorshipRef
	Invoice     *InvoiceRef
}

// EntityResolver resolves or lazily creates the ledger entities a classified
// transaction refers to. Sponsorship creation is a separate, explicit step:
// the orchestrator invokes EnsureSponsorship only for subscription-linked
// child beneficiaries.
type EntityResolver struct {
	ledger Ledger
}

func NewEntityResolver(ledger Ledger) *EntityResolver {
	return &EntityResolver{ledger: ledger}
}

func (r *EntityResolver) Resolve(ctx context.Context, tx *Transaction, beneficiary Beneficiary) (*Resolution, error) {
	res := &Resolution{MissingDonor: !HasContactFields(tx)}

	donor, err := r.ledger.FindOrCreateDonor(ctx, ResolveDonorIdentity(tx))
	if err != nil {
		return nil, err
	}
	res.Donor = donor

	switch beneficiary.Kind {
	case BeneficiaryProject:
		project, err := r.ledger.FindOrCreateProject(ctx, beneficiary.Name)
		if err != nil {
			return nil, err
		}
		res.Project = &project
	case BeneficiaryChild:
		child, err := r.ledger.FindOrCreateChild(ctx, beneficiary.Name)
		if err != nil {
			return nil, err
		}
		res.Child = &child
	}

	if tx.InvoiceID != "" {
		invoice, err := r.ledger.FindOrCreateInvoice(ctx, tx.InvoiceID)
		if err != nil {
			return nil, err
		}
		res.Invoice = &invoice
	}

	return res, nil
}

// EnsureSponsorship creates (or finds) the donor-child sponsorship link for a
// subscription-linked child donation.
func (r *EntityResolver) EnsureSponsorship(ctx context.Context, res *Resolution) error {
	if res.Child == nil {
		return nil
	}
	sponsorship, err := r.ledger.FindOrCreateSponsorship(ctx, res.Donor.ID, res.Child.ID)
	if err != nil {
		return err
	}
	res.Sponsorship = &sponsorship
	return nil
}
