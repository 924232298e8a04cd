package importer

import "errors"

var ErrProfileNotSupported = errors.New("format profile is not supported")

const (
	ProfileLegacyExport  = "legacy_export"
	ProfileWebhookExport = "webhook_export"
)

// ColumnMap names the input columns that supply each Transaction field for
// one export format.
type ColumnMap struct {
	ChargeID       string
	InvoiceID      string
	SubscriptionID string
	CustomerID     string
	Amount         string
	Date           string
	Status         string
	PlanLabel      string
	Description    string

	Email         string
	FallbackEmail string
	Phone         string
	Address       string
	DonorName     string
}

type Profile struct {
	Name    string
	Columns ColumnMap

	// MetadataColumns maps recognized metadata keys (child_id, project_id,
	// donation_type, source) to the columns carrying them.
	MetadataColumns map[string]string

	DateLayouts []string
}

type ProfileRegistry struct {
	profiles map[string]Profile
}

func NewProfileRegistry(profiles ...Profile) *ProfileRegistry {
	items := make(map[string]Profile, len(profiles))
	for _, p := range profiles {
		items[p.Name] = p
	}
	return &ProfileRegistry{profiles: items}
}

func (r *ProfileRegistry) Get(name string) (Profile, error) {
	profile, ok := r.profiles[name]
	if !ok {
		return Profile{}, ErrProfileNotSupported
	}
	return profile, nil
}

// DefaultProfileRegistry carries the two shipped formats: the flat legacy
// export and the metadata-bearing webhook export.
func DefaultProfileRegistry() *ProfileRegistry {
	return NewProfileRegistry(LegacyExportProfile(), WebhookExportProfile())
}

func LegacyExportProfile() Profile {
	return Profile{
		Name: ProfileLegacyExport,
		Columns: ColumnMap{
			ChargeID:       "charge_id",
			InvoiceID:      "invoice_id",
			SubscriptionID: "subscription_id",
			CustomerID:     "customer_id",
			Amount:         "amount",
			Date:           "date",
			Status:         "status",
			PlanLabel:      "plan",
			Description:    "description",
			Email:          "email",
			FallbackEmail:  "billing_email",
			Phone:          "phone",
			Address:        "address",
			DonorName:      "name",
		},
		DateLayouts: []string{"2006-01-02", "01/02/2006", "2006-01-02 15:04:05"},
	}
}

func WebhookExportProfile() Profile {
	return Profile{
		Name: ProfileWebhookExport,
		Columns: ColumnMap{
			ChargeID:       "charge.id",
			InvoiceID:      "invoice.id",
			SubscriptionID: "subscription.id",
			CustomerID:     "customer.id",
			Amount:         "amount",
			Date:           "created",
			Status:         "status",
			PlanLabel:      "plan.nickname",
			Description:    "description",
			Email:          "customer.email",
			FallbackEmail:  "billing_details.email",
			Phone:          "billing_details.phone",
			Address:        "billing_details.address",
			DonorName:      "billing_details.name",
		},
		MetadataColumns: map[string]string{
			MetadataKeyChildID:      "metadata.child_id",
			MetadataKeyProjectID:    "metadata.project_id",
			MetadataKeyDonationType: "metadata.donation_type",
			MetadataKeySource:       "metadata.source",
		},
		DateLayouts: []string{"2006-01-02T15:04:05Z07:00", "2006-01-02"},
	}
}
