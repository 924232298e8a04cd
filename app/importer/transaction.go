package importer

import "time"

// RawRow is one already-decoded export row as delivered by the ingestion
// layer: column name to raw string value. Metadata sub-keys arrive flattened
// under a "metadata." prefix.
type RawRow map[string]string

const (
	MetadataKeyChildID      = "child_id"
	MetadataKeyProjectID    = "project_id"
	MetadataKeyDonationType = "donation_type"
	MetadataKeySource       = "source"
)

// Transaction is the canonical, immutable view of one gateway export row.
type Transaction struct {
	ChargeID       string
	InvoiceID      string
	SubscriptionID string
	CustomerID     string

	AmountCents int64
	Date        time.Time

	GatewayStatus string

	Description string
	PlanLabel   string

	Email         string
	FallbackEmail string
	Phone         string
	Address       string
	DonorName     string

	Metadata map[string]string
}

func (t *Transaction) Recurring() bool {
	return t.SubscriptionID != ""
}
