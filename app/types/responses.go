package types

type HealthResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type Donation struct {
	Id                            uint64 `json:"id"`
	DonorId                       uint64 `json:"donor_id"`
	ProjectId                     uint64 `json:"project_id,omitempty"`
	ChildId                       uint64 `json:"child_id,omitempty"`
	SponsorshipId                 uint64 `json:"sponsorship_id,omitempty"`
	InvoiceId                     uint64 `json:"invoice_id,omitempty"`
	AmountCents                   int64  `json:"amount_cents"`
	DonationDate                  string `json:"donation_date,omitempty"`
	Status                        string `json:"status"`
	GatewayChargeId               string `json:"gateway_charge_id"`
	GatewaySubscriptionId         string `json:"gateway_subscription_id,omitempty"`
	DuplicateSubscriptionDetected bool   `json:"duplicate_subscription_detected"`
	NeedsAttentionReason          string `json:"needs_attention_reason,omitempty"`
	CreatedAt                     string `json:"created_at"`
	UpdatedAt                     string `json:"updated_at"`
}

type DonationEnvelopeResponse struct {
	Donation *Donation `json:"donation"`
}

type ListDonationsResponse struct {
	Donations []*Donation `json:"donations"`
}

type ImportRowError struct {
	RowIndex int               `json:"row_index"`
	Message  string            `json:"message"`
	RawRow   map[string]string `json:"raw_row"`
}

type ImportRun struct {
	Id                  string            `json:"id"`
	Profile             string            `json:"profile"`
	RowsTotal           int32             `json:"rows_total"`
	SucceededCount      int32             `json:"succeeded_count"`
	FailedCount         int32             `json:"failed_count"`
	NeedsAttentionCount int32             `json:"needs_attention_count"`
	SkippedCount        int32             `json:"skipped_count"`
	Errors              []*ImportRowError `json:"errors"`
	StartedAt           string            `json:"started_at"`
	FinishedAt          string            `json:"finished_at"`
}

type ImportRunEnvelopeResponse struct {
	ImportRun *ImportRun `json:"import_run"`
}

type ListImportRunsResponse struct {
	ImportRuns []*ImportRun `json:"import_runs"`
}
