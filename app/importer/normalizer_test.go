package importer

import (
	"testing"
	"time"
)

func legacyRow(overrides map[string]string) RawRow {
	row := RawRow{
		"charge_id":       "ch_100",
		"invoice_id":      "",
		"subscription_id": "",
		"customer_id":     "cus_100",
		"amount":          "25.00",
		"date":            "2024-03-01",
		"status":          "succeeded",
		"plan":            "",
		"description":     "General Donation",
		"email":           "donor@example.com",
		"billing_email":   "",
		"phone":           "",
		"address":         "",
		"name":            "Pat Donor",
	}
	for k, v := range overrides {
		row[k] = v
	}
	return row
}

func TestNormalizeLegacyRow(t *testing.T) {
	tx, issues := Normalize(legacyRow(nil), LegacyExportProfile())
	if len(issues) != 0 {
		t.Fatalf("expected no issues, got %v", issues)
	}
	if tx.ChargeID != "ch_100" {
		t.Fatalf("unexpected charge id: %s", tx.ChargeID)
	}
	if tx.AmountCents != 2500 {
		t.Fatalf("unexpected amount: %d", tx.AmountCents)
	}
	want := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	if !tx.Date.Equal(want) {
		t.Fatalf("unexpected date: %v", tx.Date)
	}
	if tx.GatewayStatus != "succeeded" {
		t.Fatalf("unexpected status: %s", tx.GatewayStatus)
	}
	if tx.Recurring() {
		t.Fatal("row without subscription must not be recurring")
	}
}

func TestNormalizeAmountFormats(t *testing.T) {
	cases := []struct {
		raw       string
		wantCents int64
		wantIssue bool
	}{
		{"25.00", 2500, false},
		{"$1,234.56", 123456, false},
		{"0.99", 99, false},
		{"100", 10000, false},
		{"", 0, true},
		{"abc", 0, true},
		{"-5.00", 0, true},
		{"10.005", 0, true},
	}

	for _, tc := range cases {
		tx, issues := Normalize(legacyRow(map[string]string{"amount": tc.raw}), LegacyExportProfile())
		if tx.AmountCents != tc.wantCents {
			t.Fatalf("amount %q: got %d cents, want %d", tc.raw, tx.AmountCents, tc.wantCents)
		}
		if tc.wantIssue && len(issues) == 0 {
			t.Fatalf("amount %q: expected an issue", tc.raw)
		}
		if !tc.wantIssue && len(issues) != 0 {
			t.Fatalf("amount %q: unexpected issues %v", tc.raw, issues)
		}
	}
}

func TestNormalizeCollectsIssuesWithoutRejecting(t *testing.T) {
	row := legacyRow(map[string]string{
		"charge_id": "",
		"amount":    "",
		"date":      "not-a-date",
	})

	tx, issues := Normalize(row, LegacyExportProfile())
	if tx == nil {
		t.Fatal("transaction must be produced even with issues")
	}
	if len(issues) != 3 {
		t.Fatalf("expected 3 issues, got %v", issues)
	}
	if !tx.Date.IsZero() {
		t.Fatalf("unparsable date must stay zero, got %v", tx.Date)
	}
}

func TestNormalizeWebhookMetadata(t *testing.T) {
	row := RawRow{
		"charge.id":         "ch_200",
		"invoice.id":        "in_200",
		"subscription.id":   "sub_200",
		"customer.id":       "cus_200",
		"amount":            "38.00",
		"created":           "2024-04-05T12:30:00Z",
		"status":            "succeeded",
		"customer.email":    "Sponsor@Example.com",
		"metadata.child_id": "child-42",
		"metadata.source":   "webhook",
	}

	tx, issues := Normalize(row, WebhookExportProfile())
	if len(issues) != 0 {
		t.Fatalf("expected no issues, got %v", issues)
	}
	if tx.Email != "sponsor@example.com" {
		t.Fatalf("email must be lowercased, got %s", tx.Email)
	}
	if tx.Metadata[MetadataKeyChildID] != "child-42" {
		t.Fatalf("unexpected child metadata: %v", tx.Metadata)
	}
	if tx.Metadata[MetadataKeySource] != "webhook" {
		t.Fatalf("unexpected source metadata: %v", tx.Metadata)
	}
	if !tx.Recurring() {
		t.Fatal("subscription-bearing row must be recurring")
	}
}
