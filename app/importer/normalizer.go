package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FieldIssue records one malformed or missing column on a row. Issues never
// reject the row: the transaction is still produced with zero values and the
// problems surface through the needs-attention path.
type FieldIssue struct {
	Field   string
	Message string
}

func (i FieldIssue) String() string {
	return fmt.Sprintf("%s: %s", i.Field, i.Message)
}

// Normalize turns one raw export row into a canonical Transaction using the
// given format profile. Amounts are parsed as exact decimal strings and
// converted to minor units; floats are never involved.
func Normalize(row RawRow, profile Profile) (*Transaction, []FieldIssue) {
	issues := make([]FieldIssue, 0)
	cols := profile.Columns

	tx := &Transaction{
		ChargeID:       rowValue(row, cols.ChargeID),
		InvoiceID:      rowValue(row, cols.InvoiceID),
		SubscriptionID: rowValue(row, cols.SubscriptionID),
		CustomerID:     rowValue(row, cols.CustomerID),
		GatewayStatus:  strings.ToLower(rowValue(row, cols.Status)),
		Description:    rowValue(row, cols.Description),
		PlanLabel:      rowValue(row, cols.PlanLabel),
		Email:          strings.ToLower(rowValue(row, cols.Email)),
		FallbackEmail:  strings.ToLower(rowValue(row, cols.FallbackEmail)),
		Phone:          rowValue(row, cols.Phone),
		Address:        rowValue(row, cols.Address),
		DonorName:      rowValue(row, cols.DonorName),
		Metadata:       map[string]string{},
	}

	if tx.ChargeID == "" {
		issues = append(issues, FieldIssue{Field: "charge_id", Message: "missing"})
	}

	amountRaw := rowValue(row, cols.Amount)
	cents, issue := parseAmountCents(amountRaw)
	if issue != nil {
		issues = append(issues, *issue)
	}
	tx.AmountCents = cents

	dateRaw := rowValue(row, cols.Date)
	if dateRaw == "" {
		issues = append(issues, FieldIssue{Field: "date", Message: "missing"})
	} else {
		parsed, ok := parseDate(dateRaw, profile.DateLayouts)
		if !ok {
			issues = append(issues, FieldIssue{Field: "date", Message: fmt.Sprintf("cannot parse %q", dateRaw)})
		}
		tx.Date = parsed
	}

	for key, column := range profile.MetadataColumns {
		if value := rowValue(row, column); value != "" {
			tx.Metadata[key] = value
		}
	}

	return tx, issues
}

func rowValue(row RawRow, column string) string {
	if column == "" {
		return ""
	}
	return strings.TrimSpace(row[column])
}

// parseAmountCents converts a decimal amount string to integer minor units.
// A blank, unparsable, negative, or sub-cent amount yields zero cents plus an
// issue; the row itself is never discarded.
func parseAmountCents(raw string) (int64, *FieldIssue) {
	if raw == "" {
		return 0, &FieldIssue{Field: "amount", Message: "missing"}
	}

	cleaned := strings.ReplaceAll(strings.TrimPrefix(raw, "$"), ",", "")
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, &FieldIssue{Field: "amount", Message: fmt.Sprintf("cannot parse %q", raw)}
	}
	if amount.IsNegative() {
		return 0, &FieldIssue{Field: "amount", Message: fmt.Sprintf("negative amount %q", raw)}
	}

	cents := amount.Mul(decimal.NewFromInt(100))
	if !cents.Equal(cents.Truncate(0)) {
		return 0, &FieldIssue{Field: "amount", Message: fmt.Sprintf("sub-cent precision in %q", raw)}
	}

	return cents.IntPart(), nil
}

func parseDate(raw string, layouts []string) (time.Time, bool) {
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed.UTC(), true
		}
	}
	return time.Time{}, false
}
