package internal

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/chrisconley/payflow/specs"
)

// ReadRawRecords parses the raw subscription billing CSV into record specs.
//
// The reader is deliberately dumb: it maps header names to cells and nothing
// more. Typing, coercion, and repair belong to the cleaning stage, so every
// cell travels onward as a string. Column order in the file does not matter;
// missing optional columns read as empty strings. A row with the wrong number
// of fields is an input defect (the batch is a small static file, not a
// stream) and fails the read.
func ReadRawRecords(r io.Reader) ([]specs.RawRecordSpec, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("input is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := columns["subscription_id"]; !ok {
		return nil, fmt.Errorf("input has no subscription_id column")
	}

	cell := func(row []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	var records []specs.RawRecordSpec
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}

		records = append(records, specs.RawRecordSpec{
			SubscriptionID:          cell(row, "subscription_id"),
			CustomerID:              cell(row, "customer_id"),
			CustomerEmail:           cell(row, "customer_email"),
			PlanID:                  cell(row, "plan_id"),
			PlanName:                cell(row, "plan_name"),
			PlanPrice:               cell(row, "plan_price"),
			BillingCycle:            cell(row, "billing_cycle"),
			SubscriptionStartDate:   cell(row, "subscription_start_date"),
			NextRenewalDate:         cell(row, "next_renewal_date"),
			LastPaymentDate:         cell(row, "last_payment_date"),
			CancellationDate:        cell(row, "cancellation_date"),
			LastRetentionActionDate: cell(row, "last_retention_action_date"),
			PaymentStatus:           cell(row, "payment_status"),
			PaymentFailureReason:    cell(row, "payment_failure_reason"),
			PaymentMethod:           cell(row, "payment_method"),
			IsActive:                cell(row, "is_active"),
			RetentionStatus:         cell(row, "retention_status"),
			TotalPayments:           cell(row, "total_payments"),
			FailedPaymentsCount:     cell(row, "failed_payments_count"),
		})
	}

	return records, nil
}
