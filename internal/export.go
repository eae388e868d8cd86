package internal

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chrisconley/payflow/specs"
)

// exportColumns is the fixed, stable column order of the analytics table:
// raw source fields, then cleaning derivations, then enrichment dimensions,
// then metrics. Consumers may bind by position.
var exportColumns = []specs.ColumnSpec{
	{Name: "subscription_id", Type: "text"},
	{Name: "customer_id", Type: "text"},
	{Name: "customer_email", Type: "text"},
	{Name: "plan_id", Type: "text"},
	{Name: "plan_name", Type: "text"},
	{Name: "plan_price", Type: "decimal"},
	{Name: "billing_cycle", Type: "text"},
	{Name: "subscription_start_date", Type: "timestamp"},
	{Name: "next_renewal_date", Type: "timestamp"},
	{Name: "last_payment_date", Type: "timestamp"},
	{Name: "cancellation_date", Type: "timestamp"},
	{Name: "payment_status", Type: "text"},
	{Name: "payment_failure_reason", Type: "text"},
	{Name: "payment_method", Type: "text"},
	{Name: "is_active", Type: "boolean"},
	{Name: "retention_status", Type: "text"},
	{Name: "total_payments", Type: "integer"},
	{Name: "failed_payments_count", Type: "integer"},
	{Name: "last_retention_action_date", Type: "timestamp"},
	{Name: "date", Type: "date"},
	{Name: "month", Type: "text"},
	{Name: "year", Type: "integer"},
	{Name: "quarter", Type: "text"},
	{Name: "day_of_week", Type: "text"},
	{Name: "hour", Type: "integer"},
	{Name: "is_success", Type: "boolean"},
	{Name: "txn_value_bucket", Type: "text"},
	{Name: "is_high_value", Type: "boolean"},
	{Name: "subscription_age_days", Type: "integer"},
	{Name: "is_recurring", Type: "boolean"},
	{Name: "quality_flags", Type: "text"},
	{Name: "payment_provider", Type: "text"},
	{Name: "geo_region", Type: "text"},
	{Name: "product_tier", Type: "text"},
	{Name: "processing_time_s", Type: "double"},
	{Name: "processing_time_bucket", Type: "text"},
	{Name: "failure_reason_std", Type: "text"},
	{Name: "failure_severity", Type: "text"},
	{Name: "subscription_type", Type: "text"},
	{Name: "retry_attempts", Type: "integer"},
	{Name: "mrr_at_risk", Type: "decimal"},
}

// Closed enumerations for the statically enumerated categorical columns.
// Table-driven categoricals (provider, region, tier, failure reason) are closed
// by their configuration tables at the point of production instead.
var (
	valueBuckets      = enumSet(BucketSmall, BucketMedium, BucketLarge, BucketEnterprise, BucketUnknown)
	latencyBuckets    = enumSet(LatencyUnder1s, Latency1To3s, Latency3To10s, LatencyOver10s)
	failureSeverities = enumSet(SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityNone)
	subscriptionTypes = enumSet(SubscriptionNew, SubscriptionRenewal, SubscriptionChurned)
)

func enumSet(values ...string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

// Export implements specs.Export.
//
// Pure shape normalization: each metric record projects onto the fixed column
// order with warehouse-ready string cells (empty string = null). The only
// failure mode is a categorical value outside its documented enumeration,
// which is an upstream contract violation the exporter refuses to launder.
func Export(records []specs.MetricRecordSpec) (specs.TableSpec, error) {
	rows := make([][]string, len(records))
	for i, record := range records {
		if err := checkEnums(record); err != nil {
			return specs.TableSpec{}, fmt.Errorf("record %d (%s): %w", i, record.SubscriptionID, err)
		}
		rows[i] = exportRow(record)
	}
	return specs.TableSpec{
		Columns: append([]specs.ColumnSpec(nil), exportColumns...),
		Rows:    rows,
	}, nil
}

func checkEnums(record specs.MetricRecordSpec) error {
	if !valueBuckets[record.TxnValueBucket] {
		return fmt.Errorf("txn_value_bucket %q outside its enumeration", record.TxnValueBucket)
	}
	if !latencyBuckets[record.ProcessingTimeBucket] {
		return fmt.Errorf("processing_time_bucket %q outside its enumeration", record.ProcessingTimeBucket)
	}
	if !failureSeverities[record.FailureSeverity] {
		return fmt.Errorf("failure_severity %q outside its enumeration", record.FailureSeverity)
	}
	if !subscriptionTypes[record.SubscriptionType] {
		return fmt.Errorf("subscription_type %q outside its enumeration", record.SubscriptionType)
	}
	return nil
}

func exportRow(record specs.MetricRecordSpec) []string {
	return []string{
		record.SubscriptionID,
		record.CustomerID,
		record.CustomerEmail,
		record.PlanID,
		record.PlanName,
		record.PlanPrice,
		record.BillingCycle,
		record.SubscriptionStartDate,
		record.NextRenewalDate,
		record.LastPaymentDate,
		record.CancellationDate,
		record.PaymentStatus,
		record.PaymentFailureReason,
		record.PaymentMethod,
		formatBool(record.IsActive),
		record.RetentionStatus,
		strconv.Itoa(record.TotalPayments),
		strconv.Itoa(record.FailedPaymentsCount),
		record.LastRetentionActionDate,
		record.Date,
		record.Month,
		formatNullableInt(record.Year),
		record.Quarter,
		record.DayOfWeek,
		formatNullableInt(record.Hour),
		formatBool(record.IsSuccess),
		record.TxnValueBucket,
		formatBool(record.IsHighValue),
		formatNullableInt(record.SubscriptionAgeDays),
		formatBool(record.IsRecurring),
		strings.Join(record.QualityFlags, "|"),
		record.PaymentProvider,
		record.GeoRegion,
		record.ProductTier,
		strconv.FormatFloat(record.ProcessingTimeS, 'f', 2, 64),
		record.ProcessingTimeBucket,
		record.FailureReasonStd,
		record.FailureSeverity,
		record.SubscriptionType,
		strconv.Itoa(record.RetryAttempts),
		record.MRRAtRisk,
	}
}

func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func formatNullableInt(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

// WriteCSV renders an export table as a CSV file with a header row.
func WriteCSV(table specs.TableSpec, w io.Writer) error {
	writer := csv.NewWriter(w)

	header := make([]string, len(table.Columns))
	for i, col := range table.Columns {
		header[i] = col.Name
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range table.Rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}
