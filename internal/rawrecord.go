package internal

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/chrisconley/payflow/specs"
)

// Payment status literals. The success boolean is derived from strict equality
// with StatusSuccess; anything else (including unknown statuses) is treated as
// not successful.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
	StatusPending = "pending"
)

// Billing cycle literals.
const (
	CycleMonthly   = "monthly"
	CycleQuarterly = "quarterly"
	CycleYearly    = "yearly"
	CycleWeekly    = "weekly"
)

// Quality flags recorded on rows repaired during cleaning.
const (
	FlagBadTimestamp  = "bad_timestamp"
	FlagBadPrice      = "bad_price"
	FlagBadCount      = "bad_count"
	FlagBadActiveFlag = "bad_active_flag"
	FlagBadCycle      = "bad_cycle"
)

// timestampLayouts are the accepted source date formats, tried in order.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// RawRecord is the typed domain form of one source row.
//
// Construction is lenient by design: parse and coercion failures repair the
// field to its null/zero form and record a quality flag, because a single bad
// row must not block the batch. The only hard requirement is record identity.
type RawRecord struct {
	SubscriptionID string
	CustomerID     string
	CustomerEmail  string
	PlanID         string
	PlanName       string

	// Price is nil when the source value was absent or failed decimal coercion
	// (FlagBadPrice).
	Price        *Decimal
	BillingCycle string

	SubscriptionStart   *time.Time
	NextRenewal         *time.Time
	LastPayment         *time.Time
	Cancellation        *time.Time
	LastRetentionAction *time.Time

	PaymentStatus   string
	FailureReason   string
	PaymentMethod   string
	IsActive        bool
	RetentionStatus string

	TotalPayments  int
	FailedPayments int

	// Flags lists the recovered defects found while building this record.
	Flags []string
}

// NewRawRecord builds a RawRecord from its spec, repairing and flagging
// malformed fields.
//
// Returns an error only when the subscription ID is empty: identity is
// preserved end-to-end through the pipeline and a row without identity cannot
// participate.
func NewRawRecord(spec specs.RawRecordSpec) (RawRecord, error) {
	if strings.TrimSpace(spec.SubscriptionID) == "" {
		return RawRecord{}, fmt.Errorf("subscription ID is required")
	}

	record := RawRecord{
		SubscriptionID:  strings.TrimSpace(spec.SubscriptionID),
		CustomerID:      strings.TrimSpace(spec.CustomerID),
		CustomerEmail:   strings.TrimSpace(spec.CustomerEmail),
		PlanID:          strings.TrimSpace(spec.PlanID),
		PlanName:        strings.TrimSpace(spec.PlanName),
		BillingCycle:    strings.ToLower(strings.TrimSpace(spec.BillingCycle)),
		PaymentStatus:   strings.ToLower(strings.TrimSpace(spec.PaymentStatus)),
		FailureReason:   strings.TrimSpace(spec.PaymentFailureReason),
		PaymentMethod:   strings.ToLower(strings.TrimSpace(spec.PaymentMethod)),
		RetentionStatus: strings.TrimSpace(spec.RetentionStatus),
	}

	// Primary timestamp fails closed: the row survives with nulled temporal
	// fields and a flag.
	lastPayment, ok := parseTimestamp(spec.LastPaymentDate)
	if !ok {
		record.flag(FlagBadTimestamp)
	}
	record.LastPayment = lastPayment

	// Secondary lifecycle dates coerce-or-null without flagging.
	record.SubscriptionStart, _ = parseTimestamp(spec.SubscriptionStartDate)
	record.NextRenewal, _ = parseTimestamp(spec.NextRenewalDate)
	record.Cancellation, _ = parseTimestamp(spec.CancellationDate)
	record.LastRetentionAction, _ = parseTimestamp(spec.LastRetentionActionDate)

	if price, ok := parsePrice(spec.PlanPrice); ok {
		record.Price = price
	} else {
		record.flag(FlagBadPrice)
	}

	var ok2 bool
	if record.TotalPayments, ok2 = parseCount(spec.TotalPayments); !ok2 {
		record.flag(FlagBadCount)
	}
	if record.FailedPayments, ok2 = parseCount(spec.FailedPaymentsCount); !ok2 {
		record.flag(FlagBadCount)
	}

	if active, ok := parseActiveFlag(spec.IsActive); ok {
		record.IsActive = active
	} else {
		record.flag(FlagBadActiveFlag)
	}

	return record, nil
}

// IsSuccess reports whether the most recent payment succeeded.
func (r RawRecord) IsSuccess() bool {
	return r.PaymentStatus == StatusSuccess
}

func (r *RawRecord) flag(name string) {
	r.Flags = appendFlag(r.Flags, name)
}

// parseTimestamp parses a nullable source date. An empty value is a valid null
// (nil, true); an unparseable value is (nil, false).
func parseTimestamp(value string) (*time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, true
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			t = t.UTC()
			return &t, true
		}
	}
	return nil, false
}

// parsePrice coerces a price cell to a decimal. Empty and malformed values both
// report failure; the caller decides whether absence is a defect.
func parsePrice(value string) (*Decimal, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, false
	}
	d, err := NewDecimal(value)
	if err != nil || d.IsNegative() {
		return nil, false
	}
	return &d, true
}

// parseCount coerces a payment count. Empty counts default to zero without
// being a defect; malformed or negative counts are defects.
func parseCount(value string) (int, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, true
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func parseActiveFlag(value string) (bool, bool) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return false, true
	}
	active, err := strconv.ParseBool(value)
	if err != nil {
		return false, false
	}
	return active, true
}
