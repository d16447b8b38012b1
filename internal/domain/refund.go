package domain

import "time"

// RefundStatus refund eligibility tier derived from time-to-start
type RefundStatus string

const (
	RefundNotApplicable  RefundStatus = "not_applicable"
	RefundFullPending    RefundStatus = "full_refund_pending"
	RefundPartialPending RefundStatus = "partial_refund_pending"
	RefundNone           RefundStatus = "no_refund"
)

// Refund tier thresholds in whole hours before the booking starts.
// Comparisons are strict: exactly 24 hours falls to the partial tier,
// exactly 1 hour falls to no refund.
const (
	FullRefundHoursBefore    = 24
	PartialRefundHoursBefore = 1
)

// RefundTier derives the refund eligibility tier for a booking starting at
// start, evaluated at now. Returns RefundNotApplicable when no payment exists.
func RefundTier(start, now time.Time, hasPayment bool) RefundStatus {
	if !hasPayment {
		return RefundNotApplicable
	}

	hours := int(start.Sub(now).Hours())

	switch {
	case hours > FullRefundHoursBefore:
		return RefundFullPending
	case hours > PartialRefundHoursBefore:
		return RefundPartialPending
	default:
		return RefundNone
	}
}
