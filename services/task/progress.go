package task

import "math"

// ClampPercentage validates a raw completion value. It accepts 0-100
// inclusive, rounds to the nearest integer and reports false for
// anything non-finite or out of range.
func ClampPercentage(value float64) (int, bool) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	if value < 0 || value > 100 {
		return 0, false
	}
	return int(math.Round(value)), true
}

// BucketForPercentage maps a percentage to its status bucket:
// 0 Not Started, 1-50 On Hold, 51-99 In Progress, 100 Completed.
// Callers deriving a parent bucket must still apply the descendant
// completeness override before persisting Completed.
func BucketForPercentage(pct int) StatusBucket {
	switch {
	case pct == 0:
		return BucketNotStarted
	case pct >= 1 && pct <= 50:
		return BucketOnHold
	case pct >= 51 && pct <= 99:
		return BucketInProgress
	case pct == 100:
		return BucketCompleted
	default:
		return BucketNotStarted
	}
}

// DefaultPercentageForBucket is the canonical inverse of
// BucketForPercentage, used by the bucket-set convenience operation.
func DefaultPercentageForBucket(bucket StatusBucket) int {
	switch bucket {
	case BucketNotStarted:
		return 0
	case BucketOnHold:
		return 1
	case BucketInProgress:
		return 51
	case BucketCompleted:
		return 100
	default:
		return 0
	}
}

func ticketStatusFor(pct int) TicketStatus {
	if pct >= 100 {
		return TicketClosed
	}
	return TicketOpen
}
