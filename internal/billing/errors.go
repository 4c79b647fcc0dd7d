package billing

import "errors"

var (
	// ErrInvalidBillingState rejects a request to bill below the cumulative
	// amount already invoiced on the project. Clamping instead would corrupt
	// cumulative tracking for every later invoice.
	ErrInvalidBillingState = errors.New("requested cumulative amount is below the amount already billed")

	// ErrFeeExceeded rejects a cumulative fee amount above the project's total fee.
	ErrFeeExceeded = errors.New("cumulative fee amount exceeds project total fee")

	// ErrSequenceConflict marks a transient allocation conflict; callers retry.
	ErrSequenceConflict = errors.New("invoice sequence allocation conflict")

	// ErrSequenceAllocation is surfaced once conflict retries are exhausted.
	ErrSequenceAllocation = errors.New("invoice number allocation failed")
)
