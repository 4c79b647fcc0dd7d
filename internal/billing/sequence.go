package billing

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	sequenceDigits = 3

	// reserve conflicts are transient; never retry indefinitely
	maxAllocationAttempts = 5
)

// Allocator reserves the next sequence number for an organization and
// year. Reserve must be atomic with respect to concurrent callers and
// returns ErrSequenceConflict (possibly wrapped) on a transient clash.
type Allocator interface {
	Reserve(orgID uint, year int) (int, error)
}

// FormatInvoiceNumber renders <prefix>-<year>-<seq>, e.g. "INV-2024-008".
func FormatInvoiceNumber(prefix string, year, seq int) string {
	return fmt.Sprintf("%s-%d-%0*d", prefix, year, sequenceDigits, seq)
}

// ParseSequence extracts the numeric suffix of an invoice number for the
// given prefix and year. Numbers from other prefixes or years don't parse.
func ParseSequence(number, prefix string, year int) (int, bool) {
	lead := fmt.Sprintf("%s-%d-", prefix, year)
	if !strings.HasPrefix(number, lead) {
		return 0, false
	}
	seq, err := strconv.Atoi(strings.TrimPrefix(number, lead))
	if err != nil || seq < 0 {
		return 0, false
	}
	return seq, true
}

// MaxSequence returns the highest sequence among existing invoice numbers
// for the prefix and year, 0 when none match.
func MaxSequence(numbers []string, prefix string, year int) int {
	max := 0
	for _, n := range numbers {
		if seq, ok := ParseSequence(n, prefix, year); ok && seq > max {
			max = seq
		}
	}
	return max
}

// NextInvoiceNumber reserves the next sequence through the allocator and
// formats it. Transient conflicts are retried a bounded number of times,
// then surfaced as ErrSequenceAllocation.
func NextInvoiceNumber(a Allocator, orgID uint, year int, prefix string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAllocationAttempts; attempt++ {
		seq, err := a.Reserve(orgID, year)
		if err == nil {
			return FormatInvoiceNumber(prefix, year, seq), nil
		}
		if !errors.Is(err, ErrSequenceConflict) {
			return "", err
		}
		lastErr = err
	}
	return "", fmt.Errorf("%w after %d attempts: %v", ErrSequenceAllocation, maxAllocationAttempts, lastErr)
}
