package billing

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryAllocator reserves sequences under a mutex, the same contract the
// database allocator provides with a row lock.
type memoryAllocator struct {
	mu   sync.Mutex
	last map[string]int
}

func (m *memoryAllocator) Reserve(orgID uint, year int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.last == nil {
		m.last = map[string]int{}
	}
	key := fmt.Sprintf("%d/%d", orgID, year)
	m.last[key]++
	return m.last[key], nil
}

// flakyAllocator conflicts a fixed number of times before succeeding.
type flakyAllocator struct {
	conflicts int
	inner     memoryAllocator
}

func (f *flakyAllocator) Reserve(orgID uint, year int) (int, error) {
	if f.conflicts > 0 {
		f.conflicts--
		return 0, fmt.Errorf("reserve: %w", ErrSequenceConflict)
	}
	return f.inner.Reserve(orgID, year)
}

func TestFormatInvoiceNumber(t *testing.T) {
	assert.Equal(t, "INV-2024-001", FormatInvoiceNumber("INV", 2024, 1))
	assert.Equal(t, "INV-2024-008", FormatInvoiceNumber("INV", 2024, 8))
	assert.Equal(t, "ARC-2025-1234", FormatInvoiceNumber("ARC", 2025, 1234))
}

func TestParseSequence(t *testing.T) {
	seq, ok := ParseSequence("INV-2024-007", "INV", 2024)
	require.True(t, ok)
	assert.Equal(t, 7, seq)

	for _, number := range []string{
		"INV-2023-007", // wrong year
		"ARC-2024-007", // wrong prefix
		"INV-2024-",    // no suffix
		"INV-2024-abc", // not numeric
		"",
	} {
		_, ok := ParseSequence(number, "INV", 2024)
		assert.False(t, ok, "number %q", number)
	}
}

func TestMaxSequence(t *testing.T) {
	numbers := []string{"INV-2024-001", "INV-2024-002", "INV-2024-007", "INV-2023-099", "ARC-2024-500"}
	assert.Equal(t, 7, MaxSequence(numbers, "INV", 2024))
	assert.Equal(t, 0, MaxSequence(nil, "INV", 2024))
}

func TestNextSequenceAfterExistingNumbers(t *testing.T) {
	// existing 001, 002, 007 -> next is 008
	numbers := []string{"INV-2024-001", "INV-2024-002", "INV-2024-007"}
	next := MaxSequence(numbers, "INV", 2024) + 1
	assert.Equal(t, "INV-2024-008", FormatInvoiceNumber("INV", 2024, next))
}

func TestNextInvoiceNumber_StartsAtOne(t *testing.T) {
	number, err := NextInvoiceNumber(&memoryAllocator{}, 1, 2024, "INV")
	require.NoError(t, err)
	assert.Equal(t, "INV-2024-001", number)
}

func TestNextInvoiceNumber_RetriesTransientConflicts(t *testing.T) {
	number, err := NextInvoiceNumber(&flakyAllocator{conflicts: 3}, 1, 2024, "INV")
	require.NoError(t, err)
	assert.Equal(t, "INV-2024-001", number)
}

func TestNextInvoiceNumber_BoundedRetry(t *testing.T) {
	_, err := NextInvoiceNumber(&flakyAllocator{conflicts: 1000}, 1, 2024, "INV")
	assert.ErrorIs(t, err, ErrSequenceAllocation)
}

func TestNextInvoiceNumber_ConcurrentAllocationsAreDistinct(t *testing.T) {
	const n = 50
	alloc := &memoryAllocator{}

	var wg sync.WaitGroup
	results := make(chan string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			number, err := NextInvoiceNumber(alloc, 1, 2024, "INV")
			assert.NoError(t, err)
			results <- number
		}()
	}
	wg.Wait()
	close(results)

	seen := map[string]bool{}
	for number := range results {
		assert.False(t, seen[number], "duplicate number %s", number)
		seen[number] = true
	}
	// exactly 1..n, each once
	for seq := 1; seq <= n; seq++ {
		assert.True(t, seen[FormatInvoiceNumber("INV", 2024, seq)], "missing sequence %d", seq)
	}
}

func TestNextInvoiceNumber_SeparateYearsDoNotShareSequences(t *testing.T) {
	alloc := &memoryAllocator{}
	a, err := NextInvoiceNumber(alloc, 1, 2024, "INV")
	require.NoError(t, err)
	b, err := NextInvoiceNumber(alloc, 1, 2025, "INV")
	require.NoError(t, err)
	assert.Equal(t, "INV-2024-001", a)
	assert.Equal(t, "INV-2025-001", b)
}
