package search

import "sync/atomic"

// Budget is the cooperative cancellation flag the search polls at
// expansion boundaries. A watchdog thread may set it at any time; the
// engine itself never blocks on it, and a cancelled search leaves every
// data structure consistent because state insertion is the last step of
// successor construction.
type Budget struct {
	flag atomic.Int32
}

const (
	budgetOK int32 = iota
	budgetOutOfTime
	budgetOutOfMemory
)

// CancelTime marks the time budget as exceeded.
func (b *Budget) CancelTime() { b.flag.CompareAndSwap(budgetOK, budgetOutOfTime) }

// CancelMemory marks the memory budget as exceeded.
func (b *Budget) CancelMemory() { b.flag.CompareAndSwap(budgetOK, budgetOutOfMemory) }

// Exceeded returns the terminal status to report, or StatusNone while the
// budget holds.
func (b *Budget) Exceeded() SearchStatus {
	switch b.flag.Load() {
	case budgetOutOfTime:
		return StatusOutOfTime
	case budgetOutOfMemory:
		return StatusOutOfMemory
	}
	return StatusNone
}
