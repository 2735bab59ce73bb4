// Package writer implements the narrow R2000 writer spec §6 and §9's
// design notes describe: not a general inverse of the reader, but a
// single canonical layout used mainly to produce reader fixtures.
package writer

import "github.com/dsnet/cadwg/internal/errors"

// HandleAllocator hands out monotonically increasing handles while
// avoiding collisions with handles the caller already reserved.
// Grounded on original_source/src/writer/handle_allocator.rs.
type HandleAllocator struct {
	next uint64
	used map[uint64]bool
}

// NewHandleAllocator returns an allocator whose first Allocate call
// returns start (or the first unused handle at or after it). start
// is clamped to at least 1: handle 0 is reserved and never allocated.
func NewHandleAllocator(start uint64) *HandleAllocator {
	if start < 1 {
		start = 1
	}
	return &HandleAllocator{next: start, used: map[uint64]bool{}}
}

// Reserve marks handle as taken, so Allocate will never return it.
// Reserving 0 or a handle already reserved is an error.
func (a *HandleAllocator) Reserve(handle uint64) error {
	if handle == 0 {
		return errors.New(errors.Format, "handle 0 is reserved and cannot be allocated")
	}
	if a.used[handle] {
		return errors.Newf(errors.Resolve, "duplicate handle reservation: %#x", handle)
	}
	a.used[handle] = true
	if handle == a.next {
		a.advance()
	}
	return nil
}

// Allocate returns the next unreserved handle and marks it used.
func (a *HandleAllocator) Allocate() (uint64, error) {
	if a.used[a.next] {
		a.advance()
	}
	if a.next == 0 {
		return 0, errors.New(errors.Unsupported, "handle space exhausted")
	}
	h := a.next
	a.used[h] = true
	if h == ^uint64(0) {
		a.next = 0 // sentinel for exhausted; next Allocate call errors
	} else {
		a.next++
	}
	return h, nil
}

// IsReserved reports whether handle has already been allocated or
// reserved.
func (a *HandleAllocator) IsReserved(handle uint64) bool {
	return a.used[handle]
}

func (a *HandleAllocator) advance() {
	for a.used[a.next] {
		if a.next == ^uint64(0) {
			a.next = 0
			return
		}
		a.next++
	}
}
