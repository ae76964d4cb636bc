// Package alloc provides a fixed-budget allocator for handheld memory pools.
//
// The Go runtime owns the actual memory; an Arena only accounts for it, so that
// construction paths observe the same "allocation failed" outcomes they would on
// a console with a few megabytes of RAM and a separate VRAM pool.
package alloc

import (
	"errors"

	"github.com/kamstrup/intmap"
)

var (
	ErrOutOfMemory = errors.New("alloc: out of memory")
	ErrInvalidSize = errors.New("alloc: invalid size")
)

// Handle identifies a live allocation. The zero Handle is never issued.
type Handle uint32

// Allocator is the "create fixed-size object" / "destroy object" capability.
type Allocator interface {
	Allocate(size int) (Handle, error)
	Free(h Handle)
}

// Arena is a budgeted allocator. It is not safe for concurrent use.
type Arena struct {
	name  string
	limit int
	used  int
	next  Handle
	live  *intmap.Map[Handle, int]
}

// NewArena returns an arena that refuses allocations past limit bytes.
//
// A limit <= 0 means unlimited.
func NewArena(name string, limit int) *Arena {
	return &Arena{
		name:  name,
		limit: limit,
		live:  intmap.New[Handle, int](64),
	}
}

func (a *Arena) Name() string { return a.name }
func (a *Arena) Limit() int   { return a.limit }
func (a *Arena) Used() int    { return a.used }
func (a *Arena) Live() int    { return a.live.Len() }

// Available returns the number of bytes still available, or -1 when unlimited.
func (a *Arena) Available() int {
	if a.limit <= 0 {
		return -1
	}
	return a.limit - a.used
}

func (a *Arena) Allocate(size int) (Handle, error) {
	if a == nil {
		return 0, ErrOutOfMemory
	}
	if size <= 0 {
		return 0, ErrInvalidSize
	}
	if a.limit > 0 && a.used+size > a.limit {
		return 0, ErrOutOfMemory
	}
	a.next++
	if a.next == 0 {
		a.next = 1
	}
	h := a.next
	a.live.Put(h, size)
	a.used += size
	return h, nil
}

// Free releases h. Unknown and zero handles are ignored.
func (a *Arena) Free(h Handle) {
	if a == nil || h == 0 {
		return
	}
	size, ok := a.live.Get(h)
	if !ok {
		return
	}
	a.live.Del(h)
	a.used -= size
}

// Owns reports whether h is a live allocation of this arena.
func (a *Arena) Owns(h Handle) bool {
	if a == nil || h == 0 {
		return false
	}
	_, ok := a.live.Get(h)
	return ok
}
