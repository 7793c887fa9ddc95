//go:build windows

// Package region implements the lazy region enumerator: a half-open
// [start, stop) walk of a process's virtual address space, one
// VirtualQueryEx call per step. Grounded in wincpp's region_list iterator
// (original_source), which queries one region at a time rather than
// materializing the whole address space up front the way a page-table-backed
// mapping store built from a fully-parsed core file would — the wrong shape
// for a live, unbounded address space.
package region

import (
	"math"

	"github.com/ogreworks/wincap/handle"
	"github.com/ogreworks/wincap/protflags"
	"github.com/ogreworks/wincap/winapi"
)

// State is the allocation state of a region.
type State int

const (
	StateCommit State = iota
	StateReserve
	StateFree
)

// Type is the backing-storage kind of a region.
type Type int

const (
	TypeImage Type = iota
	TypeMapped
	TypePrivate
)

// Region describes one virtual-memory region: a fixed-size block sharing
// allocation state, type, and protection.
type Region struct {
	Base       uintptr
	Size       uintptr
	State      State
	Type       Type
	Protection protflags.Flags
}

// End returns the exclusive upper bound of r.
func (r Region) End() uintptr { return r.Base + r.Size }

// Sequence lazily walks [start, stop) one query at a time, yielding regions
// in ascending base order. It is single-pass; construct a new Sequence to
// restart.
type Sequence struct {
	handle *handle.Handle
	cursor uintptr
	stop   uintptr
	done   bool
}

// openEnded is used as stop when the caller wants to walk to the top of the
// addressable range.
const openEnded = uintptr(math.MaxUint64)

// New returns a Sequence over [start, stop) using h to query regions.
func New(h *handle.Handle, start, stop uintptr) *Sequence {
	return &Sequence{handle: h, cursor: start, stop: stop}
}

// NewOpenEnded returns a Sequence over [start, +inf).
func NewOpenEnded(h *handle.Handle, start uintptr) *Sequence {
	return New(h, start, openEnded)
}

// Next advances the sequence and returns the next region, or ok=false once
// the cursor reaches stop or the OS reports no more regions.
func (s *Sequence) Next() (Region, bool, error) {
	if s.done || s.cursor >= s.stop {
		return Region{}, false, nil
	}

	mbi, err := winapi.VirtualQueryEx(s.handle.Native(), s.cursor)
	if err != nil {
		if err == winapi.ErrNoMoreRegions {
			s.done = true
			return Region{}, false, nil
		}
		return Region{}, false, err
	}

	r := Region{
		Base:       mbi.BaseAddress,
		Size:       mbi.RegionSize,
		State:      decodeState(mbi.State),
		Type:       decodeType(mbi.Type),
		Protection: protflags.FromWin32(mbi.Protect),
	}
	s.cursor = r.Base + r.Size
	return r, true, nil
}

// All drains the sequence into a slice. Intended for small, bounded ranges
// (e.g. a module's address span); callers walking the whole address space
// should use Next directly.
func (s *Sequence) All() ([]Region, error) {
	var out []Region
	for {
		r, ok, err := s.Next()
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, r)
	}
}

func decodeState(win uint32) State {
	switch win {
	case winMemCommit:
		return StateCommit
	case winMemReserve:
		return StateReserve
	default:
		return StateFree
	}
}

func decodeType(win uint32) Type {
	switch win {
	case winMemImage:
		return TypeImage
	case winMemMapped:
		return TypeMapped
	default:
		return TypePrivate
	}
}

const (
	winMemCommit  = 0x1000
	winMemReserve = 0x2000
	winMemFree    = 0x10000
	winMemImage   = 0x1000000
	winMemMapped  = 0x40000
	winMemPrivate = 0x20000
)
