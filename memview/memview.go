//go:build windows

// Package memview implements the polymorphic "window onto bytes"
// abstraction (MemoryView) shared by modules, sections, and regions, plus
// the scoped protection-change guard built on top of it. Sum type over
// {Module, Section, Region} rather than an inheritance hierarchy, per the
// design note favoring a small closed set of variants over a class
// hierarchy for a library with no plans to grow new kinds of view.
package memview

import (
	"github.com/ogreworks/wincap/handle"
	"github.com/ogreworks/wincap/internal/werrors"
	"github.com/ogreworks/wincap/memio"
	"github.com/ogreworks/wincap/patterns"
	"github.com/ogreworks/wincap/protflags"
	"github.com/ogreworks/wincap/region"
	"github.com/ogreworks/wincap/winapi"
)

// Kind discriminates the MemoryView sum type.
type Kind int

const (
	KindModule Kind = iota
	KindSection
	KindRegion
)

// MemoryView is a window onto a contiguous span of a process's address
// space, shared by modules, PE sections, and individual VM regions.
type MemoryView struct {
	kind   Kind
	base   uintptr
	size   uintptr
	handle *handle.Handle
	io     memio.IO
}

// New constructs a MemoryView of the given kind over [base, base+size).
func New(kind Kind, h *handle.Handle, io memio.IO, base, size uintptr) MemoryView {
	return MemoryView{kind: kind, base: base, size: size, handle: h, io: io}
}

// Kind reports which variant of the sum type v is.
func (v MemoryView) Kind() Kind { return v.kind }

// Base returns the starting address of v.
func (v MemoryView) Base() uintptr { return v.base }

// Size returns the byte length of v.
func (v MemoryView) Size() uintptr { return v.size }

// Contains reports whether addr lies within v, inclusive of base and
// exclusive of base+size.
func (v MemoryView) Contains(addr uintptr) bool {
	return addr >= v.base && addr < v.base+v.size
}

// Read reads size bytes at address, which must be within v.
func (v MemoryView) Read(address uintptr, size uintptr) ([]byte, error) {
	return v.io.Read(address, size)
}

// Write writes bytes at address, which must be within v.
func (v MemoryView) Write(address uintptr, bytes []byte) (int, error) {
	return v.io.Write(address, bytes)
}

// ReadAll reads the entirety of v into memory.
func (v MemoryView) ReadAll() ([]byte, error) {
	return v.io.Read(v.base, v.size)
}

// Regions returns the VM regions covering v's span.
func (v MemoryView) Regions() ([]region.Region, error) {
	return region.New(v.handle, v.base, v.base+v.size).All()
}

// Scanner reads the whole view and returns a Scanner over its bytes. Match
// offsets it reports are relative to Base().
func (v MemoryView) Scanner() (patterns.Scanner, error) {
	buf, err := v.ReadAll()
	if err != nil {
		return patterns.Scanner{}, err
	}
	return patterns.NewScanner(buf), nil
}

// Find scans every region of v, skipping any region past v's end, not
// committed, noAccess, or guarded, and returns the absolute address of the
// first match, or ok=false.
func (v MemoryView) Find(p patterns.Pattern, algo patterns.Algorithm) (uintptr, bool, error) {
	regions, err := v.Regions()
	if err != nil {
		return 0, false, err
	}
	for _, r := range regions {
		if r.Base >= v.base+v.size {
			break
		}
		if skipRegion(r) {
			continue
		}
		buf, err := v.io.Read(r.Base, r.Size)
		if err != nil {
			continue
		}
		idx := patterns.NewScanner(buf).Find(p, algo)
		if idx >= 0 {
			return r.Base + uintptr(idx), true, nil
		}
	}
	return 0, false, nil
}

// FindAll is Find's scan-all form, concatenating non-overlapping matches
// per region and translating each offset to an absolute address.
func (v MemoryView) FindAll(p patterns.Pattern, algo patterns.Algorithm) ([]uintptr, error) {
	regions, err := v.Regions()
	if err != nil {
		return nil, err
	}
	var out []uintptr
	for _, r := range regions {
		if r.Base >= v.base+v.size {
			break
		}
		if skipRegion(r) {
			continue
		}
		buf, err := v.io.Read(r.Base, r.Size)
		if err != nil {
			continue
		}
		for _, idx := range patterns.NewScanner(buf).FindAll(p, algo) {
			out = append(out, r.Base+uintptr(idx))
		}
	}
	return out, nil
}

func skipRegion(r region.Region) bool {
	if r.State != region.StateCommit {
		return true
	}
	if r.Protection.Has(protflags.NoAccess) || r.Protection.Has(protflags.Guard) {
		return true
	}
	return false
}

// WorkingSetInfo reports residency/sharing information for the page
// containing addr.
type WorkingSetInfo struct {
	Valid      bool
	Shared     bool
	ShareCount uint8
	Protection uint8
}

// WorkingSetInformation queries residency information for addr within v.
func (v MemoryView) WorkingSetInformation(address uintptr) (WorkingSetInfo, error) {
	info, err := winapi.QueryWorkingSetEx(v.handle.Native(), address)
	if err != nil {
		return WorkingSetInfo{}, err
	}
	return WorkingSetInfo{
		Valid:      info.Valid,
		Shared:     info.Shared,
		ShareCount: info.ShareCount,
		Protection: info.Protection,
	}, nil
}

// Protect applies newFlags to [address, address+size) within the process
// owning v's handle and returns a ScopedProtection guard that restores the
// previous protection on Release.
func (v MemoryView) Protect(address uintptr, size uintptr, newFlags protflags.Flags) (*ScopedProtection, error) {
	return protect(v.handle, address, size, newFlags)
}

// Pointer is a chained-dereference helper: it reads a pointer-sized value
// at its own address and can be re-based to the value it points to,
// letting callers express a.b.c-style pointer chains without manual
// address arithmetic. Ported from wincpp's memory::pointer (original_source
// only).
type Pointer struct {
	view    MemoryView
	address uintptr
}

// NewPointer returns a Pointer at address within view.
func NewPointer(view MemoryView, address uintptr) Pointer {
	return Pointer{view: view, address: address}
}

// Address returns the pointer's own address.
func (p Pointer) Address() uintptr { return p.address }

// Deref reads the pointer-sized value at p's address and returns a new
// Pointer at that value, following one level of indirection.
func (p Pointer) Deref() (Pointer, error) {
	buf, err := p.view.Read(p.address, 8)
	if err != nil {
		return Pointer{}, err
	}
	if len(buf) < 8 {
		return Pointer{}, werrors.New(werrors.OsFailure, "Pointer.Deref", "short read")
	}
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(buf[i])
	}
	return Pointer{view: p.view, address: uintptr(v)}, nil
}

// Offset returns a new Pointer at p's address plus delta, without
// dereferencing.
func (p Pointer) Offset(delta uintptr) Pointer {
	return Pointer{view: p.view, address: p.address + delta}
}

// Read reads size bytes at p's address.
func (p Pointer) Read(size uintptr) ([]byte, error) {
	return p.view.Read(p.address, size)
}
