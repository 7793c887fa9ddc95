//go:build windows

package rtti

import (
	"encoding/binary"
	"sync"
	"sync/atomic"

	"github.com/ogreworks/wincap/handle"
	"github.com/ogreworks/wincap/memio"
	"github.com/ogreworks/wincap/patterns"
	"github.com/ogreworks/wincap/protflags"
	"github.com/ogreworks/wincap/region"
)

// RegionFilter further restricts the regions FindInstanceOf considers,
// beyond the fixed readWrite/private/commit filter every call applies.
type RegionFilter func(region.Region) bool

// FindInstanceOf scans every committed, private, read-write region of the
// process reachable through h/io for an 8-byte little-endian occurrence of
// obj's vtable address — the layout of a live instance of obj's class,
// whose first field is always a pointer to its vtable. regionFilter may be
// nil. When parallel is true, candidate regions are scanned concurrently;
// the first task to find a match stores it and requests cooperative
// cancellation of its siblings. Serial mode scans in ascending-base order
// on the caller's goroutine.
func FindInstanceOf(h *handle.Handle, io memio.IO, obj Object, regionFilter RegionFilter, parallel bool) (uintptr, bool, error) {
	regions, err := region.NewOpenEnded(h, 0).All()
	if err != nil {
		return 0, false, err
	}

	var candidates []region.Region
	for _, r := range regions {
		if r.Protection != protflags.ReadWrite {
			continue
		}
		if r.Type != region.TypePrivate {
			continue
		}
		if r.State != region.StateCommit {
			continue
		}
		if regionFilter != nil && !regionFilter(r) {
			continue
		}
		candidates = append(candidates, r)
	}

	vtableBytes := make([]byte, 8)
	binary.LittleEndian.PutUint64(vtableBytes, uint64(obj.VtableAddress))
	pattern := patterns.FromBytes(vtableBytes)

	if !parallel {
		for _, r := range candidates {
			if addr, ok := scanRegionForVtable(io, r, pattern); ok {
				return addr, true, nil
			}
		}
		return 0, false, nil
	}

	var found atomic.Uint64
	var stop atomic.Bool
	var wg sync.WaitGroup

	for _, r := range candidates {
		r := r
		wg.Add(1)
		go func() {
			defer wg.Done()
			if stop.Load() {
				return
			}
			addr, ok := scanRegionForVtable(io, r, pattern)
			if !ok {
				return
			}
			if found.CompareAndSwap(0, uint64(addr)) {
				stop.Store(true)
			}
		}()
	}
	wg.Wait()

	if v := found.Load(); v != 0 {
		return uintptr(v), true, nil
	}
	return 0, false, nil
}

func scanRegionForVtable(io memio.IO, r region.Region, pattern patterns.Pattern) (uintptr, bool) {
	buf, err := io.Read(r.Base, r.Size)
	if err != nil {
		return 0, false
	}
	idx := patterns.NewScanner(buf).Find(pattern, patterns.TurboBM)
	if idx < 0 {
		return 0, false
	}
	return r.Base + uintptr(idx), true
}
