//go:build windows

package rtti

import (
	"encoding/binary"
	"testing"
	"unsafe"

	"github.com/ogreworks/wincap/memio"
	"github.com/ogreworks/wincap/patterns"
	"github.com/ogreworks/wincap/region"
)

func TestScanRegionForVtableFindsMatch(t *testing.T) {
	buf := make([]byte, 64)
	binary.LittleEndian.PutUint64(buf[16:24], 0xDEADBEEF)

	io := memio.New(memio.Local, nil)
	base := uintptr(unsafe.Pointer(&buf[0]))
	r := region.Region{Base: base, Size: uintptr(len(buf))}

	vtableBytes := make([]byte, 8)
	binary.LittleEndian.PutUint64(vtableBytes, 0xDEADBEEF)
	pattern := patterns.FromBytes(vtableBytes)

	addr, ok := scanRegionForVtable(io, r, pattern)
	if !ok {
		t.Fatalf("expected a match")
	}
	if addr != base+16 {
		t.Fatalf("addr = %#x, want %#x", addr, base+16)
	}
}

func TestScanRegionForVtableNoMatch(t *testing.T) {
	buf := make([]byte, 32)
	io := memio.New(memio.Local, nil)
	base := uintptr(unsafe.Pointer(&buf[0]))
	r := region.Region{Base: base, Size: uintptr(len(buf))}

	pattern := patterns.FromBytes([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF})
	if _, ok := scanRegionForVtable(io, r, pattern); ok {
		t.Fatalf("expected no match")
	}
}
