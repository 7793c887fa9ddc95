//go:build windows

package modules

import (
	"encoding/binary"
	"testing"
	"unsafe"

	"github.com/ogreworks/wincap/memio"
	"github.com/ogreworks/wincap/winapi"
)

// buildFakeImageWithExport returns a synthetic module image whose export
// directory, name/ordinal/function arrays, and export name string all sit
// past headerWindow — the layout every real DLL with a non-trivial export
// table has, and the case that used to index m.headers out of range.
func buildFakeImageWithExport(name string, rva uint32) []byte {
	buf := make([]byte, headerWindow*3)
	copy(buf, buildFakeImage(0))

	const (
		exportDirRVA   = headerWindow + 0x100
		namesArrayRVA  = headerWindow + 0x200
		ordsArrayRVA   = headerWindow + 0x300
		funcsArrayRVA  = headerWindow + 0x400
		nameStringRVA  = headerWindow + 0x500
	)

	// IMAGE_OPTIONAL_HEADER64's DataDirectory[0] (export table) RVA/size.
	const exportDirEntryOff = 0x108
	binary.LittleEndian.PutUint32(buf[exportDirEntryOff:exportDirEntryOff+4], exportDirRVA)
	binary.LittleEndian.PutUint32(buf[exportDirEntryOff+4:exportDirEntryOff+8], 40)

	binary.LittleEndian.PutUint32(buf[exportDirRVA+24:exportDirRVA+28], 1) // numberOfNames
	binary.LittleEndian.PutUint32(buf[exportDirRVA+28:exportDirRVA+32], funcsArrayRVA)
	binary.LittleEndian.PutUint32(buf[exportDirRVA+32:exportDirRVA+36], namesArrayRVA)
	binary.LittleEndian.PutUint32(buf[exportDirRVA+36:exportDirRVA+40], ordsArrayRVA)

	binary.LittleEndian.PutUint32(buf[namesArrayRVA:namesArrayRVA+4], nameStringRVA)
	binary.LittleEndian.PutUint16(buf[ordsArrayRVA:ordsArrayRVA+2], 0)
	binary.LittleEndian.PutUint32(buf[funcsArrayRVA:funcsArrayRVA+4], rva)
	copy(buf[nameStringRVA:], name)

	return buf
}

func TestFetchExportReadsPastHeaderWindow(t *testing.T) {
	buf := buildFakeImageWithExport("MyExport", 0x1234)
	base := uintptr(unsafe.Pointer(&buf[0]))
	io := memio.New(memio.Local, nil)

	m, err := Load(nil, io, winapi.ModuleEntry{Base: base, Size: uint32(len(buf)), Name: "fake.dll"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !m.ntOK {
		t.Fatalf("expected parsed NT headers")
	}

	export, err := m.FetchExport("MyExport")
	if err != nil {
		t.Fatalf("FetchExport: %v", err)
	}
	if export.RVA != 0x1234 {
		t.Fatalf("RVA = %#x, want %#x", export.RVA, 0x1234)
	}
	if export.Ordinal != 0 {
		t.Fatalf("Ordinal = %d, want 0", export.Ordinal)
	}
}

func TestFetchExportNotFound(t *testing.T) {
	buf := buildFakeImageWithExport("MyExport", 0x1234)
	base := uintptr(unsafe.Pointer(&buf[0]))
	io := memio.New(memio.Local, nil)

	m, err := Load(nil, io, winapi.ModuleEntry{Base: base, Size: uint32(len(buf)), Name: "fake.dll"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if _, err := m.FetchExport("NoSuchExport"); err == nil {
		t.Fatalf("expected NotFound error")
	}
}
