//go:build windows

// Package modules implements the module loader: parsing the PE headers of
// a loaded module from a cached first page and exposing exports, sections,
// and a bulk-search surface. Grounded in wincpp/src/modules/module.cpp's
// module_t constructor and fetch_export (original_source).
package modules

import (
	"strings"

	"github.com/ogreworks/wincap/handle"
	"github.com/ogreworks/wincap/internal/werrors"
	"github.com/ogreworks/wincap/memio"
	"github.com/ogreworks/wincap/memview"
	"github.com/ogreworks/wincap/winapi"
)

// headerWindow is the number of bytes read from a module's base address to
// capture its PE headers; 4 KiB is large enough for any realistic image's
// DOS header, NT headers, and section table.
const headerWindow = 4096

// Module represents a single loaded PE image: its identity, cached header
// bytes, and the NT/section tables parsed from them.
type Module struct {
	handle  *handle.Handle
	io      memio.IO
	base    uintptr
	size    uint32
	path    string
	name    string
	headers []byte
	dos     dosHeader
	nt      ntHeaders64
	ntOK    bool
}

// Load reads entry's base image into a cached header buffer and parses its
// PE headers.
func Load(h *handle.Handle, io memio.IO, entry winapi.ModuleEntry) (*Module, error) {
	buf, err := io.Read(entry.Base, uintptr(min32(int(entry.Size), headerWindow)))
	if err != nil {
		return nil, err
	}

	m := &Module{
		handle:  h,
		io:      io,
		base:    entry.Base,
		size:    entry.Size,
		path:    entry.Path,
		name:    strings.ToLower(entry.Name),
		headers: buf,
	}

	dos, ok := readDosHeader(buf)
	if !ok {
		return m, nil
	}
	m.dos = dos

	nt, ok := readNtHeaders64(buf, dos.eLfanew)
	m.nt = nt
	m.ntOK = ok
	return m, nil
}

func min32(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Base returns the module's base address.
func (m *Module) Base() uintptr { return m.base }

// Size returns the module's mapped size.
func (m *Module) Size() uint32 { return m.size }

// Name returns the module's lowercase base name.
func (m *Module) Name() string { return m.name }

// Path returns the module's full on-disk path.
func (m *Module) Path() string { return m.path }

// EntryPoint returns the module's entry point address.
func (m *Module) EntryPoint() (uintptr, error) {
	return winapi.GetModuleEntryPoint(m.handle.Native(), m.base)
}

// Handle returns the process handle this module was loaded from.
func (m *Module) Handle() *handle.Handle { return m.handle }

// IO returns the memory-access core this module reads through.
func (m *Module) IO() memio.IO { return m.io }

// Read reads size bytes at address through the module's memory access
// core. address need not lie within the module.
func (m *Module) Read(address uintptr, size uintptr) ([]byte, error) {
	return m.io.Read(address, size)
}

// Export is a single named or ordinal export of a module.
type Export struct {
	Module  *Module
	Name    string
	RVA     uint32
	Ordinal uint16
}

// Address returns the export's absolute virtual address.
func (e Export) Address() uintptr { return e.Module.base + uintptr(e.RVA) }

// FetchExport walks the module's export directory for name, returning
// NotFound if no export matches. Linear scan: export tables are small.
//
// The export directory and its three arrays almost never fit inside the
// cached header window (headerWindow bytes from the base), so every field
// here is read live through m.io rather than sliced out of m.headers.
func (m *Module) FetchExport(name string) (Export, error) {
	if !m.ntOK {
		return Export{}, werrors.NotFoundf("Module.FetchExport", "module %s has no parsed NT headers", m.name)
	}
	dir := m.nt.dataDirectories[directoryExport]
	if dir.virtualAddress == 0 {
		return Export{}, werrors.NotFoundf("Module.FetchExport", "module %s has no export directory", m.name)
	}
	edBuf, err := m.io.Read(m.base+uintptr(dir.virtualAddress), 40)
	if err != nil {
		return Export{}, err
	}
	ed, ok := readExportDirectory(edBuf, 0)
	if !ok {
		return Export{}, werrors.NotFoundf("Module.FetchExport", "export directory for %s is truncated", m.name)
	}

	for i := uint32(0); i < ed.numberOfNames; i++ {
		nameRVA, err := m.io.ReadUint32(m.base + uintptr(ed.addressOfNames+i*4))
		if err != nil {
			return Export{}, err
		}
		exportName, err := m.io.ReadString(m.base + uintptr(nameRVA))
		if err != nil {
			return Export{}, err
		}
		if exportName != name {
			continue
		}
		ordinal, err := m.io.ReadUint16(m.base + uintptr(ed.addressOfNameOrdinals+i*2))
		if err != nil {
			return Export{}, err
		}
		rva, err := m.io.ReadUint32(m.base + uintptr(ed.addressOfFunctions+uint32(ordinal)*4))
		if err != nil {
			return Export{}, err
		}
		return Export{Module: m, Name: exportName, RVA: rva, Ordinal: ordinal}, nil
	}
	return Export{}, werrors.NotFoundf("Module.FetchExport", "no export named %q in %s", name, m.name)
}

// Section is a single PE section, exposed as a MemoryView over
// [base+virtualAddress, base+virtualAddress+max(sizeOfRawData, virtualSize)).
type Section struct {
	memview.MemoryView
	Name string
}

// FetchSection linear-scans the section table for name (an 8-byte,
// NUL-padded C-string comparison), returning NotFound if none matches.
func (m *Module) FetchSection(name string) (Section, error) {
	if !m.ntOK {
		return Section{}, werrors.NotFoundf("Module.FetchSection", "module %s has no parsed NT headers", m.name)
	}
	for _, sh := range readSectionHeaders(m.headers, m.nt) {
		sname := sectionNameString(sh.name)
		if sname != name {
			continue
		}
		size := sh.sizeOfRawData
		if sh.virtualSize > size {
			size = sh.virtualSize
		}
		base := m.base + uintptr(sh.virtualAddress)
		return Section{
			MemoryView: memview.New(memview.KindSection, m.handle, m.io, base, uintptr(size)),
			Name:       sname,
		}, nil
	}
	return Section{}, werrors.NotFoundf("Module.FetchSection", "no section named %q in %s", name, m.name)
}

// View returns a MemoryView over the module's entire image.
func (m *Module) View() memview.MemoryView {
	return memview.New(memview.KindModule, m.handle, m.io, m.base, uintptr(m.size))
}

func leUint32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func leUint16(b []byte) uint16 {
	return uint16(b[0]) | uint16(b[1])<<8
}

func cString(buf []byte, rva uint32) string {
	start := int(rva)
	if start >= len(buf) {
		return ""
	}
	end := start
	for end < len(buf) && buf[end] != 0 {
		end++
	}
	return string(buf[start:end])
}
