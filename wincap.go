//go:build windows

// Package wincap introspects and manipulates a live Windows process: it
// attaches by name or pid, enumerates modules and memory regions, reads and
// writes across the process boundary, scans for byte patterns, and
// resolves MSVC RTTI to locate class vtables and live instances. Process is
// the entry point, composing the handle, memory-access mode, and module
// cache the rest of the packages build on. Ported from wincpp's process_t
// (original_source's process.cpp/process.hpp).
package wincap

import (
	"strings"
	"sync"

	"github.com/ogreworks/wincap/handle"
	"github.com/ogreworks/wincap/internal/werrors"
	"github.com/ogreworks/wincap/memio"
	"github.com/ogreworks/wincap/memview"
	"github.com/ogreworks/wincap/modules"
	"github.com/ogreworks/wincap/protflags"
	"github.com/ogreworks/wincap/region"
	"github.com/ogreworks/wincap/rtti"
	"github.com/ogreworks/wincap/winapi"
	"github.com/ogreworks/wincap/windowenum"
)

// processAllAccess mirrors the Windows SDK's PROCESS_ALL_ACCESS macro, which
// golang.org/x/sys/windows does not expose.
const processAllAccess = 0x001F0FFF

// DefaultAccess is the desired-access mask used when Open's caller does not
// specify one: full process access.
const DefaultAccess = processAllAccess

// Process is an open handle onto a target, plus the memory-access mode and
// module cache every other operation is built on.
type Process struct {
	handle *handle.Handle
	pid    uint32
	name   string
	io     memio.IO

	mu      sync.Mutex
	modules map[string]*modules.Module
}

// Open attaches to the first process whose OS snapshot exe-file field equals
// name, compared ASCII case-insensitively, with the given access mask.
func Open(name string, access uint32) (*Process, error) {
	proc, err := handle.FindProcessByName(name)
	if err != nil {
		return nil, err
	}
	return openPID(proc.PID, proc.Name, access)
}

// OpenPID attaches to pid with the given access mask.
func OpenPID(pid uint32, access uint32) (*Process, error) {
	procs, err := handle.Processes()
	if err != nil {
		return nil, err
	}
	for _, p := range procs {
		if p.PID == pid {
			return openPID(pid, p.Name, access)
		}
	}
	return nil, werrors.NotFoundf("wincap.OpenPID", "no process with pid %d", pid)
}

func openPID(pid uint32, name string, access uint32) (*Process, error) {
	h, err := handle.OpenProcess(access, pid)
	if err != nil {
		return nil, err
	}
	return &Process{
		handle:  h,
		pid:     pid,
		name:    name,
		io:      memio.New(memio.Remote, h),
		modules: make(map[string]*modules.Module),
	}, nil
}

// Current returns a Process wrapping the calling process, using the local
// memory-access mode and a non-owning pseudo-handle.
func Current() (*Process, error) {
	h := handle.Current()
	pid, err := winapi.GetProcessId(h.Native())
	if err != nil {
		return nil, err
	}
	name, err := winapi.GetProcessImageBaseName(h.Native())
	if err != nil {
		return nil, err
	}
	return &Process{
		handle:  h,
		pid:     pid,
		name:    name,
		io:      memio.New(memio.Local, h),
		modules: make(map[string]*modules.Module),
	}, nil
}

// PID returns the process id.
func (p *Process) PID() uint32 { return p.pid }

// Name returns the process's image name.
func (p *Process) Name() string { return p.name }

// Handle returns the underlying scoped handle.
func (p *Process) Handle() *handle.Handle { return p.handle }

// IO returns the memory-access core backing this process (local for
// Current(), remote otherwise).
func (p *Process) IO() memio.IO { return p.io }

// Close releases the process handle if owned.
func (p *Process) Close() error {
	return p.handle.Close()
}

// Modules returns every module loaded into the process.
func (p *Process) Modules() ([]*modules.Module, error) {
	entries, err := winapi.SnapshotModules(p.pid)
	if err != nil {
		return nil, err
	}
	out := make([]*modules.Module, 0, len(entries))
	for _, e := range entries {
		m, err := modules.Load(p.handle, p.io, e)
		if err != nil {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// Module returns the loaded module named name. The name is lower-cased
// first, and ".dll" is appended if it does not already carry an extension.
func (p *Process) Module(name string) (*modules.Module, error) {
	key := normalizeModuleName(name)

	p.mu.Lock()
	if m, ok := p.modules[key]; ok {
		p.mu.Unlock()
		return m, nil
	}
	p.mu.Unlock()

	entries, err := winapi.SnapshotModules(p.pid)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if strings.ToLower(e.Name) == key {
			m, err := modules.Load(p.handle, p.io, e)
			if err != nil {
				return nil, err
			}
			p.mu.Lock()
			p.modules[key] = m
			p.mu.Unlock()
			return m, nil
		}
	}
	return nil, werrors.NotFoundf("Process.Module", "no module named %q", name)
}

// MainModule returns the process's main executable module.
func (p *Process) MainModule() (*modules.Module, error) {
	entries, err := winapi.SnapshotModules(p.pid)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, werrors.NotFoundf("Process.MainModule", "process %d has no modules", p.pid)
	}
	return modules.Load(p.handle, p.io, entries[0])
}

func normalizeModuleName(name string) string {
	lower := strings.ToLower(name)
	if !strings.Contains(lower, ".") {
		lower += ".dll"
	}
	return lower
}

// Threads returns every OS thread owned by the process.
func (p *Process) Threads() ([]handle.ThreadInfo, error) {
	return handle.Threads(p.pid)
}

// Windows returns every top-level window belonging to the process.
func (p *Process) Windows() ([]windowenum.Window, error) {
	return windowenum.Windows(p.pid)
}

// Read reads size bytes at address.
func (p *Process) Read(address uintptr, size uintptr) ([]byte, error) {
	return p.io.Read(address, size)
}

// Write writes bytes at address.
func (p *Process) Write(address uintptr, bytes []byte) (int, error) {
	return p.io.Write(address, bytes)
}

// Regions returns the region sequence over [start, stop).
func (p *Process) Regions(start, stop uintptr) *region.Sequence {
	return region.New(p.handle, start, stop)
}

// Protect applies newFlags to [address, address+size) and returns a guard
// that restores the previous protection on Release.
func (p *Process) Protect(address, size uintptr, newFlags protflags.Flags) (*memview.ScopedProtection, error) {
	view := memview.New(memview.KindRegion, p.handle, p.io, address, size)
	return view.Protect(address, size, newFlags)
}

// WorkingSetInformation reports residency/sharing information for the page
// containing address.
func (p *Process) WorkingSetInformation(address uintptr) (memview.WorkingSetInfo, error) {
	view := memview.New(memview.KindRegion, p.handle, p.io, address, 1)
	return view.WorkingSetInformation(address)
}

// FetchObjects resolves every vtable in module whose RTTI mangled name
// equals mangledName.
func (p *Process) FetchObjects(module *modules.Module, mangledName string) ([]rtti.Object, error) {
	return rtti.FetchObjects(module, mangledName)
}

// FindInstanceOf scans the process's committed, private, read-write
// regions for a live instance of obj's class.
func (p *Process) FindInstanceOf(obj rtti.Object, filter rtti.RegionFilter, parallel bool) (uintptr, bool, error) {
	return rtti.FindInstanceOf(p.handle, p.io, obj, filter, parallel)
}
