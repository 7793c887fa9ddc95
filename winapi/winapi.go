//go:build windows

// Package winapi wraps the thin, OS-specific primitives wincap is built on:
// handle lifetime, snapshot iteration, module enumeration, memory
// read/write/query/protect, and symbol undecoration. Each exported function
// is a small wrapper around one golang.org/x/sys/windows call (or, for
// UnDecorateSymbolName, one dbghelp.dll entry point), named after the
// primitive it wraps, in the style of program/server/ptrace.go's
// per-syscall Server methods. Other packages still import
// golang.org/x/sys/windows for its types and constants (windows.Handle,
// PAGE_* values, HWND).
package winapi

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/ogreworks/wincap/internal/werrors"
)

// OpenProcess opens pid with the given desired access mask.
func OpenProcess(desiredAccess uint32, pid uint32) (windows.Handle, error) {
	h, err := windows.OpenProcess(desiredAccess, false, pid)
	if err != nil {
		return 0, werrors.Wrap(werrors.OsFailure, "OpenProcess", err)
	}
	return h, nil
}

// CloseHandle releases a handle previously returned by this package.
func CloseHandle(h windows.Handle) error {
	if err := windows.CloseHandle(h); err != nil {
		return werrors.Wrap(werrors.OsFailure, "CloseHandle", err)
	}
	return nil
}

// CurrentProcess returns the pseudo-handle for the running process. It is
// never closed by the caller.
func CurrentProcess() windows.Handle {
	return windows.CurrentProcess()
}

// ProcessEntry mirrors the fields of a PROCESSENTRY32 record.
type ProcessEntry struct {
	PID      uint32
	ParentID uint32
	Threads  uint32
	Priority int32
	Name     string
}

// SnapshotProcesses returns every process visible in a toolhelp snapshot.
func SnapshotProcesses() ([]ProcessEntry, error) {
	snap, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return nil, werrors.Wrap(werrors.OsFailure, "CreateToolhelp32Snapshot", err)
	}
	defer windows.CloseHandle(snap)

	var entries []ProcessEntry
	var pe windows.ProcessEntry32
	pe.Size = uint32(unsafe.Sizeof(pe))
	for err := windows.Process32First(snap, &pe); err == nil; err = windows.Process32Next(snap, &pe) {
		entries = append(entries, ProcessEntry{
			PID:      pe.ProcessID,
			ParentID: pe.ParentProcessID,
			Threads:  pe.Threads,
			Priority: pe.PriClassBase,
			Name:     windows.UTF16ToString(pe.ExeFile[:]),
		})
	}
	return entries, nil
}

// ThreadEntry mirrors the fields of a THREADENTRY32 record.
type ThreadEntry struct {
	ID           uint32
	OwnerProcess uint32
	BasePriority int32
}

// SnapshotThreads returns every OS thread belonging to pid.
func SnapshotThreads(pid uint32) ([]ThreadEntry, error) {
	snap, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPTHREAD, 0)
	if err != nil {
		return nil, werrors.Wrap(werrors.OsFailure, "CreateToolhelp32Snapshot", err)
	}
	defer windows.CloseHandle(snap)

	var entries []ThreadEntry
	var te windows.ThreadEntry32
	te.Size = uint32(unsafe.Sizeof(te))
	for err := windows.Thread32First(snap, &te); err == nil; err = windows.Thread32Next(snap, &te) {
		if te.OwnerProcessID != pid {
			continue
		}
		entries = append(entries, ThreadEntry{
			ID:           te.ThreadID,
			OwnerProcess: te.OwnerProcessID,
			BasePriority: te.BasePri,
		})
	}
	return entries, nil
}

// ModuleEntry mirrors the fields of a MODULEENTRY32 record.
type ModuleEntry struct {
	Base uintptr
	Size uint32
	Name string
	Path string
}

// SnapshotModules returns every module loaded into pid.
func SnapshotModules(pid uint32) ([]ModuleEntry, error) {
	snap, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPMODULE|windows.TH32CS_SNAPMODULE32, pid)
	if err != nil {
		return nil, werrors.Wrap(werrors.OsFailure, "CreateToolhelp32Snapshot", err)
	}
	defer windows.CloseHandle(snap)

	var entries []ModuleEntry
	var me windows.ModuleEntry32
	me.Size = uint32(unsafe.Sizeof(me))
	for err := windows.Module32First(snap, &me); err == nil; err = windows.Module32Next(snap, &me) {
		entries = append(entries, ModuleEntry{
			Base: me.ModBaseAddr,
			Size: me.ModBaseSize,
			Name: windows.UTF16ToString(me.Module[:]),
			Path: windows.UTF16ToString(me.ExePath[:]),
		})
	}
	return entries, nil
}

// ReadProcessMemory reads size bytes from addr in the process owning h.
func ReadProcessMemory(h windows.Handle, addr uintptr, size uintptr) ([]byte, error) {
	buf := make([]byte, size)
	var n uintptr
	err := windows.ReadProcessMemory(h, addr, &buf[0], size, &n)
	if err != nil {
		return nil, werrors.Wrap(werrors.OsFailure, "ReadProcessMemory", err)
	}
	return buf[:n], nil
}

// WriteProcessMemory writes data to addr in the process owning h, returning
// the number of bytes the OS reports as actually written.
func WriteProcessMemory(h windows.Handle, addr uintptr, data []byte) (int, error) {
	if len(data) == 0 {
		return 0, nil
	}
	var n uintptr
	err := windows.WriteProcessMemory(h, addr, &data[0], uintptr(len(data)), &n)
	if err != nil {
		return int(n), werrors.Wrap(werrors.OsFailure, "WriteProcessMemory", err)
	}
	return int(n), nil
}

// MemoryBasicInformation mirrors the fields of MEMORY_BASIC_INFORMATION.
type MemoryBasicInformation struct {
	BaseAddress uintptr
	RegionSize  uintptr
	State       uint32
	Type        uint32
	Protect     uint32
}

// VirtualQueryEx reports the region containing addr. Any failure of the
// query, including reaching the end of the address space, is returned as
// ErrNoMoreRegions.
func VirtualQueryEx(h windows.Handle, addr uintptr) (MemoryBasicInformation, error) {
	var mbi windows.MemoryBasicInformation
	err := windows.VirtualQueryEx(h, addr, &mbi, unsafe.Sizeof(mbi))
	if err != nil {
		return MemoryBasicInformation{}, ErrNoMoreRegions
	}
	return MemoryBasicInformation{
		BaseAddress: mbi.BaseAddress,
		RegionSize:  uintptr(mbi.RegionSize),
		State:       mbi.State,
		Type:        mbi.Type,
		Protect:     mbi.Protect,
	}, nil
}

// ErrNoMoreRegions is returned by VirtualQueryEx whenever the query fails,
// which includes the cursor reaching the top of the addressable range.
var ErrNoMoreRegions = fmt.Errorf("winapi: no more regions")

// VirtualProtectEx changes the protection of [addr, addr+size) to newProtect,
// returning the protection that was in effect before the change.
func VirtualProtectEx(h windows.Handle, addr uintptr, size uintptr, newProtect uint32) (uint32, error) {
	var old uint32
	err := windows.VirtualProtectEx(h, addr, size, newProtect, &old)
	if err != nil {
		return 0, werrors.Wrap(werrors.OsFailure, "VirtualProtectEx", err)
	}
	return old, nil
}

// GetModuleEntryPoint returns the entry point of module in the process owning h.
func GetModuleEntryPoint(h windows.Handle, base uintptr) (uintptr, error) {
	var info windows.ModuleInfo
	err := windows.GetModuleInformation(h, windows.Handle(base), &info, uint32(unsafe.Sizeof(info)))
	if err != nil {
		return 0, werrors.Wrap(werrors.OsFailure, "GetModuleInformation", err)
	}
	return info.EntryPoint, nil
}

// GetProcessId returns the process id owning h.
func GetProcessId(h windows.Handle) (uint32, error) {
	pid, err := windows.GetProcessId(h)
	if err != nil {
		return 0, werrors.Wrap(werrors.OsFailure, "GetProcessId", err)
	}
	return pid, nil
}

// GetProcessImageBaseName returns the base name of the main module of the
// process owning h, in the letter case the OS reports.
func GetProcessImageBaseName(h windows.Handle) (string, error) {
	var buf [windows.MAX_PATH]uint16
	err := windows.GetModuleBaseName(h, 0, &buf[0], uint32(len(buf)))
	if err != nil {
		return "", werrors.Wrap(werrors.OsFailure, "GetModuleBaseName", err)
	}
	name := windows.UTF16ToString(buf[:])
	if name == "" {
		return "", werrors.Wrap(werrors.OsFailure, "GetModuleBaseName", err)
	}
	return name, nil
}

// WorkingSetInformation mirrors the fields wincap exposes from
// PSAPI_WORKING_SET_EX_INFORMATION.
type WorkingSetInformation struct {
	Valid     bool
	Shared    bool
	ShareCount uint8
	Protection uint8
}

// QueryWorkingSetEx reports whether addr is currently resident in the
// process owning h.
func QueryWorkingSetEx(h windows.Handle, addr uintptr) (WorkingSetInformation, error) {
	var info struct {
		VirtualAddress uintptr
		Flags          uint64
	}
	info.VirtualAddress = addr
	err := windows.QueryWorkingSetEx(h, uintptr(unsafe.Pointer(&info)), uint32(unsafe.Sizeof(info)))
	if err != nil {
		return WorkingSetInformation{}, werrors.Wrap(werrors.OsFailure, "QueryWorkingSetEx", err)
	}
	return WorkingSetInformation{
		Valid:      info.Flags&0x1 != 0,
		Shared:     (info.Flags>>1)&0x1 != 0,
		ShareCount: uint8((info.Flags >> 2) & 0x7),
		Protection: uint8((info.Flags >> 5) & 0x1f),
	}, nil
}
