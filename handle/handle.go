//go:build windows

// Package handle provides scoped ownership of native OS handles and lazy
// iteration over the process/thread/module snapshot tables. A Handle may be
// shared across region enumerators, memory views, and scoped protection
// guards; its owns flag distinguishes an owning wrapper (closed on release)
// from a borrowed pseudo-handle (e.g. the current-process pseudo-handle,
// never closed).
package handle

import (
	"sync"

	"golang.org/x/sys/windows"

	"github.com/ogreworks/wincap/internal/werrors"
	"github.com/ogreworks/wincap/winapi"
)

// Handle is a scoped owner of a native handle, shared by pointer. It keeps
// no reference count: the first Close releases the native handle for every
// holder.
type Handle struct {
	mu     sync.Mutex
	native windows.Handle
	owns   bool
	closed bool
}

// New wraps a native handle. If owns is false, Close never calls CloseHandle
// on it — used for OS pseudo-handles such as the current-process handle.
func New(native windows.Handle, owns bool) *Handle {
	return &Handle{native: native, owns: owns}
}

// Native returns the underlying OS handle value.
func (h *Handle) Native() windows.Handle {
	return h.native
}

// Owns reports whether this Handle closes its native handle on Close.
func (h *Handle) Owns() bool {
	return h.owns
}

// Close releases the native handle iff it is owned and not already closed.
// Close is idempotent and safe to call from multiple holders of a shared
// Handle.
func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed || !h.owns || h.native == windows.InvalidHandle || h.native == 0 {
		h.closed = true
		return nil
	}
	h.closed = true
	return winapi.CloseHandle(h.native)
}

// OpenProcess opens pid for the given desired access mask and returns an
// owning Handle.
func OpenProcess(desiredAccess uint32, pid uint32) (*Handle, error) {
	native, err := winapi.OpenProcess(desiredAccess, pid)
	if err != nil {
		return nil, err
	}
	return New(native, true), nil
}

// Current returns a non-owning Handle wrapping the current-process
// pseudo-handle.
func Current() *Handle {
	return New(winapi.CurrentProcess(), false)
}

// ProcessInfo is a single entry of a process snapshot.
type ProcessInfo struct {
	PID      uint32
	Name     string
	ParentID uint32
	Threads  uint32
	Priority int32
}

// Processes returns a snapshot of every running process.
func Processes() ([]ProcessInfo, error) {
	entries, err := winapi.SnapshotProcesses()
	if err != nil {
		return nil, err
	}
	out := make([]ProcessInfo, len(entries))
	for i, e := range entries {
		out[i] = ProcessInfo{PID: e.PID, Name: e.Name, ParentID: e.ParentID, Threads: e.Threads, Priority: e.Priority}
	}
	return out, nil
}

// FindProcessByName returns the first process snapshot entry whose Name
// matches name case-insensitively, or a NotFound error.
func FindProcessByName(name string) (ProcessInfo, error) {
	procs, err := Processes()
	if err != nil {
		return ProcessInfo{}, err
	}
	for _, p := range procs {
		if equalFold(p.Name, name) {
			return p, nil
		}
	}
	return ProcessInfo{}, werrors.NotFoundf("FindProcessByName", "no process named %q", name)
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

// ThreadInfo is a single entry of a thread snapshot.
type ThreadInfo struct {
	ID           uint32
	OwnerProcess uint32
	BasePriority int32
}

// Threads returns a snapshot of every OS thread owned by pid.
func Threads(pid uint32) ([]ThreadInfo, error) {
	entries, err := winapi.SnapshotThreads(pid)
	if err != nil {
		return nil, err
	}
	out := make([]ThreadInfo, len(entries))
	for i, e := range entries {
		out[i] = ThreadInfo{ID: e.ID, OwnerProcess: e.OwnerProcess, BasePriority: e.BasePriority}
	}
	return out, nil
}

// ModuleInfo is a single entry of a module snapshot.
type ModuleInfo struct {
	Base uintptr
	Size uint32
	Name string
	Path string
}

// Modules returns a snapshot of every module loaded into pid.
func Modules(pid uint32) ([]ModuleInfo, error) {
	entries, err := winapi.SnapshotModules(pid)
	if err != nil {
		return nil, err
	}
	out := make([]ModuleInfo, len(entries))
	for i, e := range entries {
		out[i] = ModuleInfo{Base: e.Base, Size: e.Size, Name: e.Name, Path: e.Path}
	}
	return out, nil
}
