//go:build windows

package memview

import (
	"sync"

	"github.com/ogreworks/wincap/handle"
	"github.com/ogreworks/wincap/internal/werrors"
	"github.com/ogreworks/wincap/protflags"
	"github.com/ogreworks/wincap/winapi"
)

// ScopedProtection is an RAII-style guard over a single VirtualProtectEx
// change. By the time protect returns, the OS has already applied newFlags
// and reported oldFlags; Release restores oldFlags exactly once. A failed
// restore is a hard error, never swallowed — the caller's invariants over
// the region may otherwise silently break.
type ScopedProtection struct {
	mu        sync.Mutex
	handle    *handle.Handle
	address   uintptr
	size      uintptr
	newFlags  protflags.Flags
	oldFlags  protflags.Flags
	released  bool
}

func protect(h *handle.Handle, address uintptr, size uintptr, newFlags protflags.Flags) (*ScopedProtection, error) {
	old, err := winapi.VirtualProtectEx(h.Native(), address, size, newFlags.ToWin32())
	if err != nil {
		return nil, err
	}
	return &ScopedProtection{
		handle:   h,
		address:  address,
		size:     size,
		newFlags: newFlags,
		oldFlags: protflags.FromWin32(old),
	}, nil
}

// NewFlags returns the protection this guard applied.
func (s *ScopedProtection) NewFlags() protflags.Flags { return s.newFlags }

// OldFlags returns the protection this guard will restore.
func (s *ScopedProtection) OldFlags() protflags.Flags { return s.oldFlags }

// Release restores OldFlags. Only the first call performs the restore;
// later calls are no-ops returning nil. The only legal transition out of
// the protected state is a single release — the guard must never be used
// in a way that would restore twice.
func (s *ScopedProtection) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return nil
	}
	s.released = true
	_, err := winapi.VirtualProtectEx(s.handle.Native(), s.address, s.size, s.oldFlags.ToWin32())
	if err != nil {
		return werrors.Wrap(werrors.ProtectionRestoreFailed, "ScopedProtection.Release", err)
	}
	return nil
}
