//go:build windows

package protflags

import "golang.org/x/sys/windows"

// bit <-> PAGE_* constant correspondence. NoAccess/ReadOnly/... through
// ExecuteWriteCopy are mutually exclusive "base" protections in the Win32
// API; Guard/NoCache/WriteCombine/TargetsInvalid/TargetsNoUpdate are
// modifier bits ORed on top. ToWin32/FromWin32 round-trip both groups except
// TargetsNoUpdate: ToWin32 sets no bit for it, and FromWin32 reports the
// shared 0x40000000 bit as TargetsInvalid.
var base = []struct {
	flag Flags
	win  uint32
}{
	{NoAccess, windows.PAGE_NOACCESS},
	{ReadOnly, windows.PAGE_READONLY},
	{ReadWrite, windows.PAGE_READWRITE},
	{WriteCopy, windows.PAGE_WRITECOPY},
	{Execute, windows.PAGE_EXECUTE},
	{ExecuteRead, windows.PAGE_EXECUTE_READ},
	{ExecuteReadWrite, windows.PAGE_EXECUTE_READWRITE},
	{ExecuteWriteCopy, windows.PAGE_EXECUTE_WRITECOPY},
}

var modifiers = []struct {
	flag Flags
	win  uint32
}{
	{Guard, windows.PAGE_GUARD},
	{NoCache, windows.PAGE_NOCACHE},
	{WriteCombine, windows.PAGE_WRITECOMBINE},
	// TargetsInvalid and TargetsNoUpdate share the same bit value
	// (PAGE_TARGETS_INVALID == PAGE_TARGETS_NO_UPDATE == 0x40000000); which
	// name applies depends on whether the base protection is PAGE_NOACCESS
	// (invalid) or a CFG-enabled executable mapping (no-update).
	{TargetsInvalid, 0x40000000},
}

// ToWin32 converts f to the Win32 VirtualProtect-style DWORD.
func (f Flags) ToWin32() uint32 {
	var win uint32
	for _, b := range base {
		if f.Has(b.flag) {
			win |= b.win
		}
	}
	for _, m := range modifiers {
		if f.Has(m.flag) {
			win |= m.win
		}
	}
	return win
}

// FromWin32 converts a Win32 VirtualProtect-style DWORD to Flags.
func FromWin32(win uint32) Flags {
	var f Flags
	for _, b := range base {
		if win&b.win == b.win && b.win != 0 {
			f |= b.flag
			break
		}
	}
	for _, m := range modifiers {
		if win&m.win != 0 {
			f |= m.flag
		}
	}
	return f
}
