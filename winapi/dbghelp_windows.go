//go:build windows

package winapi

import (
	"errors"
	"unsafe"

	"golang.org/x/sys/windows"
)

// dbghelp.dll is not wrapped by golang.org/x/sys/windows, so its one symbol
// wincap needs is bound directly via NewLazySystemDLL/LazyProc, the same
// idiom cznic-virtual/windows.go uses to bind Win32 entry points that
// aren't part of the Go standard syscall surface.
var (
	dbghelp                  = windows.NewLazySystemDLL("dbghelp.dll")
	procUnDecorateSymbolName = dbghelp.NewProc("UnDecorateSymbolName")
)

const undnameNameOnly = 0x1000

// ErrUndecorate is returned when UnDecorateSymbolName reports failure.
var ErrUndecorate = errors.New("winapi: UnDecorateSymbolName failed")

// UnDecorateSymbolName demangles an MSVC mangled symbol name, requesting
// only the bare class/function name (UNDNAME_NAME_ONLY).
func UnDecorateSymbolName(mangled string) (string, error) {
	in, err := windows.BytePtrFromString(mangled)
	if err != nil {
		return "", err
	}
	out := make([]byte, 512)
	r, _, _ := procUnDecorateSymbolName.Call(
		uintptr(unsafe.Pointer(in)),
		uintptr(unsafe.Pointer(&out[0])),
		uintptr(len(out)),
		undnameNameOnly,
	)
	if r == 0 {
		return "", ErrUndecorate
	}
	return string(out[:r]), nil
}
