//go:build windows

package windowenum

import (
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

// golang.org/x/sys/windows wraps kernel32/ntdll; it has no user32 GUI
// surface, so the handful of window primitives this package needs are
// bound directly via NewLazyDLL/NewProc, the same idiom winapi's dbghelp
// binding and cznic-virtual's windows.go use for DLLs x/sys doesn't cover.
var (
	user32                      = syscall.NewLazyDLL("user32.dll")
	procEnumWindows             = user32.NewProc("EnumWindows")
	procGetWindowTextW          = user32.NewProc("GetWindowTextW")
	procGetClassNameW           = user32.NewProc("GetClassNameW")
	procGetWindowThreadProcessId = user32.NewProc("GetWindowThreadProcessId")
	procGetForegroundWindow     = user32.NewProc("GetForegroundWindow")
	procGetWindowPlacement      = user32.NewProc("GetWindowPlacement")
)

type point struct{ x, y int32 }

type rect struct{ left, top, right, bottom int32 }

type windowPlacement struct {
	length         uint32
	flags          uint32
	showCmd        uint32
	minPosition    point
	maxPosition    point
	normalPosition rect
}

func enumWindows(cb func(windows.HWND) bool) error {
	callback := syscall.NewCallback(func(hwnd windows.HWND, _ uintptr) uintptr {
		if cb(hwnd) {
			return 1
		}
		return 0
	})
	r, _, err := procEnumWindows.Call(callback, 0)
	if r == 0 {
		return err
	}
	return nil
}

func getWindowText(hwnd windows.HWND, buf *uint16, size int32) (int32, error) {
	r, _, err := procGetWindowTextW.Call(uintptr(hwnd), uintptr(unsafe.Pointer(buf)), uintptr(size))
	if r == 0 {
		return 0, err
	}
	return int32(r), nil
}

func getClassName(hwnd windows.HWND, buf *uint16, size int32) (int32, error) {
	r, _, err := procGetClassNameW.Call(uintptr(hwnd), uintptr(unsafe.Pointer(buf)), uintptr(size))
	if r == 0 {
		return 0, err
	}
	return int32(r), nil
}

func getWindowThreadProcessId(hwnd windows.HWND, pid *uint32) uint32 {
	r, _, _ := procGetWindowThreadProcessId.Call(uintptr(hwnd), uintptr(unsafe.Pointer(pid)))
	return uint32(r)
}

func getForegroundWindow() windows.HWND {
	r, _, _ := procGetForegroundWindow.Call()
	return windows.HWND(r)
}

func getWindowPlacement(hwnd windows.HWND, wp *windowPlacement) error {
	r, _, err := procGetWindowPlacement.Call(uintptr(hwnd), uintptr(unsafe.Pointer(wp)))
	if r == 0 {
		return err
	}
	return nil
}
