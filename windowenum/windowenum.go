//go:build windows

// Package windowenum lists the top-level windows belonging to a process:
// handle, title, class name, owner pid, foreground state, and placement.
// Ported directly from wincpp/include/wincpp/windows/window.hpp
// (original_source) — deliberately no "hard engineering" here, per the
// design note that this component carries no interesting invariants of its
// own.
package windowenum

import (
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/ogreworks/wincap/internal/werrors"
)

// ShowState mirrors the SW_* window show-state constants.
type ShowState uint32

const (
	Hide ShowState = iota
	ShowNormal
	ShowMinimized
	ShowMaximized
	ShowNoActivate
	Show
	Minimize
	ShowMinNoActive
	ShowNA
	Restore
	ShowDefault
	ForceMinimize
)

// Point is a 2D integer coordinate.
type Point struct{ X, Y int32 }

// Rectangle is an axis-aligned rectangle in screen coordinates.
type Rectangle struct{ Left, Top, Right, Bottom int32 }

// Placement is a window's show state plus its minimized and maximized
// positions (points) and its normal-position rectangle.
type Placement struct {
	Flags          uint32
	ShowState      ShowState
	MinPosition    Point
	MaxPosition    Point
	NormalPosition Rectangle
}

// Window is a single top-level window.
type Window struct {
	Handle windows.HWND
}

// Title returns the window's caption text.
func (w Window) Title() (string, error) {
	buf := make([]uint16, 512)
	n, err := getWindowText(w.Handle, &buf[0], int32(len(buf)))
	if err != nil {
		return "", werrors.Wrap(werrors.OsFailure, "Window.Title", err)
	}
	return windows.UTF16ToString(buf[:n]), nil
}

// ClassName returns the window's registered class name.
func (w Window) ClassName() (string, error) {
	buf := make([]uint16, 256)
	n, err := getClassName(w.Handle, &buf[0], int32(len(buf)))
	if err != nil {
		return "", werrors.Wrap(werrors.OsFailure, "Window.ClassName", err)
	}
	return windows.UTF16ToString(buf[:n]), nil
}

// ProcessID returns the id of the process that owns the window.
func (w Window) ProcessID() uint32 {
	var pid uint32
	getWindowThreadProcessId(w.Handle, &pid)
	return pid
}

// IsActive reports whether the window is the current foreground window.
func (w Window) IsActive() bool {
	return getForegroundWindow() == w.Handle
}

// Placement returns the window's current show state, minimized and maximized
// positions, and normal-position rectangle.
func (w Window) Placement() (Placement, error) {
	var wp windowPlacement
	wp.length = uint32(unsafe.Sizeof(wp))
	if err := getWindowPlacement(w.Handle, &wp); err != nil {
		return Placement{}, werrors.Wrap(werrors.OsFailure, "Window.Placement", err)
	}
	return Placement{
		Flags:     wp.flags,
		ShowState: ShowState(wp.showCmd),
		MinPosition: Point{X: wp.minPosition.x, Y: wp.minPosition.y},
		MaxPosition: Point{X: wp.maxPosition.x, Y: wp.maxPosition.y},
		NormalPosition: Rectangle{
			Left:   wp.normalPosition.left,
			Top:    wp.normalPosition.top,
			Right:  wp.normalPosition.right,
			Bottom: wp.normalPosition.bottom,
		},
	}, nil
}

// Windows enumerates every top-level window belonging to pid.
func Windows(pid uint32) ([]Window, error) {
	var out []Window
	err := enumWindows(func(hwnd windows.HWND) bool {
		var owner uint32
		getWindowThreadProcessId(hwnd, &owner)
		if owner == pid {
			out = append(out, Window{Handle: hwnd})
		}
		return true
	})
	if err != nil {
		return nil, werrors.Wrap(werrors.OsFailure, "Windows", err)
	}
	return out, nil
}
