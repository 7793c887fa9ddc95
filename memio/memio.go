//go:build windows

// Package memio implements the local/remote memory I/O core: reading and
// writing bytes either inside the caller's own address space (a plain copy)
// or across a process boundary (ReadProcessMemory/WriteProcessMemory).
// Ported from wincpp's memory_factory::read/write (original_source), which
// switches on memory_type the same way.
package memio

import (
	"unsafe"

	"github.com/ogreworks/wincap/handle"
	"github.com/ogreworks/wincap/internal/werrors"
	"github.com/ogreworks/wincap/winapi"
)

// Mode selects how an IO dispatches its reads and writes.
type Mode int

const (
	// Local reads/writes the caller's own address space directly, with no
	// syscall involved.
	Local Mode = iota
	// Remote reads/writes another process's address space via
	// ReadProcessMemory/WriteProcessMemory.
	Remote
)

// IO is the memory-access core shared by every MemoryView. It is
// polymorphic in Mode: Local never touches h; Remote always does.
type IO struct {
	mode   Mode
	handle *handle.Handle
}

// New returns an IO bound to mode and, for Remote, to h.
func New(mode Mode, h *handle.Handle) IO {
	return IO{mode: mode, handle: h}
}

// Mode reports whether io operates on the local or a remote address space.
func (io IO) Mode() Mode { return io.mode }

// Read returns size bytes starting at address. In Local mode this is a
// direct copy out of the caller's address space; in Remote mode it is a
// single ReadProcessMemory call. A partial OS read is not silently
// truncated into success: any reported failure is returned as an error.
func (io IO) Read(address uintptr, size uintptr) ([]byte, error) {
	if size == 0 {
		return nil, nil
	}
	if io.mode == Local {
		src := unsafe.Slice((*byte)(unsafe.Pointer(address)), int(size))
		out := make([]byte, size)
		copy(out, src)
		return out, nil
	}
	return winapi.ReadProcessMemory(io.handle.Native(), address, size)
}

// Write copies bytes to address, returning the number of bytes the
// operation reports as actually written (always len(bytes) in Local mode).
func (io IO) Write(address uintptr, bytes []byte) (int, error) {
	if len(bytes) == 0 {
		return 0, nil
	}
	if io.mode == Local {
		dst := unsafe.Slice((*byte)(unsafe.Pointer(address)), len(bytes))
		copy(dst, bytes)
		return len(bytes), nil
	}
	return winapi.WriteProcessMemory(io.handle.Native(), address, bytes)
}

// ReadString reads up to 256 bytes starting at address and returns the
// portion before the first NUL byte, or the full window if none is found.
func (io IO) ReadString(address uintptr) (string, error) {
	const window = 256
	buf, err := io.Read(address, window)
	if err != nil {
		return "", err
	}
	for i, b := range buf {
		if b == 0 {
			return string(buf[:i]), nil
		}
	}
	return string(buf), nil
}

// WriteString writes s followed by a NUL terminator to address.
func (io IO) WriteString(address uintptr, s string) (int, error) {
	buf := make([]byte, len(s)+1)
	copy(buf, s)
	return io.Write(address, buf)
}

// ReadUintptr reads a pointer-sized little-endian value at address.
func (io IO) ReadUintptr(address uintptr) (uintptr, error) {
	buf, err := io.Read(address, 8)
	if err != nil {
		return 0, err
	}
	if len(buf) < 8 {
		return 0, werrors.New(werrors.OsFailure, "memio.ReadUintptr", "short read")
	}
	return uintptr(decodeUint64(buf)), nil
}

// ReadUint32 reads a 32-bit little-endian value at address.
func (io IO) ReadUint32(address uintptr) (uint32, error) {
	buf, err := io.Read(address, 4)
	if err != nil {
		return 0, err
	}
	if len(buf) < 4 {
		return 0, werrors.New(werrors.OsFailure, "memio.ReadUint32", "short read")
	}
	return decodeUint32(buf), nil
}

// ReadUint16 reads a 16-bit little-endian value at address.
func (io IO) ReadUint16(address uintptr) (uint16, error) {
	buf, err := io.Read(address, 2)
	if err != nil {
		return 0, err
	}
	if len(buf) < 2 {
		return 0, werrors.New(werrors.OsFailure, "memio.ReadUint16", "short read")
	}
	return uint16(buf[0]) | uint16(buf[1])<<8, nil
}

func decodeUint64(b []byte) uint64 {
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}

func decodeUint32(b []byte) uint32 {
	var v uint32
	for i := 3; i >= 0; i-- {
		v = v<<8 | uint32(b[i])
	}
	return v
}
