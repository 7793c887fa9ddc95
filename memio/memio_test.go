//go:build windows

package memio

import (
	"testing"
	"unsafe"
)

func TestLocalReadWriteRoundTrip(t *testing.T) {
	buf := make([]byte, 16)
	io := New(Local, nil)

	addr := uintptr(unsafe.Pointer(&buf[0]))
	n, err := io.Write(addr, []byte{1, 2, 3, 4})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if n != 4 {
		t.Fatalf("Write n = %d, want 4", n)
	}

	got, err := io.Read(addr, 4)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	want := []byte{1, 2, 3, 4}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Read = %v, want %v", got, want)
		}
	}
}

func TestLocalReadStringStopsAtNUL(t *testing.T) {
	buf := make([]byte, 32)
	copy(buf, "hello\x00garbage")
	io := New(Local, nil)
	addr := uintptr(unsafe.Pointer(&buf[0]))

	got, err := io.ReadString(addr)
	if err != nil {
		t.Fatalf("ReadString: %v", err)
	}
	if got != "hello" {
		t.Fatalf("ReadString = %q, want %q", got, "hello")
	}
}

func TestLocalReadUint16AndUint32(t *testing.T) {
	buf := []byte{0x34, 0x12, 0x78, 0x56, 0, 0, 0, 0}
	io := New(Local, nil)
	addr := uintptr(unsafe.Pointer(&buf[0]))

	u16, err := io.ReadUint16(addr)
	if err != nil {
		t.Fatalf("ReadUint16: %v", err)
	}
	if u16 != 0x1234 {
		t.Fatalf("ReadUint16 = %#x, want %#x", u16, 0x1234)
	}

	u32, err := io.ReadUint32(addr)
	if err != nil {
		t.Fatalf("ReadUint32: %v", err)
	}
	if u32 != 0x56781234 {
		t.Fatalf("ReadUint32 = %#x, want %#x", u32, 0x56781234)
	}
}

func TestDecodeUint32AndUint64(t *testing.T) {
	if got := decodeUint32([]byte{0x01, 0x00, 0x00, 0x00}); got != 1 {
		t.Fatalf("decodeUint32 = %d, want 1", got)
	}
	if got := decodeUint64([]byte{0xFF, 0, 0, 0, 0, 0, 0, 0}); got != 0xFF {
		t.Fatalf("decodeUint64 = %d, want 0xFF", got)
	}
}
