//go:build windows

package modules

import (
	"encoding/binary"
	"testing"
)

func buildFakeImage(numSections int) []byte {
	const lfanew = 0x80
	buf := make([]byte, 0x1000)

	binary.LittleEndian.PutUint16(buf[0:2], dosSignature)
	binary.LittleEndian.PutUint32(buf[0x3C:0x40], lfanew)

	binary.LittleEndian.PutUint32(buf[lfanew:lfanew+4], ntSignature)
	binary.LittleEndian.PutUint16(buf[lfanew+4+2:lfanew+4+4], uint16(numSections))
	sizeOfOptional := uint16(240) // IMAGE_OPTIONAL_HEADER64 is 240 bytes for 16 data dirs
	binary.LittleEndian.PutUint16(buf[lfanew+4+16:lfanew+4+18], sizeOfOptional)

	optionalOff := lfanew + 4 + 20
	sectionsOff := optionalOff + int(sizeOfOptional)
	for i := 0; i < numSections; i++ {
		off := sectionsOff + i*40
		copy(buf[off:off+8], []byte("sec"))
		binary.LittleEndian.PutUint32(buf[off+8:off+12], 0x2000)
		binary.LittleEndian.PutUint32(buf[off+12:off+16], 0x1000*uint32(i+1))
		binary.LittleEndian.PutUint32(buf[off+16:off+20], 0x2000)
	}
	return buf
}

func TestReadDosHeaderRejectsBadMagic(t *testing.T) {
	buf := make([]byte, 0x40)
	if _, ok := readDosHeader(buf); ok {
		t.Fatalf("expected failure for zeroed buffer")
	}
}

func TestReadDosAndNtHeaders(t *testing.T) {
	buf := buildFakeImage(2)
	dos, ok := readDosHeader(buf)
	if !ok {
		t.Fatalf("readDosHeader failed")
	}
	if dos.eLfanew != 0x80 {
		t.Fatalf("eLfanew = %#x, want 0x80", dos.eLfanew)
	}

	nt, ok := readNtHeaders64(buf, dos.eLfanew)
	if !ok {
		t.Fatalf("readNtHeaders64 failed")
	}
	if nt.numberOfSections != 2 {
		t.Fatalf("numberOfSections = %d, want 2", nt.numberOfSections)
	}

	sections := readSectionHeaders(buf, nt)
	if len(sections) != 2 {
		t.Fatalf("len(sections) = %d, want 2", len(sections))
	}
	if sectionNameString(sections[0].name) != "sec" {
		t.Fatalf("section name = %q, want %q", sectionNameString(sections[0].name), "sec")
	}
	if sections[1].virtualAddress != 0x2000 {
		t.Fatalf("second section virtualAddress = %#x, want 0x2000", sections[1].virtualAddress)
	}
}

func TestCString(t *testing.T) {
	buf := []byte("hello\x00world")
	if got := cString(buf, 0); got != "hello" {
		t.Fatalf("cString = %q, want %q", got, "hello")
	}
}

func TestLeUint32AndUint16(t *testing.T) {
	if got := leUint32([]byte{1, 0, 0, 0}); got != 1 {
		t.Fatalf("leUint32 = %d, want 1", got)
	}
	if got := leUint16([]byte{2, 0}); got != 2 {
		t.Fatalf("leUint16 = %d, want 2", got)
	}
}
