//go:build windows

package region

import "testing"

func TestDecodeState(t *testing.T) {
	cases := map[uint32]State{
		winMemCommit:  StateCommit,
		winMemReserve: StateReserve,
		winMemFree:    StateFree,
	}
	for win, want := range cases {
		if got := decodeState(win); got != want {
			t.Errorf("decodeState(%#x) = %v, want %v", win, got, want)
		}
	}
}

func TestDecodeType(t *testing.T) {
	cases := map[uint32]Type{
		winMemImage:   TypeImage,
		winMemMapped:  TypeMapped,
		winMemPrivate: TypePrivate,
	}
	for win, want := range cases {
		if got := decodeType(win); got != want {
			t.Errorf("decodeType(%#x) = %v, want %v", win, got, want)
		}
	}
}

func TestRegionEnd(t *testing.T) {
	r := Region{Base: 0x1000, Size: 0x2000}
	if got, want := r.End(), uintptr(0x3000); got != want {
		t.Fatalf("End() = %#x, want %#x", got, want)
	}
}

func TestSequenceStopsImmediatelyWhenCursorAtStop(t *testing.T) {
	s := New(nil, 0x1000, 0x1000)
	_, ok, err := s.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if ok {
		t.Fatalf("expected no region when start == stop")
	}
}
