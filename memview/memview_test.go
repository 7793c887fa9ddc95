//go:build windows

package memview

import (
	"testing"

	"github.com/ogreworks/wincap/memio"
	"github.com/ogreworks/wincap/region"
)

func TestContains(t *testing.T) {
	v := New(KindRegion, nil, memio.New(memio.Local, nil), 0x1000, 0x1000)
	if !v.Contains(0x1000) {
		t.Fatalf("expected base to be contained")
	}
	if v.Contains(0x2000) {
		t.Fatalf("expected end to be exclusive")
	}
	if v.Contains(0xFFF) {
		t.Fatalf("expected address before base to be excluded")
	}
}

func TestSkipRegion(t *testing.T) {
	cases := []struct {
		name string
		r    region.Region
		skip bool
	}{
		{"commit", region.Region{State: region.StateCommit}, false},
		{"reserve", region.Region{State: region.StateReserve}, true},
		{"free", region.Region{State: region.StateFree}, true},
	}
	for _, tc := range cases {
		if got := skipRegion(tc.r); got != tc.skip {
			t.Errorf("%s: skipRegion = %v, want %v", tc.name, got, tc.skip)
		}
	}
}

func TestPointerOffsetAndAddress(t *testing.T) {
	v := New(KindRegion, nil, memio.New(memio.Local, nil), 0, 0x1000)
	p := NewPointer(v, 0x100)
	if p.Address() != 0x100 {
		t.Fatalf("Address() = %#x, want 0x100", p.Address())
	}
	q := p.Offset(0x10)
	if q.Address() != 0x110 {
		t.Fatalf("Offset Address() = %#x, want 0x110", q.Address())
	}
}
