//go:build windows

package windowenum

import "testing"

func TestShowStateValues(t *testing.T) {
	cases := map[ShowState]uint32{
		Hide:       0,
		ShowNormal: 1,
		Restore:    9,
	}
	for state, want := range cases {
		if uint32(state) != want {
			t.Errorf("%v = %d, want %d", state, uint32(state), want)
		}
	}
}

func TestRectangleZeroValue(t *testing.T) {
	var r Rectangle
	if r.Left != 0 || r.Top != 0 || r.Right != 0 || r.Bottom != 0 {
		t.Fatalf("expected zero rectangle, got %+v", r)
	}
}
