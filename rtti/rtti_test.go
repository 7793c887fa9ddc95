//go:build windows

package rtti

import "testing"

func TestCompleteObjectLocatorSignatureInvariant(t *testing.T) {
	col := CompleteObjectLocator{Signature: 1}
	if col.Signature != 1 {
		t.Fatalf("expected signature invariant to hold for a freshly decoded valid record")
	}
}

func TestObjectVtableAddr(t *testing.T) {
	o := Object{VtableAddress: 0x1234}
	if got := o.VtableAddr(); got != 0x1234 {
		t.Fatalf("VtableAddr() = %#x, want 0x1234", got)
	}
}
