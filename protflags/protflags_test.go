package protflags

import "testing"

func TestAddRemoveHas(t *testing.T) {
	f := ReadWrite.Add(Guard)
	if !f.Has(ReadWrite) || !f.Has(Guard) {
		t.Fatalf("expected ReadWrite|Guard, got %v", f)
	}
	f = f.Remove(Guard)
	if f.Has(Guard) {
		t.Fatalf("Guard should have been removed, got %v", f)
	}
	if !f.Equal(ReadWrite) {
		t.Fatalf("expected exactly ReadWrite after remove, got %v", f)
	}
}

func TestStringRoundTrip(t *testing.T) {
	cases := []Flags{
		ReadWrite,
		ExecuteRead.Add(Guard),
		NoAccess,
		ReadOnly.Add(NoCache).Add(WriteCombine),
	}
	for _, want := range cases {
		s := want.String()
		got, err := Parse(s)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", s, err)
		}
		if got != want {
			t.Fatalf("round trip %v -> %q -> %v", want, s, got)
		}
	}
}

func TestStringNone(t *testing.T) {
	if Flags(0).String() != "none" {
		t.Fatalf("expected %q, got %q", "none", Flags(0).String())
	}
	got, err := Parse("none")
	if err != nil || got != 0 {
		t.Fatalf("Parse(none) = %v, %v", got, err)
	}
}

func TestParseUnknown(t *testing.T) {
	if _, err := Parse("bogus"); err == nil {
		t.Fatalf("expected error for unknown flag name")
	}
}

func TestBitsOrdering(t *testing.T) {
	f := Guard.Add(ReadOnly)
	bits := f.Bits()
	if len(bits) != 2 {
		t.Fatalf("expected 2 bits, got %d", len(bits))
	}
	if bits[0] != ReadOnly || bits[1] != Guard {
		t.Fatalf("expected declaration order [ReadOnly, Guard], got %v", bits)
	}
}
