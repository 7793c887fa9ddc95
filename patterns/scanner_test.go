package patterns

import (
	"math/rand"
	"testing"
)

var algorithms = []Algorithm{Naive, BoyerMooreHorspool, TurboBM, Raita}

func TestFromTextRoundTrip(t *testing.T) {
	p, err := FromText("48 8B ? 05 FF")
	if err != nil {
		t.Fatalf("FromText: %v", err)
	}
	if p.Size() != 5 {
		t.Fatalf("expected size 5, got %d", p.Size())
	}
	if got, want := p.String(), "48 8B ? 05 FF"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestFromTextInvalidToken(t *testing.T) {
	if _, err := FromText("48 ZZ"); err == nil {
		t.Fatalf("expected error for invalid hex token")
	}
}

func TestFromIDA(t *testing.T) {
	p, err := FromIDA([]byte{0x90, 0x00, 0xCC}, "x?x")
	if err != nil {
		t.Fatalf("FromIDA: %v", err)
	}
	if !p.MaskAt(0) || p.MaskAt(1) || !p.MaskAt(2) {
		t.Fatalf("unexpected mask: %v %v %v", p.MaskAt(0), p.MaskAt(1), p.MaskAt(2))
	}
}

func TestFromIDALengthMismatch(t *testing.T) {
	if _, err := FromIDA([]byte{0x90}, "xx"); err == nil {
		t.Fatalf("expected error for length mismatch")
	}
}

func TestScanFindsStrictPattern(t *testing.T) {
	buf := []byte{0x00, 0x11, 0x22, 0x33, 0x44, 0x55}
	p := FromBytes([]byte{0x22, 0x33, 0x44})
	for _, algo := range algorithms {
		s := NewScanner(buf)
		if got := s.Find(p, algo); got != 2 {
			t.Errorf("algo %d: Find = %d, want 2", algo, got)
		}
	}
}

func TestScanWithWildcard(t *testing.T) {
	buf := []byte{0x00, 0x11, 0x22, 0x99, 0x44, 0x55}
	p, err := FromText("22 ? 44")
	if err != nil {
		t.Fatalf("FromText: %v", err)
	}
	for _, algo := range algorithms {
		s := NewScanner(buf)
		if got := s.Find(p, algo); got != 2 {
			t.Errorf("algo %d: Find = %d, want 2", algo, got)
		}
	}
}

func TestScanNoMatch(t *testing.T) {
	buf := []byte{0x00, 0x11, 0x22, 0x33}
	p := FromBytes([]byte{0xAA, 0xBB})
	for _, algo := range algorithms {
		s := NewScanner(buf)
		if got := s.Find(p, algo); got != -1 {
			t.Errorf("algo %d: Find = %d, want -1", algo, got)
		}
	}
}

func TestScanAllNonOverlappingOccurrences(t *testing.T) {
	buf := []byte{0xAA, 0xAA, 0xAA, 0xAA}
	p := FromBytes([]byte{0xAA, 0xAA})
	s := NewScanner(buf)
	got := s.FindAll(p, BoyerMooreHorspool)
	want := []int{0, 2}
	if len(got) != len(want) {
		t.Fatalf("FindAll = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("FindAll = %v, want %v", got, want)
		}
	}
}

// TestAlgorithmsAgreeOnRandomBuffers checks Naive, BoyerMooreHorspool, and
// Raita against each other (and TurboBM, restricted to strict patterns) on
// random buffers, since Naive is the oracle every other algorithm's
// contract is defined against.
func TestAlgorithmsAgreeOnRandomBuffers(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 200; trial++ {
		buf := make([]byte, 64)
		rng.Read(buf)

		patLen := 1 + rng.Intn(6)
		start := rng.Intn(len(buf) - patLen + 1)
		raw := make([]byte, patLen)
		copy(raw, buf[start:start+patLen])
		p := FromBytes(raw)

		s := NewScanner(buf)
		want := s.Find(p, Naive)
		for _, algo := range []Algorithm{BoyerMooreHorspool, TurboBM, Raita} {
			if got := s.Find(p, algo); got != want {
				t.Fatalf("trial %d algo %d: got %d, want %d (pattern %s)", trial, algo, got, want, p.String())
			}
		}
	}
}

func TestTurboBMFallsBackForWildcardPattern(t *testing.T) {
	buf := []byte{0x10, 0x20, 0x30, 0x40, 0x50}
	p, err := FromText("20 ? 40")
	if err != nil {
		t.Fatalf("FromText: %v", err)
	}
	s := NewScanner(buf)
	if got := s.Find(p, TurboBM); got != 1 {
		t.Fatalf("TurboBM with wildcard = %d, want 1", got)
	}
}
