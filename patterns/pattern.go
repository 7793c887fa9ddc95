// Package patterns implements byte patterns with wildcard support and the
// four scanning algorithms used to find them in a buffer: naive,
// Boyer-Moore-Horspool, Turbo Boyer-Moore, and Raita. Ported from
// wincpp's patterns::pattern_t and patterns::scanner (original_source),
// kept dependency-free so it can be exercised against plain []byte buffers
// in tests without touching any OS primitive.
package patterns

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ogreworks/wincap/internal/werrors"
)

// Pattern is an ordered sequence of bytes, some of which may be wildcards.
// A wildcard byte matches any value at its position during a scan.
type Pattern struct {
	bytes []byte
	mask  []bool
	size  int
}

// Size returns the number of bytes (wildcard or strict) in p.
func (p Pattern) Size() int { return p.size }

// ByteAt and MaskAt expose the underlying tables for algorithms outside this
// package (none currently), and for tests.
func (p Pattern) ByteAt(i int) byte  { return p.bytes[i] }
func (p Pattern) MaskAt(i int) bool  { return p.mask[i] }

// IsStrict reports whether p contains no wildcard bytes. Turbo-BM is only
// correct for strict patterns; Scanner.Find and Scanner.FindAll fall back to
// BMH otherwise.
func (p Pattern) IsStrict() bool {
	for _, m := range p.mask {
		if !m {
			return false
		}
	}
	return true
}

// FromText parses a space-separated sequence of two-digit hex byte literals
// and "?" wildcards, e.g. "48 8B ? ? 05". Consecutive spaces are treated as
// a single separator.
func FromText(text string) (Pattern, error) {
	tokens := splitFields(text)
	if len(tokens) == 0 {
		return Pattern{}, werrors.InvalidArgumentf("patterns.FromText", "empty pattern text")
	}
	bs := make([]byte, len(tokens))
	mask := make([]bool, len(tokens))
	for i, tok := range tokens {
		if tok == "?" || tok == "??" {
			bs[i] = 0
			mask[i] = false
			continue
		}
		v, err := strconv.ParseUint(tok, 16, 8)
		if err != nil {
			return Pattern{}, werrors.InvalidArgumentf("patterns.FromText", "invalid byte token %q", tok)
		}
		bs[i] = byte(v)
		mask[i] = true
	}
	return Pattern{bytes: bs, mask: mask, size: len(bs)}, nil
}

// FromIDA builds a Pattern from an IDA-style array-of-bytes plus mask
// string, where mask[i] == 'x' marks a strict byte and any other character
// marks a wildcard. aob must contain one byte per mask character; wildcard
// positions in aob are ignored.
func FromIDA(aob []byte, mask string) (Pattern, error) {
	if len(aob) != len(mask) {
		return Pattern{}, werrors.InvalidArgumentf("patterns.FromIDA", "aob length %d does not match mask length %d", len(aob), len(mask))
	}
	bs := make([]byte, len(aob))
	m := make([]bool, len(aob))
	for i := range aob {
		strict := mask[i] == 'x'
		m[i] = strict
		if strict {
			bs[i] = aob[i]
		}
	}
	return Pattern{bytes: bs, mask: m, size: len(bs)}, nil
}

// FromBytes builds an all-strict Pattern matching buf exactly.
func FromBytes(buf []byte) Pattern {
	bs := make([]byte, len(buf))
	copy(bs, buf)
	mask := make([]bool, len(buf))
	for i := range mask {
		mask[i] = true
	}
	return Pattern{bytes: bs, mask: mask, size: len(bs)}
}

// String renders p the way it was written: two-digit hex bytes, "?" for
// wildcards, space separated.
func (p Pattern) String() string {
	var sb strings.Builder
	for i := 0; i < p.size; i++ {
		if i > 0 {
			sb.WriteByte(' ')
		}
		if p.mask[i] {
			fmt.Fprintf(&sb, "%02X", p.bytes[i])
		} else {
			sb.WriteByte('?')
		}
	}
	return sb.String()
}

func splitFields(s string) []string {
	var out []string
	start := -1
	for i := 0; i < len(s); i++ {
		if s[i] == ' ' || s[i] == '\t' {
			if start >= 0 {
				out = append(out, s[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		out = append(out, s[start:])
	}
	return out
}
