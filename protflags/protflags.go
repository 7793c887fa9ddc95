// Package protflags implements ProtectionFlags: an immutable bitset over
// Windows page-protection bits, with set/clear/test and a pipe-joined
// textual representation in both directions. Adapted from core.Perm
// (core/mapping.go), a three-bit Read|Write|Exec bitset with the same
// "build a slice of names, strings.Join" String() shape, extended here to
// the full thirteen-bit Windows protection space and given a Parse
// inverse.
package protflags

import (
	"sort"
	"strings"

	"github.com/ogreworks/wincap/internal/werrors"
)

// Flags is an immutable bitset of page-protection bits.
type Flags uint32

const (
	NoAccess Flags = 1 << iota
	ReadOnly
	ReadWrite
	WriteCopy
	Execute
	ExecuteRead
	ExecuteReadWrite
	ExecuteWriteCopy
	Guard
	NoCache
	WriteCombine
	TargetsInvalid
	TargetsNoUpdate
)

var names = []struct {
	flag Flags
	name string
}{
	{NoAccess, "noaccess"},
	{ReadOnly, "readonly"},
	{ReadWrite, "readwrite"},
	{WriteCopy, "writecopy"},
	{Execute, "execute"},
	{ExecuteRead, "executeread"},
	{ExecuteReadWrite, "executereadwrite"},
	{ExecuteWriteCopy, "executewritecopy"},
	{Guard, "guard"},
	{NoCache, "nocache"},
	{WriteCombine, "writecombine"},
	{TargetsInvalid, "targetsinvalid"},
	{TargetsNoUpdate, "targetsnoupdate"},
}

// Add returns f with other's bits set.
func (f Flags) Add(other Flags) Flags { return f | other }

// Remove returns f with other's bits cleared.
func (f Flags) Remove(other Flags) Flags { return f &^ other }

// Has reports whether every bit in other is set in f.
func (f Flags) Has(other Flags) bool { return f&other == other }

// Equal reports whether f and other carry exactly the same bits.
func (f Flags) Equal(other Flags) bool { return f == other }

// String formats f as its pipe-joined lowercase bit names, in declaration
// order, or "none" if no bit is set.
func (f Flags) String() string {
	var parts []string
	for _, n := range names {
		if f.Has(n.flag) {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// Parse is the inverse of String: it accepts a pipe-joined list of the same
// lowercase names (whitespace around tokens is ignored) and returns the
// corresponding Flags, or InvalidArgument if any token is unrecognized.
func Parse(s string) (Flags, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "none" {
		return 0, nil
	}
	var f Flags
	for _, tok := range strings.Split(s, "|") {
		tok = strings.ToLower(strings.TrimSpace(tok))
		bit, ok := byName[tok]
		if !ok {
			return 0, werrors.InvalidArgumentf("protflags.Parse", "unrecognized protection flag %q", tok)
		}
		f |= bit
	}
	return f, nil
}

var byName = func() map[string]Flags {
	m := make(map[string]Flags, len(names))
	for _, n := range names {
		m[n.name] = n.flag
	}
	return m
}()

// Bits returns the individual flags set in f, sorted by declaration order.
func (f Flags) Bits() []Flags {
	var out []Flags
	for _, n := range names {
		if f.Has(n.flag) {
			out = append(out, n.flag)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
