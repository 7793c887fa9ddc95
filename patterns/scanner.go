package patterns

// Algorithm selects a byte-search strategy for Scanner.Find and Scanner.FindAll.
type Algorithm int

const (
	// Naive compares the pattern at every offset; the slowest algorithm and
	// the oracle every other algorithm is checked against.
	Naive Algorithm = iota
	// BoyerMooreHorspool skips ahead using a single bad-character table
	// built from the pattern's strict bytes.
	BoyerMooreHorspool
	// TurboBM extends BoyerMooreHorspool with a turbo-shift that remembers
	// how far the previous comparison matched, avoiding re-matching
	// suffixes already known to be equal. Only correct for strict
	// (wildcard-free) patterns; Scanner falls back to BoyerMooreHorspool
	// otherwise.
	TurboBM
	// Raita checks the last, first, and middle byte before comparing the
	// interior, which rejects most false starts in three comparisons.
	Raita
)

// Scanner searches a fixed buffer for occurrences of a Pattern.
type Scanner struct {
	buffer []byte
}

// NewScanner wraps buf for repeated scans. buf is not copied; the caller
// must not mutate it while a scan is in flight.
func NewScanner(buf []byte) Scanner {
	return Scanner{buffer: buf}
}

// Find returns the offset of the first occurrence of p in the buffer using
// algo, or -1 if p does not occur. TurboBM is silently treated as
// BoyerMooreHorspool when p is not strict.
func (s Scanner) Find(p Pattern, algo Algorithm) int {
	if algo == TurboBM && !p.IsStrict() {
		algo = BoyerMooreHorspool
	}
	switch algo {
	case Naive:
		return indexNaive(p, s.buffer)
	case TurboBM:
		return indexTurboBM(p, s.buffer)
	case Raita:
		return indexRaita(p, s.buffer)
	default:
		return indexBMH(p, s.buffer)
	}
}

// FindAll returns every non-overlapping occurrence of p in the buffer, in
// ascending order, advancing past each match by p.Size() before resuming.
func (s Scanner) FindAll(p Pattern, algo Algorithm) []int {
	var out []int
	offset := 0
	for offset <= len(s.buffer)-p.Size() {
		sub := Scanner{buffer: s.buffer[offset:]}
		idx := sub.Find(p, algo)
		if idx < 0 {
			break
		}
		out = append(out, offset+idx)
		offset += idx + p.Size()
	}
	return out
}

func indexNaive(p Pattern, buf []byte) int {
	n := p.Size()
	if n == 0 || len(buf) < n {
		return -1
	}
	for start := 0; start <= len(buf)-n; start++ {
		match := true
		for i := 0; i < n; i++ {
			if p.mask[i] && p.bytes[i] != buf[start+i] {
				match = false
				break
			}
		}
		if match {
			return start
		}
	}
	return -1
}

func indexBMH(p Pattern, buf []byte) int {
	n := p.Size()
	if n == 0 || len(buf) == 0 || n > len(buf) {
		return -1
	}

	// A wildcard at position i matches any byte, so no shift may exceed
	// n-1-i for the rightmost such wildcard.
	wild := n
	for i := 0; i < n-1; i++ {
		if !p.mask[i] {
			wild = n - 1 - i
		}
	}
	var skip [256]int
	for i := range skip {
		skip[i] = wild
	}
	for i := 0; i < n-1; i++ {
		if p.mask[i] && n-1-i < wild {
			skip[p.bytes[i]] = n - 1 - i
		}
	}

	bufferIdx := 0
	for bufferIdx <= len(buf)-n {
		patternIdx := n - 1
		for patternIdx >= 0 {
			if p.mask[patternIdx] && p.bytes[patternIdx] != buf[bufferIdx+patternIdx] {
				break
			}
			patternIdx--
		}
		if patternIdx < 0 {
			return bufferIdx
		}
		lastByte := buf[bufferIdx+n-1]
		bufferIdx += skip[lastByte]
	}
	return -1
}

func indexTurboBM(p Pattern, buf []byte) int {
	n := p.Size()
	if n == 0 || len(buf) == 0 || n > len(buf) {
		return -1
	}

	var skip [256]int
	for i := range skip {
		skip[i] = n
	}
	for i := 0; i < n-1; i++ {
		if p.mask[i] {
			skip[p.bytes[i]] = n - 1 - i
		}
	}

	turboShift := 0
	shift := 0
	j := 0

	for j <= len(buf)-n {
		i := n - 1
		for i >= 0 && p.bytes[i] == buf[j+i] {
			i--
		}
		if i < 0 {
			return j
		}

		if turboShift > 0 {
			shift = max(1, skip[buf[j+n-1]])
			turboShift = 0
		} else {
			lastByte := buf[j+n-1]
			shift = skip[lastByte]
			if i < n-1 {
				turboShift = n - 1 - i
			}
		}

		j += max(shift, turboShift)
	}
	return -1
}

func indexRaita(p Pattern, buf []byte) int {
	n := p.Size()
	if n == 0 || len(buf) == 0 || n > len(buf) {
		return -1
	}

	lastIdx := n - 1
	midIdx := n / 2

	wild := n
	for i := 0; i < lastIdx; i++ {
		if !p.mask[i] {
			wild = lastIdx - i
		}
	}
	var skip [256]int
	for i := range skip {
		skip[i] = wild
	}
	for i := 0; i < lastIdx; i++ {
		if p.mask[i] && lastIdx-i < wild {
			skip[p.bytes[i]] = lastIdx - i
		}
	}

	bufferIdx := 0
	for bufferIdx <= len(buf)-n {
		if !p.mask[lastIdx] || p.bytes[lastIdx] == buf[bufferIdx+lastIdx] {
			if !p.mask[0] || p.bytes[0] == buf[bufferIdx] {
				if !p.mask[midIdx] || p.bytes[midIdx] == buf[bufferIdx+midIdx] {
					patternIdx := 1
					for patternIdx < lastIdx &&
						(!p.mask[patternIdx] || p.bytes[patternIdx] == buf[bufferIdx+patternIdx]) {
						patternIdx++
					}
					if patternIdx >= lastIdx {
						return bufferIdx
					}
				}
			}
		}
		lastByte := buf[bufferIdx+lastIdx]
		bufferIdx += skip[lastByte]
	}
	return -1
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
