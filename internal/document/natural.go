package document

import (
	"path/filepath"
	"slices"
	"strings"
)

// NaturalLess orders strings the way a human reads file names: runs of
// digits compare by numeric value, everything else compares case
// insensitively byte by byte. "page_2" sorts before "page_10".
func NaturalLess(a, b string) bool {
	ai, bi := 0, 0
	for ai < len(a) && bi < len(b) {
		aDigit := isDigit(a[ai])
		bDigit := isDigit(b[bi])

		switch {
		case aDigit && bDigit:
			aj := digitRunEnd(a, ai)
			bj := digitRunEnd(b, bi)
			an := strings.TrimLeft(a[ai:aj], "0")
			bn := strings.TrimLeft(b[bi:bj], "0")
			if len(an) != len(bn) {
				return len(an) < len(bn)
			}
			if an != bn {
				return an < bn
			}
			ai, bi = aj, bj
		case aDigit:
			// a's literal chunk ended before b's did, making it a strict
			// prefix of b's, so a sorts first.
			return true
		case bDigit:
			return false
		default:
			al := lower(a[ai])
			bl := lower(b[bi])
			if al != bl {
				return al < bl
			}
			ai++
			bi++
		}
	}
	return len(a)-ai < len(b)-bi
}

// SortByRelPath natural-sorts paths in place by their slash-normalized path
// relative to base. The sort is stable, paths with equal keys keep their
// input order.
func SortByRelPath(paths []string, base string) {
	key := func(path string) string {
		rel, err := filepath.Rel(base, path)
		if err != nil {
			rel = path
		}
		return filepath.ToSlash(rel)
	}
	slices.SortStableFunc(paths, func(a, b string) int {
		ka, kb := key(a), key(b)
		switch {
		case NaturalLess(ka, kb):
			return -1
		case NaturalLess(kb, ka):
			return 1
		default:
			return 0
		}
	})
}

func digitRunEnd(s string, i int) int {
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	return i
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}
