// Package naturalsort implements "natural order" comparison of human-facing
// keys, splitting each key into alternating digit and non-digit runs so that
// "scene_2" sorts before "scene_10".
package naturalsort

import (
	"sort"
	"strconv"
)

// run is one alternating segment of a key: either all digits or no digits.
type run struct {
	text   string
	isNum  bool
	number int64
}

// split breaks s into alternating numeric and non-numeric runs.
func split(s string) []run {
	if s == "" {
		return nil
	}
	runs := make([]run, 0, 4)
	start := 0
	isDigit := func(b byte) bool { return b >= '0' && b <= '9' }
	curNum := isDigit(s[0])
	for i := 1; i <= len(s); i++ {
		if i == len(s) || isDigit(s[i]) != curNum {
			runs = append(runs, makeRun(s[start:i], curNum))
			start = i
			if i < len(s) {
				curNum = isDigit(s[i])
			}
		}
	}
	return runs
}

func makeRun(text string, isNum bool) run {
	r := run{text: text, isNum: isNum}
	if isNum {
		// Keys are bounded in practice; ignore overflow and fall back to
		// string comparison for absurdly long digit runs.
		if n, err := strconv.ParseInt(text, 10, 64); err == nil {
			r.number = n
		} else {
			r.isNum = false
		}
	}
	return r
}

// Compare returns -1, 0, or 1 as a natural-orders before, equals, or after b.
func Compare(a, b string) int {
	ra, rb := split(a), split(b)
	for i := 0; i < len(ra) && i < len(rb); i++ {
		x, y := ra[i], rb[i]
		if x.isNum && y.isNum {
			switch {
			case x.number < y.number:
				return -1
			case x.number > y.number:
				return 1
			}
			continue
		}
		switch {
		case x.text < y.text:
			return -1
		case x.text > y.text:
			return 1
		}
	}
	switch {
	case len(ra) < len(rb):
		return -1
	case len(ra) > len(rb):
		return 1
	default:
		return 0
	}
}

// Less adapts Compare for sort.Interface / slices.SortFunc-style callers.
func Less(a, b string) bool { return Compare(a, b) < 0 }

// Strings sorts a slice of strings in natural order, in place.
func Strings(keys []string) {
	sort.SliceStable(keys, func(i, j int) bool { return Less(keys[i], keys[j]) })
}

// SortByKey sorts items in place by a key extracted via keyOf, in natural order.
func SortByKey[T any](items []T, keyOf func(T) string) {
	sort.SliceStable(items, func(i, j int) bool {
		return Less(keyOf(items[i]), keyOf(items[j]))
	})
}
