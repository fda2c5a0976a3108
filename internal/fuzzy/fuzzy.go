// Package fuzzy implements the string similarity used to line up free-text
// market titles with team names. Scores are on a 0-100 scale and are based on
// the InDel distance (insertions and deletions only), so
// Ratio(a, b) = 200 * LCS(a, b) / (len(a) + len(b)).
package fuzzy

import "strings"

// Ratio returns the normalized InDel similarity of a and b in [0, 100].
// Two empty strings are identical and score 100.
func Ratio(a, b string) float64 {
	return ratioRunes([]rune(a), []rune(b))
}

func ratioRunes(a, b []rune) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 100
	}
	return 200 * float64(lcs(a, b)) / float64(total)
}

// PartialRatio returns the best Ratio between the shorter string and any
// substring of the longer one, including windows that only partially overlap
// either end. A shorter string that appears verbatim in the longer scores 100.
// If either string is empty the score is 0.
func PartialRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}
	if strings.Contains(string(rb), string(ra)) {
		return 100
	}

	best := partialWindows(ra, rb)
	if len(ra) == len(rb) && best < 100 {
		if s := partialWindows(rb, ra); s > best {
			best = s
		}
	}
	return best
}

// partialWindows scores needle against every window of hay whose length is at
// most len(needle): the leading prefixes, each full-length window, then the
// trailing suffixes.
func partialWindows(needle, hay []rune) float64 {
	m, n := len(needle), len(hay)
	best := 0.0
	try := func(window []rune) bool {
		if s := ratioRunes(needle, window); s > best {
			best = s
		}
		return best == 100
	}

	for i := 1; i < m; i++ {
		if try(hay[:i]) {
			return best
		}
	}
	for i := 0; i+m <= n; i++ {
		if try(hay[i : i+m]) {
			return best
		}
	}
	for i := n - m + 1; i < n; i++ {
		if try(hay[i:]) {
			return best
		}
	}
	return best
}

// lcs is the length of the longest common subsequence, computed with a
// single rolling row.
func lcs(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	if len(a) < len(b) {
		a, b = b, a
	}
	row := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		prev := 0
		for j := 1; j <= len(b); j++ {
			cur := row[j]
			if a[i-1] == b[j-1] {
				row[j] = prev + 1
			} else if row[j-1] > row[j] {
				row[j] = row[j-1]
			}
			prev = cur
		}
	}
	return row[len(b)]
}

// Contains reports whether a non-empty needle occurs in haystack. An empty
// needle never matches, so unknown names do not count as found.
func Contains(needle, haystack string) bool {
	return needle != "" && strings.Contains(haystack, needle)
}

// ContainsCompact is Contains with all whitespace removed from the haystack,
// so the code "lal" is found in "LAL @ BOS" once lowercased.
func ContainsCompact(needle, haystack string) bool {
	return Contains(needle, strings.Join(strings.Fields(haystack), ""))
}
