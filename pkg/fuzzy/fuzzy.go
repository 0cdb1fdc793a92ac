// Package fuzzy implements the approximate answer matching used by the quiz
// games: a classic Wagner-Fischer edit distance with a tolerance that scales
// with the length of the reference string.
package fuzzy

import "strings"

// Distance returns the Levenshtein edit distance between a and b.
// Insertions, deletions and substitutions all cost 1.
func Distance(a, b string) int {
	s1 := []rune(a)
	s2 := []rune(b)
	if len(s1) > len(s2) {
		s1, s2 = s2, s1
	}

	current := make([]int, len(s1)+1)
	previous := make([]int, len(s1)+1)
	for j := range current {
		current[j] = j
	}

	for i := 1; i <= len(s2); i++ {
		previous, current = current, previous
		current[0] = i
		for j := 1; j <= len(s1); j++ {
			ins := previous[j] + 1
			del := current[j-1] + 1
			sub := previous[j-1]
			if s1[j-1] != s2[i-1] {
				sub++
			}
			current[j] = min(ins, del, sub)
		}
	}

	return current[len(s1)]
}

// Threshold returns the maximum edit distance still accepted for the given
// reference string: one third of its length, rounded down. An empty reference
// gets threshold 0 and therefore requires an exact match.
func Threshold(reference string) int {
	return len([]rune(reference)) / 3
}

// Match reports whether guess is close enough to reference. Comparison is
// case-insensitive.
func Match(guess, reference string) bool {
	return Distance(strings.ToLower(guess), strings.ToLower(reference)) <= Threshold(reference)
}
