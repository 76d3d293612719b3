package checks

import "strings"

// maxSuggestDistance bounds how far a mistyped key may be from a suggestion.
const maxSuggestDistance = 3

// Suggest returns the registered key closest to key by edit distance,
// ignoring case, or "" when none is close enough.
func (r *Registry) Suggest(key string) string {
	needle := strings.ToLower(key)
	best, bestDist := "", maxSuggestDistance+1

	var col []int

	for _, def := range r.ordered {
		d := distance(needle, strings.ToLower(def.Key), &col)
		if d < bestDist {
			best, bestDist = def.Key, d
		}
	}

	return best
}

// Hint formats Suggest for an error message, "" when there is no suggestion.
func (r *Registry) Hint(key string) string {
	if s := r.Suggest(key); s != "" {
		return " (did you mean " + s + "?)"
	}

	return ""
}

// distance is the Levenshtein distance of a and b over runes, kept in a
// single column that is reused across calls.
func distance(a, b string, col *[]int) int {
	s1, s2 := []rune(a), []rune(b)
	if len(s2) == 0 {
		return len(s1)
	}

	if cap(*col) < len(s1)+1 {
		*col = make([]int, len(s1)+1)
	}

	column := (*col)[:len(s1)+1]
	for i := range column {
		column[i] = i
	}

	for j, r2 := range s2 {
		column[0] = j + 1
		diag := j

		for i, r1 := range s1 {
			old := column[i+1]

			cost := 1
			if r1 == r2 {
				cost = 0
			}

			column[i+1] = min(column[i+1]+1, column[i]+1, diag+cost)
			diag = old
		}
	}

	return column[len(s1)]
}
