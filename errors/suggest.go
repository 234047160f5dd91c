package errors

import (
	"sort"
	"strings"
)

// MaxSuggestions is the maximum number of suggestions to return.
const MaxSuggestions = 3

// SuggestSimilar returns the candidates closest to target by edit distance,
// nearest first. Distant candidates are ignored; the cutoff scales with the
// length of the target.
func SuggestSimilar(target string, candidates []string) []string {
	if target == "" {
		return nil
	}
	threshold := 3
	if len(target) <= 3 {
		threshold = 1
	} else if len(target) <= 5 {
		threshold = 2
	}
	type scored struct {
		value string
		dist  int
	}
	var found []scored
	lower := strings.ToLower(target)
	for _, c := range candidates {
		if c == "" || c == target {
			continue
		}
		if d := levenshtein(lower, strings.ToLower(c)); d <= threshold {
			found = append(found, scored{c, d})
		}
	}
	sort.Slice(found, func(i, j int) bool {
		if found[i].dist != found[j].dist {
			return found[i].dist < found[j].dist
		}
		return found[i].value < found[j].value
	})
	var out []string
	for i := 0; i < len(found) && i < MaxSuggestions; i++ {
		out = append(out, found[i].value)
	}
	return out
}

// DidYouMean formats suggestions as a hint, or returns "" if there are none.
func DidYouMean(suggestions []string) string {
	switch len(suggestions) {
	case 0:
		return ""
	case 1:
		return "did you mean '" + suggestions[0] + "'?"
	}
	return "did you mean one of: '" + strings.Join(suggestions, "', '") + "'?"
}

func levenshtein(a, b string) int {
	ar, br := []rune(a), []rune(b)
	if len(ar) > len(br) {
		ar, br = br, ar
	}
	prev := make([]int, len(ar)+1)
	curr := make([]int, len(ar)+1)
	for i := range prev {
		prev[i] = i
	}
	for j := 1; j <= len(br); j++ {
		curr[0] = j
		for i := 1; i <= len(ar); i++ {
			cost := 1
			if ar[i-1] == br[j-1] {
				cost = 0
			}
			curr[i] = min(prev[i]+1, curr[i-1]+1, prev[i-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(ar)]
}
