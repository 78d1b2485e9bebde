package suggest

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// EditCosts weights the operations of the edit-distance matrix.
type EditCosts struct {
	Insert    int
	Delete    int
	Replace   int
	Transpose int
}

// SpellingCorrector ranks names by weighted Damerau-Levenshtein distance on
// lower-cased input.
type SpellingCorrector struct {
	costs       EditCosts
	maxDistance int
}

// Compile-time check that SpellingCorrector implements Corrector.
var _ Corrector = (*SpellingCorrector)(nil)

// NewSpellingCorrector creates a corrector with explicit weights.
func NewSpellingCorrector(costs EditCosts, maxDistance int) *SpellingCorrector {
	return &SpellingCorrector{costs: costs, maxDistance: maxDistance}
}

// NewCommandCorrector returns the corrector tuned for command names:
// transpositions are cheapest, then replacements, then insertions and
// deletions.
func NewCommandCorrector() *SpellingCorrector {
	return NewSpellingCorrector(EditCosts{Insert: 4, Delete: 4, Replace: 3, Transpose: 2}, 6)
}

// Correct returns every name at the smallest distance, provided that distance
// is within the maximum. When several names tie they are all returned. A lone
// survivor shorter than its distance is discarded, so very short names are
// not offered for unrelated input.
func (c *SpellingCorrector) Correct(typed string, names []string) []string {
	if len(names) == 0 {
		return nil
	}

	input := strings.ToLower(typed)
	distances := make(map[string]int, len(names))
	best := -1
	for _, name := range names {
		d := c.Distance(input, strings.ToLower(name))
		distances[name] = d
		if best < 0 || d < best {
			best = d
		}
	}
	if best > c.maxDistance {
		best = c.maxDistance
	}

	var matches []string
	for name, d := range distances {
		if d <= best {
			matches = append(matches, name)
		}
	}
	sort.Strings(matches)

	if len(matches) > 1 {
		return matches
	}

	var kept []string
	for _, name := range matches {
		if utf8.RuneCountInString(name) >= distances[name] {
			kept = append(kept, name)
		}
	}
	return kept
}

// Distance computes the weighted edit distance turning a into b, with
// adjacent transpositions counted as a single operation.
func (c *SpellingCorrector) Distance(a, b string) int {
	ar := []rune(a)
	br := []rune(b)

	prev2 := make([]int, len(br)+1)
	prev := make([]int, len(br)+1)
	cur := make([]int, len(br)+1)

	for j := range prev {
		prev[j] = j * c.costs.Insert
	}

	for i := 1; i <= len(ar); i++ {
		cur[0] = i * c.costs.Delete
		for j := 1; j <= len(br); j++ {
			if ar[i-1] == br[j-1] {
				cur[j] = prev[j-1]
			} else {
				cur[j] = prev[j-1] + c.costs.Replace
			}
			if v := prev[j] + c.costs.Delete; v < cur[j] {
				cur[j] = v
			}
			if v := cur[j-1] + c.costs.Insert; v < cur[j] {
				cur[j] = v
			}
			if i > 1 && j > 1 && ar[i-1] == br[j-2] && ar[i-2] == br[j-1] {
				if v := prev2[j-2] + c.costs.Transpose; v < cur[j] {
					cur[j] = v
				}
			}
		}
		prev2, prev, cur = prev, cur, prev2
	}

	return prev[len(br)]
}
