package matcher

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

func tokenize(s string) []string {
	return strings.Fields(strings.ToLower(s))
}

func ratio(a, b string) float64 {
	la, lb := len([]rune(a)), len([]rune(b))
	if la+lb == 0 {
		return 0
	}
	d := levenshtein.ComputeDistance(a, b)
	return float64(la+lb-d) / float64(la+lb)
}

// Similarity scores two titles on their word sets, so token order and words
// present in only one side ("John Coltrane - A Love Supreme" vs "Coltrane
// Love Supreme LP") cost far less than genuinely different words. It is the
// max pairwise ratio over the sorted intersection and each side's union
// with it, in [0, 1].
func Similarity(a, b string) float64 {
	setA := map[string]bool{}
	for _, tok := range tokenize(a) {
		setA[tok] = true
	}
	setB := map[string]bool{}
	for _, tok := range tokenize(b) {
		setB[tok] = true
	}
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	var common, onlyA, onlyB []string
	for tok := range setA {
		if setB[tok] {
			common = append(common, tok)
		} else {
			onlyA = append(onlyA, tok)
		}
	}
	for tok := range setB {
		if !setA[tok] {
			onlyB = append(onlyB, tok)
		}
	}
	sort.Strings(common)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	base := strings.Join(common, " ")
	full := func(rest []string) string {
		if len(rest) == 0 {
			return base
		}
		if base == "" {
			return strings.Join(rest, " ")
		}
		return base + " " + strings.Join(rest, " ")
	}
	sa, sb := full(onlyA), full(onlyB)

	best := ratio(sa, sb)
	if base != "" {
		// One title being a subset of the other scores ~1.0 here.
		if r := ratio(base, sa); r > best {
			best = r
		}
		if r := ratio(base, sb); r > best {
			best = r
		}
	}
	return best
}
