package session

import (
	"fmt"

	"github.com/agnivade/levenshtein"
)

const (
	defaultNameBase    = "New Object"
	defaultDescription = "Mostly harmless."

	// Suggestions further away than this are noise, not typos.
	maxSuggestDistance = 3
)

// uniqueDefaultName returns the first "New Object (n)" not in taken, scanning
// n upward from 1. Deterministic for a given name set. The caller holds the
// only reference to the store, so the name cannot be taken before the insert
// that follows.
func uniqueDefaultName(taken map[string]struct{}) string {
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s (%d)", defaultNameBase, i)
		if _, ok := taken[candidate]; !ok {
			return candidate
		}
	}
}

// closestName returns the existing name nearest to target by edit distance,
// or distance -1 when taken is empty. Equal distances tie-break
// lexicographically so suggestions are stable.
func closestName(taken map[string]struct{}, target string) (string, int) {
	best, bestDist := "", -1
	for n := range taken {
		d := levenshtein.ComputeDistance(target, n)
		if bestDist < 0 || d < bestDist || (d == bestDist && n < best) {
			best, bestDist = n, d
		}
	}
	return best, bestDist
}
