package storage

import "strings"

// Similarity scores how closely a query transaction matches a stored
// preference: a 70/30 weighted blend of merchant identity and description
// word overlap.
//
// Merchant: 1.0 on equality, 0.8 on substring containment in either
// direction, 0.0 otherwise. Description: Jaccard similarity over uppercase
// whitespace-tokenized word sets, 0.0 when either set is empty. The blend is
// computed as a single exact integer ratio so boundary scores such as 0.60
// compare exactly against round thresholds, and a self-comparison of any
// non-empty pair yields exactly 1.0.
func Similarity(merchantQ, descQ, merchantC, descC string) float64 {
	merchant := merchantScoreTenths(
		strings.ToUpper(strings.TrimSpace(merchantQ)),
		strings.ToUpper(strings.TrimSpace(merchantC)),
	)

	inter, union := descOverlap(descQ, descC)
	if union == 0 {
		return float64(7*merchant) / 100
	}
	return float64(7*merchant*union+30*inter) / float64(100*union)
}

// merchantScoreTenths returns the merchant component scaled to tenths.
func merchantScoreTenths(a, b string) int {
	switch {
	case a == b:
		return 10
	case a != "" && b != "" && (strings.Contains(a, b) || strings.Contains(b, a)):
		return 8
	default:
		return 0
	}
}

// descOverlap returns the intersection and union sizes of the two
// descriptions' uppercase word sets.
func descOverlap(a, b string) (intersection, union int) {
	setA := wordSet(a)
	setB := wordSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0, 0
	}

	union = len(setB)
	for word := range setA {
		if setB[word] {
			intersection++
		} else {
			union++
		}
	}
	return intersection, union
}

func wordSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, word := range strings.Fields(strings.ToUpper(strings.TrimSpace(text))) {
		set[word] = true
	}
	return set
}
