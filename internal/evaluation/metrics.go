package evaluation

// RecallAtK computes Recall@K: the fraction of distinct relevant items found
// in the top-K retrieved results. Returns 0.0 if relevant is empty.
func RecallAtK(relevant, retrieved []string, k int) float64 {
	relevantSet := toSet(relevant)
	if len(relevantSet) == 0 {
		return 0.0
	}

	found := make(map[string]struct{}, len(relevantSet))
	for _, r := range topK(retrieved, k) {
		if _, ok := relevantSet[r]; ok {
			found[r] = struct{}{}
		}
	}

	return float64(len(found)) / float64(len(relevantSet))
}

// MRRAtK computes Mean Reciprocal Rank at K: the reciprocal of the rank of the first relevant item
// in the top-K retrieved results. Returns 0.0 if no relevant item is found in top-K.
func MRRAtK(relevant, retrieved []string, k int) float64 {
	relevantSet := toSet(relevant)
	if len(relevantSet) == 0 {
		return 0.0
	}

	for i, r := range topK(retrieved, k) {
		if _, ok := relevantSet[r]; ok {
			return 1.0 / float64(i+1)
		}
	}

	return 0.0
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}

func topK(items []string, k int) []string {
	if k >= 0 && k < len(items) {
		return items[:k]
	}
	return items
}
