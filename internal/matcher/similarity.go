package matcher

// Rule-based similarity weights. Keyword overlap dominates because
// market titles share entities more reliably than word order.
const (
	jaccardWeight  = 0.7
	sequenceWeight = 0.3
)

// ruleScore blends keyword Jaccard overlap with Ratcliff/Obershelp
// sequence similarity on the normalized titles.
func ruleScore(titleA, titleB string) float64 {
	normA := normalize(titleA)
	normB := normalize(titleB)

	j := jaccard(keywords(normA), keywords(normB))
	s := sequenceRatio(normA, normB)
	return jaccardWeight*j + sequenceWeight*s
}

// jaccard computes |A∩B| / |A∪B| over keyword sets.
func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	inter := 0
	for k := range a {
		if b[k] {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// sequenceRatio is the Ratcliff/Obershelp similarity of two strings:
// twice the total length of matching blocks over the combined length.
func sequenceRatio(a, b string) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 1
	}
	return 2 * float64(matchingChars(a, b)) / float64(total)
}

// matchingChars recursively sums the lengths of the longest common
// substrings, matching on either side of each anchor.
func matchingChars(a, b string) int {
	ai, bi, size := longestCommonSubstring(a, b)
	if size == 0 {
		return 0
	}
	return size +
		matchingChars(a[:ai], b[:bi]) +
		matchingChars(a[ai+size:], b[bi+size:])
}

func longestCommonSubstring(a, b string) (ai, bi, size int) {
	if len(a) == 0 || len(b) == 0 {
		return 0, 0, 0
	}
	// prev[j] holds the run length ending at a[i-1], b[j-1].
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
				if curr[j] > size {
					size = curr[j]
					ai = i - size
					bi = j - size
				}
			} else {
				curr[j] = 0
			}
		}
		prev, curr = curr, prev
	}
	return ai, bi, size
}
