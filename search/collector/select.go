package collector

import (
	"github.com/weizijun/havenask/matchdoc"
	"github.com/weizijun/havenask/search"
)

// nthElement partitions docs[0:len(docs)] in place around the rank-k
// boundary (1-indexed: k=1 means "the single best element ends at index
// 0"), the Go analogue of std::nth_element. After it returns, for every
// i < k <= j < len(docs), cmp.Compare(docs[i], docs[j]) <= 0 — docs[i] is
// not worse than docs[j] (spec.md §8, property 3). docs[k-1] itself is the
// element that would sit at that position in a full sort.
func nthElement(docs []matchdoc.MatchDoc, k int, cmp search.Comparator) {
	if k <= 0 || k > len(docs) {
		return
	}
	lo, hi := 0, len(docs)-1
	target := k - 1
	for lo < hi {
		p := partition(docs, lo, hi, cmp)
		switch {
		case p == target:
			return
		case p < target:
			lo = p + 1
		default:
			hi = p - 1
		}
	}
}

// partition runs a median-of-three Lomuto partition over docs[lo:hi+1],
// returning the pivot's final index. Elements left of the pivot are not
// worse than it; elements right of it are not better than it.
func partition(docs []matchdoc.MatchDoc, lo, hi int, cmp search.Comparator) int {
	mid := lo + (hi-lo)/2
	idx := [3]int{lo, mid, hi}
	if cmp.Compare(docs[idx[0]], docs[idx[1]]) > 0 {
		idx[0], idx[1] = idx[1], idx[0]
	}
	if cmp.Compare(docs[idx[1]], docs[idx[2]]) > 0 {
		idx[1], idx[2] = idx[2], idx[1]
	}
	if cmp.Compare(docs[idx[0]], docs[idx[1]]) > 0 {
		idx[0], idx[1] = idx[1], idx[0]
	}
	median := idx[1]
	docs[median], docs[hi] = docs[hi], docs[median]

	pivot := docs[hi]
	i := lo
	for j := lo; j < hi; j++ {
		if cmp.Compare(docs[j], pivot) <= 0 {
			docs[i], docs[j] = docs[j], docs[i]
			i++
		}
	}
	docs[i], docs[hi] = docs[hi], docs[i]
	return i
}
