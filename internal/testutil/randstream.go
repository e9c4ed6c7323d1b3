// Package testutil builds deterministic synthetic corpora for exercising
// the ranked retrieval core without a real index partition on disk
// (SPEC_FULL.md §8).
package testutil

import (
	rng "github.com/leesper/go_rng"
)

// ScoredDoc is one synthetic document: a doc id and the score an attribute
// expression would have computed for it.
type ScoredDoc struct {
	DocID int32
	Score float64
}

// GaussianCorpus deterministically generates n doc ids [0, n) each paired
// with a score drawn from a Gaussian(mean, stddev) distribution, the shape
// spec.md's worked examples assume for rank scores. Same seed, same n,
// mean, stddev always yields the same corpus, so tests built over it are
// reproducible.
func GaussianCorpus(seed int64, n int, mean, stddev float64) []ScoredDoc {
	gen := rng.NewGaussianGenerator(seed)
	docs := make([]ScoredDoc, n)
	for i := 0; i < n; i++ {
		docs[i] = ScoredDoc{DocID: int32(i), Score: gen.Gaussian(mean, stddev)}
	}
	return docs
}

// UniformCorpus is GaussianCorpus's uniform-distribution counterpart, used
// for exercising the CacheMinScoreFilter partitioning path against a score
// stream with no natural tail.
func UniformCorpus(seed int64, n int, min, max float64) []ScoredDoc {
	gen := rng.NewUniformGenerator(seed)
	docs := make([]ScoredDoc, n)
	for i := 0; i < n; i++ {
		docs[i] = ScoredDoc{DocID: int32(i), Score: gen.Uniform(min, max)}
	}
	return docs
}

// DeletionSample deterministically picks roughly fraction*n doc ids out of
// [0, n) to mark deleted, modeling a partition with a realistic deletion
// rate rather than an all-live or all-deleted corpus.
func DeletionSample(seed int64, n int, fraction float64) []int32 {
	if fraction <= 0 {
		return nil
	}
	gen := rng.NewUniformGenerator(seed)
	var deleted []int32
	for i := 0; i < n; i++ {
		if gen.Uniform(0, 1) < fraction {
			deleted = append(deleted, int32(i))
		}
	}
	return deleted
}

// LayerSplit partitions [0, n) into layerCount contiguous doc-id ranges of
// roughly equal width, the shape a real index partition's layer/segment
// boundaries take (spec.md §4.1's LayerMeta.Ranges).
func LayerSplit(n, layerCount int) [][2]int32 {
	if layerCount <= 0 {
		return nil
	}
	width := n / layerCount
	if width == 0 {
		width = 1
	}
	ranges := make([][2]int32, 0, layerCount)
	begin := 0
	for i := 0; i < layerCount && begin < n; i++ {
		end := begin + width
		if i == layerCount-1 || end > n {
			end = n
		}
		ranges = append(ranges, [2]int32{int32(begin), int32(end)})
		begin = end
	}
	return ranges
}
