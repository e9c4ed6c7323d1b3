package rank

import "time"

// BatchEvaluateScoreSize is the default for Config.BatchEvaluateScoreSize
// (spec.md §9). RankSearcher does not read that field and does not build
// the collector: NthElementCollector's buffer headroom is the batchWidth
// passed to NewNthElementCollector.
const BatchEvaluateScoreSize = 32

// Config carries the session-scoped constants a RankSearcher is built
// against. It follows the teacher library's Config pattern exactly: a
// plain struct plus With* copy-and-return setters, defaulted by
// DefaultConfig, never a package-level mutable.
type Config struct {
	SeekCheckTimeoutStep   int
	BatchEvaluateScoreSize int
	Timeout                time.Duration
	ArenaSize              int
}

// DefaultConfig returns the default session configuration.
func DefaultConfig() Config {
	return Config{
		SeekCheckTimeoutStep:   SeekCheckTimeoutStep,
		BatchEvaluateScoreSize: BatchEvaluateScoreSize,
		Timeout:                0,
		ArenaSize:              1024,
	}
}

// WithSeekCheckTimeoutStep overrides how many seeks elapse between clock checks.
func (c Config) WithSeekCheckTimeoutStep(step int) Config {
	c.SeekCheckTimeoutStep = step
	return c
}

// WithBatchEvaluateScoreSize sets Config.BatchEvaluateScoreSize. RankSearcher
// does not read it; it has no effect on a collector's headroom.
func (c Config) WithBatchEvaluateScoreSize(size int) Config {
	c.BatchEvaluateScoreSize = size
	return c
}

// WithTimeout overrides the session deadline. Zero means no deadline.
func (c Config) WithTimeout(d time.Duration) Config {
	c.Timeout = d
	return c
}

// WithArenaSize sets Config.ArenaSize. RankSearcher does not read it; the
// arena's preallocation is the capacity its creator passes to
// matchdoc.NewArena.
func (c Config) WithArenaSize(n int) Config {
	c.ArenaSize = n
	return c
}
