package search

// SessionMetricsCollector receives per-session counters a surrounding
// metrics sink (out of scope here) would otherwise export (spec.md §6).
// RankSearcher writes into it; nothing downstream is required to read it,
// so a nil *SessionMetricsCollector is never dereferenced by the core — use
// NewSessionMetricsCollector or the zero value, both are safe to pass.
type SessionMetricsCollector struct {
	RankStart              int64
	MatchCount             int64
	SeekDocCount           int64
	SeekCount              int64
	AggregateCount         int64
	StrongJoinFilterCount  int64
	UseTruncateOptimizerNum int64
}

// NewSessionMetricsCollector returns a zeroed collector ready to accumulate.
func NewSessionMetricsCollector() *SessionMetricsCollector {
	return &SessionMetricsCollector{}
}
