package search

// QueryClause is the compiled query-layer plan the parser hands the core;
// the core never interprets it, only passes it to QueryExecutorCreator
// (spec.md §6, Non-goals: "does not define the query language").
type QueryClause struct {
	Name string
}

// FilterClause is the compiled boolean-expression predicate, if any.
type FilterClause struct {
	Expr string
}

// AggregateClause is the compiled group-by/aggregate plan, if any.
type AggregateClause struct {
	GroupField string
}

// PKFilterClause requests that candidates be pre-filtered against a set of
// primary keys before the normal executor runs (spec.md §4.1).
type PKFilterClause struct {
	Keys []string
}

// ConfigClause carries the per-request flags the parser surfaces (spec.md §6).
type ConfigClause struct {
	IgnoreDelete      bool
	GetAllSubDoc      bool
	SubDocDisplayType SubDocDisplayType
}

// Request is the compiled, parser-produced plan RankSearcher.init binds
// against. Layers are supplied separately via RankSearcherParam since they
// are a function of the index partition, not the query language.
type Request struct {
	Query     QueryClause
	Filter    *FilterClause
	Aggregate *AggregateClause
	PKFilter  *PKFilterClause
	Config    ConfigClause
	RankSize  int
}
