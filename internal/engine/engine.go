package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/rdfkit/internal/graph"
	"github.com/roach88/rdfkit/internal/queryir"
	"github.com/roach88/rdfkit/internal/rdf"
)

// DefaultMaxSolutions is the default solution quota. Zero means unbounded.
const DefaultMaxSolutions = 0

// Engine evaluates queries. It holds no per-query state and is safe to
// share between callers.
type Engine struct {
	logger       *slog.Logger
	maxSolutions int
}

// EngineOption allows configuration of engine parameters.
type EngineOption func(*Engine)

// WithMaxSolutions sets the maximum number of solutions per execution.
//
// Default: unbounded (DefaultMaxSolutions)
// Use WithMaxSolutions(2) for testing quota enforcement.
func WithMaxSolutions(maxSolutions int) EngineOption {
	return func(e *Engine) {
		e.maxSolutions = maxSolutions
	}
}

// WithLogger sets the logger used for query diagnostics.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New creates an Engine.
func New(opts ...EngineOption) *Engine {
	e := &Engine{
		logger:       slog.Default(),
		maxSolutions: DefaultMaxSolutions,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute acquires a read handle on model and returns an Execution bound
// to it. Nothing is evaluated until the first call to Next.
//
// The returned Execution must be closed by the caller.
func (e *Engine) Execute(ctx context.Context, model graph.Model, query queryir.Query) (*Execution, error) {
	sel, err := asSelect(query)
	if err != nil {
		return nil, err
	}

	if res := queryir.Validate(sel); !res.Clean {
		for _, w := range res.Warnings {
			e.logger.Debug("query warning", "warning", w)
		}
	}

	reader, err := model.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin execution: %w", err)
	}
	if model.Entailment() == graph.EntailRDFS {
		reader = newEntailingReader(reader)
	}

	vars := sel.Vars
	if sel.Star && len(vars) == 0 {
		vars = queryir.GroupVariables(sel.Where)
	}

	return &Execution{
		ctx:    ctx,
		reader: reader,
		query:  sel,
		vars:   vars,
		quota:  NewQuotaEnforcer(e.maxSolutions),
		pos:    -1,
	}, nil
}

func asSelect(q queryir.Query) (*queryir.Select, error) {
	switch s := q.(type) {
	case *queryir.Select:
		if s == nil {
			return nil, newUnsupportedError("nil query")
		}
		return s, nil
	case queryir.Select:
		return &s, nil
	case nil:
		return nil, newUnsupportedError("nil query")
	default:
		return nil, newUnsupportedError("unknown query type: %T", q)
	}
}

// Execution is the scoped handle of one query evaluation.
//
// Usage:
//
//	x, err := eng.Execute(ctx, model, q)
//	if err != nil { ... }
//	defer x.Close()
//	for x.Next() {
//	    row := x.Solution()
//	}
//	if err := x.Err(); err != nil { ... }
//
// An Execution is not safe for concurrent use.
type Execution struct {
	ctx    context.Context
	reader graph.Reader
	query  *queryir.Select
	vars   []string
	quota  *QuotaEnforcer

	started   bool
	closed    bool
	solutions []binding
	pos       int
	err       error
}

// Vars returns the projected variable names in column order.
func (x *Execution) Vars() []string {
	return x.vars
}

// Next advances to the next solution. The first call evaluates the query.
// It returns false when the solutions are exhausted or an error occurred.
func (x *Execution) Next() bool {
	if x.err != nil {
		return false
	}
	if x.closed {
		x.err = errClosed
		return false
	}
	if !x.started {
		x.started = true
		sols, err := evaluate(x.ctx, x.reader, x.query, x.vars)
		if err != nil {
			x.err = err
			return false
		}
		x.solutions = sols
	}
	if x.pos+1 >= len(x.solutions) {
		return false
	}
	if err := x.quota.Check(); err != nil {
		x.err = err
		return false
	}
	x.pos++
	return true
}

// Solution returns the current solution keyed by variable name. Unbound
// variables are absent.
func (x *Execution) Solution() map[string]rdf.Term {
	if x.pos < 0 || x.pos >= len(x.solutions) {
		return nil
	}
	return x.solutions[x.pos]
}

// Err returns the error that stopped iteration, if any.
func (x *Execution) Err() error {
	return x.err
}

// Close releases the read handle. Safe to call more than once.
func (x *Execution) Close() error {
	if x.closed {
		return nil
	}
	x.closed = true
	x.solutions = nil
	return x.reader.Close()
}
