package optim

import (
	"context"
	"fmt"
	"math"
)

// Evaluator scores one parameter combination.
type Evaluator func(ctx context.Context, params map[string]float64) (float64, error)

type Result struct {
	Params      map[string]float64 `json:"params"`
	Score       float64            `json:"score"`
	Evaluations int                `json:"evaluations"`
}

// GridSearch evaluates every combination of the given parameter values.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	maximize   bool
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Maximize makes Search keep the highest score instead of the lowest.
func (g *GridSearch) Maximize() *GridSearch {
	g.maximize = true
	return g
}

// Search visits the full grid in order. Ties keep the first combination.
// An evaluation error or ctx cancellation aborts the search.
func (g *GridSearch) Search(ctx context.Context, eval Evaluator) (Result, error) {
	if len(g.paramNames) == 0 || len(g.paramNames) != len(g.ranges) {
		return Result{}, fmt.Errorf("optim: %d parameter names for %d ranges", len(g.paramNames), len(g.ranges))
	}
	for i, r := range g.ranges {
		if len(r) == 0 {
			return Result{}, fmt.Errorf("optim: parameter %q has no values", g.paramNames[i])
		}
	}

	best := Result{Score: math.Inf(1)}
	if g.maximize {
		best.Score = math.Inf(-1)
	}
	if err := g.searchRecursive(ctx, 0, make(map[string]float64), eval, &best); err != nil {
		return best, err
	}
	return best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	eval Evaluator,
	best *Result,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		val, err := eval(ctx, current)
		if err != nil {
			return fmt.Errorf("optim: evaluate %v: %w", current, err)
		}
		best.Evaluations++

		if g.better(val, best.Score) || best.Params == nil {
			best.Score = val
			best.Params = make(map[string]float64, len(current))
			for k, v := range current {
				best.Params[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, eval, best); err != nil {
			return err
		}
	}
	return nil
}

func (g *GridSearch) better(val, best float64) bool {
	if math.IsNaN(val) {
		return false
	}
	if g.maximize {
		return val > best
	}
	return val < best
}
