// Package grading turns analysis findings into points.
package grading

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/FashOJ/LogicJudger/internal/analysis"
	"github.com/FashOJ/LogicJudger/internal/model"
)

// Entry deduction for one error category
type Entry struct {
	Category    model.ErrorCategory
	MinusPoints decimal.Decimal
}

// Result points awarded for one submission
type Result struct {
	Points  decimal.Decimal
	Correct bool
	Details []Entry
}

// Find returns the entry for a category, if any.
func (r *Result) Find(category model.ErrorCategory) (Entry, bool) {
	for _, e := range r.Details {
		if e.Category == category {
			return e, true
		}
	}
	return Entry{}, false
}

// Grade applies the task's penalties to a Datalog comparison.
// Points never drop below zero; the clamp is applied once to the total.
func Grade(task *model.DatalogTask, res *analysis.DatalogResult) (*Result, error) {
	if res.Correct {
		return &Result{Points: task.MaxPoints, Correct: true}, nil
	}

	findings := []struct {
		category model.ErrorCategory
		penalty  model.Penalty
		count    int
	}{
		{model.CategoryMissingPredicate, task.MissingPredicate, len(res.MissingPredicates)},
		{model.CategoryMissingFact, task.MissingFact, len(res.MissingFacts)},
		{model.CategorySuperfluousFact, task.SuperfluousFact, len(res.SuperfluousFacts)},
	}

	out := &Result{}
	total := decimal.Zero
	for _, f := range findings {
		if f.count == 0 {
			continue
		}
		minus, err := deduction(task.MaxPoints, f.penalty, f.count)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.category, err)
		}
		out.Details = append(out.Details, Entry{Category: f.category, MinusPoints: minus})
		total = total.Add(minus)
	}
	out.Points = decimal.Max(decimal.Zero, task.MaxPoints.Sub(total))
	return out, nil
}

// GradeAsp ASP submissions are either fully correct or worth nothing.
func GradeAsp(maxPoints decimal.Decimal, res *analysis.AspResult) *Result {
	if res.Correct {
		return &Result{Points: maxPoints, Correct: true}
	}
	return &Result{Points: decimal.Zero}
}

func deduction(maxPoints decimal.Decimal, p model.Penalty, count int) (decimal.Decimal, error) {
	switch p.Strategy {
	case model.StrategyKO:
		return maxPoints, nil
	case model.StrategyGroup:
		return p.Amount, nil
	case model.StrategyEach:
		return p.Amount.Mul(decimal.NewFromInt(int64(count))), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown grading strategy %q", p.Strategy)
	}
}
