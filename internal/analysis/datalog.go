package analysis

import (
	"fmt"
	"sort"
)

// DatalogResult the differences between solution and submission query results.
type DatalogResult struct {
	SolutionResult   map[string][]string
	SubmissionResult map[string][]string

	MissingPredicates []*Predicate
	MissingFacts      []Fact
	SuperfluousFacts  []Fact
	Correct           bool
}

// CompareDatalog compares query results (predicate name -> rows).
// A predicate that has no facts in the submission is reported as missing
// and its facts are not compared individually.
func CompareDatalog(solution, submission map[string][]string) (*DatalogResult, error) {
	solutionModel, err := buildModel(solution)
	if err != nil {
		return nil, fmt.Errorf("solution: %w", err)
	}
	submissionModel, err := buildModel(submission)
	if err != nil {
		return nil, fmt.Errorf("submission: %w", err)
	}

	res := &DatalogResult{
		SolutionResult:   solution,
		SubmissionResult: submission,
	}
	for _, name := range sortedNames(solutionModel) {
		want := solutionModel[name]
		got, ok := submissionModel[name]
		if !ok {
			res.MissingPredicates = append(res.MissingPredicates, want)
			continue
		}
		for _, f := range want.Facts {
			if !got.Contains(f) {
				res.MissingFacts = append(res.MissingFacts, f)
			}
		}
		for _, f := range got.Facts {
			if !want.Contains(f) {
				res.SuperfluousFacts = append(res.SuperfluousFacts, f)
			}
		}
	}
	res.Correct = len(res.MissingPredicates) == 0 && len(res.MissingFacts) == 0 && len(res.SuperfluousFacts) == 0
	return res, nil
}

// buildModel drops predicates without facts.
func buildModel(rows map[string][]string) (map[string]*Predicate, error) {
	model := make(map[string]*Predicate, len(rows))
	for name, r := range rows {
		if len(r) == 0 {
			continue
		}
		p := NewPredicate(name, r)
		if !p.IsConsistent() {
			return nil, fmt.Errorf("%w: predicate %s has facts of different arity", ErrInconsistentResult, name)
		}
		model[name] = p
	}
	return model, nil
}

func sortedNames(model map[string]*Predicate) []string {
	names := make([]string, 0, len(model))
	for name := range model {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
