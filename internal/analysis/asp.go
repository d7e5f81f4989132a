package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/FashOJ/LogicJudger/internal/program"
)

// Model one stable model, predicates sorted by name.
type Model struct {
	Predicates []*Predicate
}

// Key identifies the model by the set of its facts.
func (m Model) Key() string {
	seen := make(map[string]struct{})
	keys := make([]string, 0)
	for _, p := range m.Predicates {
		for _, f := range p.Facts {
			k := f.Key()
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return strings.Join(keys, "\x1e")
}

// String renders the model as {f1, f2}.
func (m Model) String() string {
	var facts []string
	for _, p := range m.Predicates {
		for _, f := range p.Facts {
			facts = append(facts, f.String())
		}
	}
	return "{" + strings.Join(facts, ", ") + "}"
}

// AspResult the differences between the stable models of solution and submission.
type AspResult struct {
	SolutionModels   []Model
	SubmissionModels []Model

	MissingModels     []Model
	SuperfluousModels []Model
	SameModelCount    bool
	Correct           bool
}

// CompareAsp parses both solver outputs and compares them as sets of models.
// When the number of models differs, no model level differences are computed.
func CompareAsp(solutionText, submissionText string) (*AspResult, error) {
	res := &AspResult{
		SolutionModels:   ParseModels(solutionText),
		SubmissionModels: ParseModels(submissionText),
	}
	if err := checkModels(res.SolutionModels); err != nil {
		return nil, fmt.Errorf("solution: %w", err)
	}
	if err := checkModels(res.SubmissionModels); err != nil {
		return nil, fmt.Errorf("submission: %w", err)
	}

	res.SameModelCount = len(res.SolutionModels) == len(res.SubmissionModels)
	if !res.SameModelCount {
		return res, nil
	}

	solutionKeys := modelKeys(res.SolutionModels)
	submissionKeys := modelKeys(res.SubmissionModels)
	for _, m := range res.SolutionModels {
		if _, ok := submissionKeys[m.Key()]; !ok {
			res.MissingModels = append(res.MissingModels, m)
		}
	}
	for _, m := range res.SubmissionModels {
		if _, ok := solutionKeys[m.Key()]; !ok {
			res.SuperfluousModels = append(res.SuperfluousModels, m)
		}
	}
	res.Correct = len(res.MissingModels) == 0 && len(res.SuperfluousModels) == 0
	return res, nil
}

func checkModels(models []Model) error {
	for i, m := range models {
		for _, p := range m.Predicates {
			if !p.IsConsistent() {
				return fmt.Errorf("%w: predicate %s has atoms of different arity in model %d", ErrInconsistentResult, p.Name, i+1)
			}
		}
	}
	return nil
}

func modelKeys(models []Model) map[string]struct{} {
	keys := make(map[string]struct{}, len(models))
	for _, m := range models {
		keys[m.Key()] = struct{}{}
	}
	return keys
}

// ParseModels extracts every {...} block of solver output as a model.
// Atoms inside a block are separated by ',' or '.' outside parentheses and
// quotes; text outside blocks (costs, headers) is ignored.
func ParseModels(text string) []Model {
	var models []Model
	for _, block := range modelBlocks(text) {
		models = append(models, parseModel(block))
	}
	return models
}

func modelBlocks(text string) []string {
	var (
		blocks  []string
		start   = -1
		inQuote bool
	)
	for i, r := range text {
		switch {
		case r == '"':
			inQuote = !inQuote
		case inQuote:
		case r == '{':
			start = i + 1
		case r == '}' && start >= 0:
			blocks = append(blocks, text[start:i])
			start = -1
		}
	}
	return blocks
}

func parseModel(block string) Model {
	var (
		order []string
		terms = make(map[string][][]string)
	)
	for _, atom := range splitAtoms(block) {
		name, args, _ := program.ParseAtom(atom)
		if name == "" {
			continue
		}
		if _, ok := terms[name]; !ok {
			order = append(order, name)
		}
		terms[name] = append(terms[name], args)
	}
	sort.Strings(order)

	m := Model{Predicates: make([]*Predicate, 0, len(order))}
	for _, name := range order {
		m.Predicates = append(m.Predicates, newPredicate(name, terms[name]))
	}
	return m
}

func splitAtoms(block string) []string {
	var (
		atoms   []string
		start   int
		depth   int
		inQuote bool
	)
	flush := func(end int) {
		if atom := strings.TrimSpace(block[start:end]); atom != "" {
			atoms = append(atoms, atom)
		}
	}
	for i, r := range block {
		switch {
		case r == '"':
			inQuote = !inQuote
		case inQuote:
		case r == '(':
			depth++
		case r == ')':
			if depth > 0 {
				depth--
			}
		case (r == ',' || r == '.') && depth == 0:
			flush(i)
			start = i + 1
		}
	}
	flush(len(block))
	return atoms
}
