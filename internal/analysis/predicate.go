// Package analysis compares solver output of a submission against the output
// of the reference solution.
package analysis

import (
	"errors"
	"strconv"
	"strings"

	"github.com/FashOJ/LogicJudger/internal/program"
)

// ErrInconsistentResult a predicate has facts of different arity
var ErrInconsistentResult = errors.New("inconsistent result")

const placeholderVars = "XYZABCDEFGHIJKLMNOPQRSTUVW"

// Fact one tuple of a predicate. Two facts are equal when name and terms are equal.
type Fact struct {
	Predicate string
	Terms     []string
}

func (f Fact) Arity() int {
	return len(f.Terms)
}

// Key identifies the fact by value.
func (f Fact) Key() string {
	return f.Predicate + "\x00" + strings.Join(f.Terms, "\x1f")
}

// String renders the fact as pred(t1, t2).
func (f Fact) String() string {
	if len(f.Terms) == 0 {
		return f.Predicate
	}
	return f.Predicate + "(" + strings.Join(f.Terms, ", ") + ")"
}

// Predicate a named relation. Arity is taken from the first fact.
type Predicate struct {
	Name  string
	Arity int
	Facts []Fact
}

// NewPredicate builds a predicate from solver result rows, each row a
// comma separated term list.
func NewPredicate(name string, rows []string) *Predicate {
	terms := make([][]string, len(rows))
	for i, row := range rows {
		terms[i] = program.SplitTerms(row)
	}
	return newPredicate(name, terms)
}

func newPredicate(name string, terms [][]string) *Predicate {
	p := &Predicate{Name: name, Facts: make([]Fact, len(terms))}
	for i, t := range terms {
		p.Facts[i] = Fact{Predicate: name, Terms: t}
	}
	if len(p.Facts) > 0 {
		p.Arity = p.Facts[0].Arity()
	}
	return p
}

// IsConsistent reports whether every fact has the predicate's arity.
func (p *Predicate) IsConsistent() bool {
	for _, f := range p.Facts {
		if f.Arity() != p.Arity {
			return false
		}
	}
	return true
}

// Contains reports whether a fact with the same value exists.
func (p *Predicate) Contains(f Fact) bool {
	key := f.Key()
	for _, own := range p.Facts {
		if own.Key() == key {
			return true
		}
	}
	return false
}

// String renders the predicate with placeholder variables, e.g. p(X, Y).
func (p *Predicate) String() string {
	if p.Arity == 0 {
		return p.Name
	}
	vars := make([]string, p.Arity)
	for i := range vars {
		vars[i] = placeholderVar(i)
	}
	return p.Name + "(" + strings.Join(vars, ", ") + ")"
}

func placeholderVar(i int) string {
	if i < len(placeholderVars) {
		return placeholderVars[i : i+1]
	}
	// more variables than letters: X26, X27, ...
	return "X" + strconv.Itoa(i)
}
