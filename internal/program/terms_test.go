package program

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/FashOJ/LogicJudger/internal/model"
)

func TestParseTermDescriptions(t *testing.T) {
	raw := "person(anna, 30).\n  likes( bob ,\tpizza ).\nflag."

	terms := ParseTermDescriptions(raw)

	assert.Equal(t, []model.TermDescription{
		{Predicate: "person", Term: "anna", Position: 1},
		{Predicate: "person", Term: "30", Position: 2},
		{Predicate: "likes", Term: "bob", Position: 1},
		{Predicate: "likes", Term: "pizza", Position: 2},
	}, terms)
}

func TestParseTermDescriptions_Empty(t *testing.T) {
	assert.Empty(t, ParseTermDescriptions(""))
	assert.Empty(t, ParseTermDescriptions("   \n"))
}

func TestSplitTerms(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"plain", "a,b", []string{"a", "b"}},
		{"spaces", "a, b ,  c", []string{"a", "b", "c"}},
		{"nested", "f(a,b), c", []string{"f(a,b)", "c"}},
		{"quoted", `"x,y", z`, []string{`"x,y"`, "z"}},
		{"empty", "  ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitTerms(tt.in))
		})
	}
}

func TestParseAtom(t *testing.T) {
	name, args, ok := ParseAtom("\n  edge (a, b)")
	assert.True(t, ok)
	assert.Equal(t, "edge", name)
	assert.Equal(t, []string{"a", "b"}, args)

	name, args, ok = ParseAtom(" rainy ")
	assert.False(t, ok)
	assert.Equal(t, "rainy", name)
	assert.Nil(t, args)
}

func TestPredicateOf(t *testing.T) {
	assert.Equal(t, "path", PredicateOf("path(X, Y)?"))
	assert.Equal(t, "q?", PredicateOf("q?"))
	assert.Equal(t, "p", PredicateOf(" p (X)?"))
}

func TestStripComments(t *testing.T) {
	in := "p(a). % a comment (with parens).\n% full line\nq(\"100%\")."
	assert.Equal(t, "p(a). \n\nq(\"100%\").", stripComments(in))
}
