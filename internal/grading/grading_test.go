package grading

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FashOJ/LogicJudger/internal/analysis"
	"github.com/FashOJ/LogicJudger/internal/model"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTask(maxPoints string, pred, missing, superfluous model.Penalty) *model.DatalogTask {
	return &model.DatalogTask{
		ID:               1,
		MaxPoints:        d(maxPoints),
		MissingPredicate: pred,
		MissingFact:      missing,
		SuperfluousFact:  superfluous,
	}
}

func each(amount string) model.Penalty {
	return model.Penalty{Amount: d(amount), Strategy: model.StrategyEach}
}

func group(amount string) model.Penalty {
	return model.Penalty{Amount: d(amount), Strategy: model.StrategyGroup}
}

var ko = model.Penalty{Amount: decimal.Zero, Strategy: model.StrategyKO}

func compare(t *testing.T, solution, submission map[string][]string) *analysis.DatalogResult {
	t.Helper()
	res, err := analysis.CompareDatalog(solution, submission)
	require.NoError(t, err)
	return res
}

func TestGrade_Correct(t *testing.T) {
	task := newTask("10", ko, ko, ko)
	res := compare(t, map[string][]string{"p": {"a", "b"}}, map[string][]string{"p": {"a", "b"}})

	g, err := Grade(task, res)
	require.NoError(t, err)
	assert.True(t, g.Correct)
	assert.True(t, g.Points.Equal(d("10")))
	assert.Empty(t, g.Details)
}

func TestGrade_EachMissingFact(t *testing.T) {
	task := newTask("10", each("1"), each("1"), each("1"))
	res := compare(t, map[string][]string{"p": {"a", "b"}}, map[string][]string{"p": {"a"}})

	g, err := Grade(task, res)
	require.NoError(t, err)
	require.Len(t, g.Details, 1)
	assert.Equal(t, model.CategoryMissingFact, g.Details[0].Category)
	assert.True(t, g.Details[0].MinusPoints.Equal(d("1")), "got %s", g.Details[0].MinusPoints)
	assert.True(t, g.Points.Equal(d("9")))
}

func TestGrade_EachScalesLinearly(t *testing.T) {
	task := newTask("100", each("1"), each("2.5"), each("1"))
	solution := map[string][]string{"p": {"a", "b", "c", "d", "e"}}

	one, err := Grade(task, compare(t, solution, map[string][]string{"p": {"a", "b", "c", "d"}}))
	require.NoError(t, err)
	two, err := Grade(task, compare(t, solution, map[string][]string{"p": {"a", "b", "c"}}))
	require.NoError(t, err)

	e1, _ := one.Find(model.CategoryMissingFact)
	e2, _ := two.Find(model.CategoryMissingFact)
	assert.True(t, e2.MinusPoints.Equal(e1.MinusPoints.Mul(decimal.NewFromInt(2))))
}

func TestGrade_GroupDeductsOnce(t *testing.T) {
	task := newTask("10", each("1"), each("1"), group("3"))
	res := compare(t, map[string][]string{"p": {"a"}}, map[string][]string{"p": {"a", "b", "c", "d"}})

	g, err := Grade(task, res)
	require.NoError(t, err)
	e, ok := g.Find(model.CategorySuperfluousFact)
	require.True(t, ok)
	assert.True(t, e.MinusPoints.Equal(d("3")))
	assert.True(t, g.Points.Equal(d("7")))
}

func TestGrade_MultipleKOClampOnce(t *testing.T) {
	task := newTask("4", ko, ko, ko)
	res := compare(t,
		map[string][]string{"p": {"a", "b"}, "q": {"x"}},
		map[string][]string{"p": {"a", "c"}},
	)

	g, err := Grade(task, res)
	require.NoError(t, err)
	assert.Len(t, g.Details, 3)
	for _, e := range g.Details {
		assert.True(t, e.MinusPoints.Equal(d("4")))
	}
	assert.True(t, g.Points.IsZero())
	assert.False(t, g.Correct)
}

func TestGrade_PointsWithinBounds(t *testing.T) {
	penalties := []model.Penalty{ko, each("0"), each("0.5"), each("3"), group("0"), group("2"), group("50")}
	solution := map[string][]string{"p": {"a", "b", "c"}, "q": {"1, 2"}}
	submissions := []map[string][]string{
		{"p": {"a"}},
		{"p": {"a", "b", "c", "d", "e"}, "q": {"1, 2"}},
		{"p": {"x", "y"}, "q": {"2, 1"}},
		{},
	}
	maxPoints := d("6")

	for i, sub := range submissions {
		res := compare(t, solution, sub)
		for _, mp := range penalties {
			for _, mf := range penalties {
				for _, sf := range penalties {
					task := newTask("6", mp, mf, sf)
					g, err := Grade(task, res)
					require.NoError(t, err)
					name := fmt.Sprintf("submission %d %v/%v/%v", i, mp, mf, sf)
					assert.False(t, g.Points.IsNegative(), name)
					assert.True(t, g.Points.LessThanOrEqual(maxPoints), name)
				}
			}
		}
	}
}

func TestGrade_UnknownStrategy(t *testing.T) {
	task := newTask("10", model.Penalty{Strategy: "HALF"}, ko, ko)
	res := compare(t, map[string][]string{"p": {"a"}}, map[string][]string{})

	_, err := Grade(task, res)
	assert.Error(t, err)
}

func TestGradeAsp(t *testing.T) {
	ok, err := analysis.CompareAsp("{a}{b}", "{b}{a}")
	require.NoError(t, err)
	g := GradeAsp(d("5"), ok)
	assert.True(t, g.Correct)
	assert.True(t, g.Points.Equal(d("5")))

	bad, err := analysis.CompareAsp("{a}{b}", "{a}")
	require.NoError(t, err)
	g = GradeAsp(d("5"), bad)
	assert.False(t, g.Correct)
	assert.True(t, g.Points.IsZero())
}
