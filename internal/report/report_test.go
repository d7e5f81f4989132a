package report

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FashOJ/LogicJudger/internal/analysis"
	"github.com/FashOJ/LogicJudger/internal/grading"
	"github.com/FashOJ/LogicJudger/internal/model"
)

// keyTranslator 返回键本身，有参数时追加 "|参数"
type keyTranslator struct{}

func (keyTranslator) Translate(_, key string, args ...any) string {
	if len(args) == 0 {
		return key
	}
	return fmt.Sprintf("%s|%v", key, args[0])
}

func datalogFixture(t *testing.T) (*analysis.DatalogResult, *grading.Result) {
	t.Helper()
	res, err := analysis.CompareDatalog(
		map[string][]string{"p": {"a", "b", "c"}, "q": {"x, y"}},
		map[string][]string{"p": {"a", "d"}},
	)
	require.NoError(t, err)
	task := &model.DatalogTask{
		MaxPoints:        decimal.NewFromInt(10),
		MissingPredicate: model.Penalty{Amount: decimal.NewFromInt(4), Strategy: model.StrategyGroup},
		MissingFact:      model.Penalty{Amount: decimal.NewFromInt(1), Strategy: model.StrategyEach},
		SuperfluousFact:  model.Penalty{Amount: decimal.NewFromInt(1), Strategy: model.StrategyEach},
	}
	g, err := grading.Grade(task, res)
	require.NoError(t, err)
	return res, g
}

func names(criteria []model.Criterion) []string {
	out := make([]string, len(criteria))
	for i, c := range criteria {
		out[i] = c.Name
	}
	return out
}

func TestRenderDatalog_InvalidLevel(t *testing.T) {
	res, g := datalogFixture(t)
	for _, level := range []int{-1, 4} {
		_, err := RenderDatalog(keyTranslator{}, "en", model.ModeDiagnose, level, res, g, "")
		assert.ErrorIs(t, err, ErrInvalidFeedbackLevel)
	}
}

func TestRenderDatalog_DiagnoseLevels(t *testing.T) {
	res, g := datalogFixture(t)

	rep, err := RenderDatalog(keyTranslator{}, "en", model.ModeDiagnose, 0, res, g, "out")
	require.NoError(t, err)
	assert.Equal(t, "incorrect", rep.GeneralFeedback)
	assert.Equal(t, []string{"criterium.syntax", "criterium.result"}, names(rep.Criteria))

	rep, err = RenderDatalog(keyTranslator{}, "en", model.ModeDiagnose, 1, res, g, "out")
	require.NoError(t, err)
	require.Equal(t, []string{
		"criterium.syntax",
		"criterium.missingPredicates",
		"criterium.missingFacts",
		"criterium.superfluousFacts",
		"criterium.result",
	}, names(rep.Criteria))
	assert.Equal(t, "criterium.missingFacts.noCount", rep.Criteria[2].Feedback)
	assert.Nil(t, rep.Criteria[2].Points)

	rep, err = RenderDatalog(keyTranslator{}, "en", model.ModeDiagnose, 2, res, g, "out")
	require.NoError(t, err)
	missingFacts := rep.Criteria[2]
	assert.Equal(t, "criterium.missingFacts.count|2", missingFacts.Feedback)
	require.NotNil(t, missingFacts.Points)
	assert.True(t, missingFacts.Points.Equal(decimal.NewFromInt(-2)))
	assert.False(t, missingFacts.Passed)

	rep, err = RenderDatalog(keyTranslator{}, "en", model.ModeDiagnose, 3, res, g, "out")
	require.NoError(t, err)
	assert.Equal(t, "<pre>q(X, Y)\n</pre>", rep.Criteria[1].Feedback)
	assert.Equal(t, "<pre>p(b)\np(c)\n</pre>", rep.Criteria[2].Feedback)
	assert.Equal(t, "<pre>p(d)\n</pre>", rep.Criteria[3].Feedback)

	result := rep.Criteria[4]
	assert.False(t, result.Passed)
	assert.Equal(t, `<div style="font-family: monospace;">out</div>`, result.Feedback)
}

func TestRenderDatalog_SubmitWithholdsDetails(t *testing.T) {
	res, g := datalogFixture(t)

	rep, err := RenderDatalog(keyTranslator{}, "en", model.ModeSubmit, 3, res, g, "out")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"criterium.syntax",
		"criterium.missingPredicates",
		"criterium.missingFacts",
		"criterium.superfluousFacts",
	}, names(rep.Criteria), "no result criterion on submit")
	for _, c := range rep.Criteria[1:] {
		assert.Contains(t, c.Feedback, ".noCount")
		assert.NotNil(t, c.Points)
	}
}

func TestRenderDatalog_Run(t *testing.T) {
	res, err := analysis.CompareDatalog(map[string][]string{"p": {"a"}}, map[string][]string{"p": {"a"}})
	require.NoError(t, err)
	g := &grading.Result{Points: decimal.NewFromInt(3), Correct: true}

	rep, err := RenderDatalog(keyTranslator{}, "en", model.ModeRun, 3, res, g, "a < b")
	require.NoError(t, err)
	assert.Equal(t, "noSyntaxError", rep.GeneralFeedback)
	require.Equal(t, []string{"criterium.syntax", "criterium.result"}, names(rep.Criteria))
	assert.True(t, rep.Criteria[1].Passed)
	assert.Equal(t, `<div style="font-family: monospace;">a &lt; b</div>`, rep.Criteria[1].Feedback)
}

func TestRenderDatalog_CorrectFeedback(t *testing.T) {
	res, err := analysis.CompareDatalog(map[string][]string{"p": {"a"}}, map[string][]string{"p": {"a"}})
	require.NoError(t, err)
	g := &grading.Result{Points: decimal.NewFromInt(3), Correct: true}

	rep, err := RenderDatalog(keyTranslator{}, "en", model.ModeSubmit, 1, res, g, "")
	require.NoError(t, err)
	assert.Equal(t, "correct", rep.GeneralFeedback)

	rep, err = RenderDatalog(keyTranslator{}, "en", model.ModeDiagnose, 1, res, g, "")
	require.NoError(t, err)
	assert.Equal(t, "possiblyCorrect", rep.GeneralFeedback)
	assert.True(t, rep.Criteria[len(rep.Criteria)-1].Passed)
}

func TestRenderAsp_CountMismatch(t *testing.T) {
	res, err := analysis.CompareAsp("{p(a,b).}{p(b,c).}", "{p(a,b).}")
	require.NoError(t, err)

	rep, err := RenderAsp(keyTranslator{}, "en", model.ModeDiagnose, 1, res, "{p(a,b)}")
	require.NoError(t, err)
	assert.Equal(t, []string{"criterium.syntax", "criterium.count", "criterium.result"}, names(rep.Criteria))
	assert.Equal(t, "<pre>{p(a,b)}</pre>", rep.Criteria[2].Feedback)

	rep, err = RenderAsp(keyTranslator{}, "en", model.ModeDiagnose, 0, res, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"criterium.syntax", "criterium.result"}, names(rep.Criteria))
}

func TestRenderAsp_Levels(t *testing.T) {
	res, err := analysis.CompareAsp("{p(a)}{p(b)}", "{p(a)}{p(c)}")
	require.NoError(t, err)

	rep, err := RenderAsp(keyTranslator{}, "en", model.ModeDiagnose, 2, res, "")
	require.NoError(t, err)
	require.Equal(t, []string{
		"criterium.syntax",
		"criterium.missingModels",
		"criterium.superfluousModels",
		"criterium.result",
	}, names(rep.Criteria))
	assert.Equal(t, "criterium.missingModels.count|1", rep.Criteria[1].Feedback)
	assert.Nil(t, rep.Criteria[1].Points)

	rep, err = RenderAsp(keyTranslator{}, "en", model.ModeDiagnose, 3, res, "")
	require.NoError(t, err)
	assert.Equal(t, "<pre>{p(b)}\n</pre>", rep.Criteria[1].Feedback)
	assert.Equal(t, "<pre>{p(c)}\n</pre>", rep.Criteria[2].Feedback)
}

func TestRenderAsp_SubmitClampsLevel(t *testing.T) {
	res, err := analysis.CompareAsp("{p(a)}", "{p(c)}")
	require.NoError(t, err)

	rep, err := RenderAsp(keyTranslator{}, "en", model.ModeSubmit, 3, res, "")
	require.NoError(t, err)
	assert.Equal(t, "incorrect", rep.GeneralFeedback)
	require.Equal(t, []string{
		"criterium.syntax",
		"criterium.missingModels",
		"criterium.superfluousModels",
	}, names(rep.Criteria))
	assert.Equal(t, "criterium.missingModels.noCount", rep.Criteria[1].Feedback)

	_, err = RenderAsp(keyTranslator{}, "en", model.ModeSubmit, 7, res, "")
	assert.ErrorIs(t, err, ErrInvalidFeedbackLevel)
}

func TestRenderAsp_Run(t *testing.T) {
	res, err := analysis.CompareAsp("{p(a)}", "{p(a)}")
	require.NoError(t, err)

	rep, err := RenderAsp(keyTranslator{}, "en", model.ModeRun, 3, res, "{p(a)}")
	require.NoError(t, err)
	assert.Equal(t, "noSyntaxError", rep.GeneralFeedback)
	assert.Equal(t, []string{"criterium.syntax", "criterium.result"}, names(rep.Criteria))
	assert.True(t, rep.Criteria[1].Passed)
}

func TestRenderSyntaxError(t *testing.T) {
	rep := RenderSyntaxError(keyTranslator{}, "en", "submission.dlv: line 3: syntax error near <EOF>.\n")

	assert.Equal(t, "syntaxError", rep.GeneralFeedback)
	require.Len(t, rep.Criteria, 1)
	c := rep.Criteria[0]
	assert.Equal(t, "criterium.syntax", c.Name)
	assert.False(t, c.Passed)
	assert.Nil(t, c.Points)
	assert.Equal(t, "<pre>submission.dlv: syntax error near &lt;EOF&gt;.</pre>", c.Feedback)
}
