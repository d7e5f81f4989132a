package report

import (
	"html"

	"github.com/FashOJ/LogicJudger/internal/analysis"
	"github.com/FashOJ/LogicJudger/internal/grading"
	"github.com/FashOJ/LogicJudger/internal/model"
)

type datalogCategory struct {
	key      string
	category model.ErrorCategory
	count    int
	lines    []string
	// showOnRun 在 RUN 模式下也显示
	showOnRun bool
}

// RenderDatalog renders a graded Datalog comparison.
func RenderDatalog(tr Translator, locale string, mode model.SubmissionMode, level int, res *analysis.DatalogResult, g *grading.Result, rawOutput string) (*Report, error) {
	r, err := newRenderer(tr, locale, mode, level)
	if err != nil {
		return nil, err
	}

	rep := &Report{GeneralFeedback: r.generalFeedback(res.Correct)}
	rep.Criteria = append(rep.Criteria, r.syntaxValid())

	categories := []datalogCategory{
		{"missingPredicates", model.CategoryMissingPredicate, len(res.MissingPredicates), predicateLines(res.MissingPredicates), true},
		{"missingFacts", model.CategoryMissingFact, len(res.MissingFacts), factLines(res.MissingFacts), false},
		{"superfluousFacts", model.CategorySuperfluousFact, len(res.SuperfluousFacts), factLines(res.SuperfluousFacts), false},
	}
	for _, c := range categories {
		if crit, ok := r.datalogCriterion(c, g); ok {
			rep.Criteria = append(rep.Criteria, crit)
		}
	}

	body := `<div style="font-family: monospace;">` + html.EscapeString(rawOutput) + "</div>"
	if crit, ok := r.result(res.Correct, body); ok {
		rep.Criteria = append(rep.Criteria, crit)
	}
	return rep, nil
}

func (r *renderer) datalogCriterion(c datalogCategory, g *grading.Result) (model.Criterion, bool) {
	if r.mode == model.ModeRun && !c.showOnRun {
		return model.Criterion{}, false
	}
	if c.count == 0 {
		return model.Criterion{}, false
	}

	crit := model.Criterion{Name: r.t("criterium." + c.key)}
	if e, ok := g.Find(c.category); ok {
		crit.Points = negated(e.MinusPoints)
	}

	// 正式提交不给出细节
	if r.mode != model.ModeDiagnose {
		crit.Feedback = r.t("criterium." + c.key + ".noCount")
		return crit, true
	}

	switch r.level {
	case LevelLittle:
		crit.Points = nil
		crit.Feedback = r.t("criterium." + c.key + ".noCount")
	case LevelSome:
		crit.Feedback = r.t("criterium."+c.key+".count", c.count)
	case LevelMuch:
		crit.Feedback = pre(c.lines)
	default:
		return model.Criterion{}, false
	}
	return crit, true
}

func factLines(facts []analysis.Fact) []string {
	lines := make([]string, len(facts))
	for i, f := range facts {
		lines[i] = f.String()
	}
	return lines
}

func predicateLines(preds []*analysis.Predicate) []string {
	lines := make([]string, len(preds))
	for i, p := range preds {
		lines[i] = p.String()
	}
	return lines
}
