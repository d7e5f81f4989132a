package report

import (
	"html"

	"github.com/FashOJ/LogicJudger/internal/analysis"
	"github.com/FashOJ/LogicJudger/internal/model"
)

// RenderAsp renders an ASP comparison. ASP criteria carry no points.
func RenderAsp(tr Translator, locale string, mode model.SubmissionMode, level int, res *analysis.AspResult, rawOutput string) (*Report, error) {
	r, err := newRenderer(tr, locale, mode, level)
	if err != nil {
		return nil, err
	}
	if r.mode == model.ModeSubmit && r.level > LevelLittle {
		r.level = LevelLittle
	}

	rep := &Report{GeneralFeedback: r.generalFeedback(res.Correct)}
	rep.Criteria = append(rep.Criteria, r.syntaxValid())

	if !res.SameModelCount && r.mode != model.ModeRun && r.level > LevelNone {
		rep.Criteria = append(rep.Criteria, model.Criterion{
			Name:     r.t("criterium.count"),
			Feedback: r.t("criterium.count.invalid"),
		})
	}
	if crit, ok := r.modelCriterion("missingModels", res.MissingModels); ok {
		rep.Criteria = append(rep.Criteria, crit)
	}
	if crit, ok := r.modelCriterion("superfluousModels", res.SuperfluousModels); ok {
		rep.Criteria = append(rep.Criteria, crit)
	}

	if crit, ok := r.result(res.Correct, "<pre>"+html.EscapeString(rawOutput)+"</pre>"); ok {
		rep.Criteria = append(rep.Criteria, crit)
	}
	return rep, nil
}

func (r *renderer) modelCriterion(key string, models []analysis.Model) (model.Criterion, bool) {
	if r.mode == model.ModeRun || len(models) == 0 {
		return model.Criterion{}, false
	}

	crit := model.Criterion{Name: r.t("criterium." + key)}
	switch r.level {
	case LevelLittle:
		crit.Feedback = r.t("criterium." + key + ".noCount")
	case LevelSome:
		crit.Feedback = r.t("criterium."+key+".count", len(models))
	case LevelMuch:
		lines := make([]string, len(models))
		for i, m := range models {
			lines[i] = m.String()
		}
		crit.Feedback = pre(lines)
	default:
		return model.Criterion{}, false
	}
	return crit, true
}
