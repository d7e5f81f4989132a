// Package report renders feedback criteria for a graded submission.
package report

import (
	"errors"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/FashOJ/LogicJudger/internal/model"
)

// ErrInvalidFeedbackLevel feedback level is outside 0..3
var ErrInvalidFeedbackLevel = errors.New("feedback level must be between 0 and 3")

// Translator looks up a localized message.
type Translator interface {
	Translate(locale, key string, args ...any) string
}

// Report general feedback plus criteria, in display order.
type Report struct {
	GeneralFeedback string
	Criteria        []model.Criterion
}

// feedback levels
const (
	LevelNone = iota
	LevelLittle
	LevelSome
	LevelMuch
)

type renderer struct {
	tr     Translator
	locale string
	mode   model.SubmissionMode
	level  int
}

func newRenderer(tr Translator, locale string, mode model.SubmissionMode, level int) (*renderer, error) {
	if level < LevelNone || level > LevelMuch {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidFeedbackLevel, level)
	}
	return &renderer{tr: tr, locale: locale, mode: mode, level: level}, nil
}

func (r *renderer) t(key string, args ...any) string {
	return r.tr.Translate(r.locale, key, args...)
}

func (r *renderer) generalFeedback(correct bool) string {
	switch {
	case r.mode == model.ModeRun:
		return r.t("noSyntaxError")
	case !correct:
		return r.t("incorrect")
	case r.mode == model.ModeSubmit:
		return r.t("correct")
	default:
		return r.t("possiblyCorrect")
	}
}

func (r *renderer) syntaxValid() model.Criterion {
	return model.Criterion{
		Name:     r.t("criterium.syntax"),
		Passed:   true,
		Feedback: r.t("criterium.syntax.valid"),
	}
}

// result echoes the solver output; omitted on SUBMIT.
func (r *renderer) result(correct bool, body string) (model.Criterion, bool) {
	if r.mode == model.ModeSubmit {
		return model.Criterion{}, false
	}
	return model.Criterion{
		Name:     r.t("criterium.result"),
		Passed:   r.mode == model.ModeRun || correct,
		Feedback: body,
	}, true
}

func pre(lines []string) string {
	var sb strings.Builder
	sb.WriteString("<pre>")
	for _, l := range lines {
		sb.WriteString(html.EscapeString(l))
		sb.WriteByte('\n')
	}
	sb.WriteString("</pre>")
	return sb.String()
}

func negated(d decimal.Decimal) *decimal.Decimal {
	n := d.Neg()
	return &n
}

var lineNumber = regexp.MustCompile(`line \d+: `)

// RenderSyntaxError zero-point report for a program the solver rejected.
func RenderSyntaxError(tr Translator, locale, message string) *Report {
	msg := message
	if loc := lineNumber.FindStringIndex(msg); loc != nil {
		msg = msg[:loc[0]] + msg[loc[1]:]
	}
	return &Report{
		GeneralFeedback: tr.Translate(locale, "syntaxError"),
		Criteria: []model.Criterion{{
			Name:     tr.Translate(locale, "criterium.syntax"),
			Passed:   false,
			Feedback: "<pre>" + html.EscapeString(strings.TrimSpace(msg)) + "</pre>",
		}},
	}
}
