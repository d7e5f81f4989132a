package program

import (
	"strings"

	"github.com/FashOJ/LogicJudger/internal/model"
)

// Encoder 给提交阶段的事实参数追加后缀，防止学生直接照抄题面中的常量。
// 编码只做一次，对已编码的文本再次编码不保证幂等。
type Encoder struct {
	Suffix string
}

// NewEncoder 创建编码器
func NewEncoder(suffix string) *Encoder {
	return &Encoder{Suffix: suffix}
}

// Encode 对每个事实的每个参数追加后缀，exempt 中列出的 (谓词, 位置, 项) 保持原样。
// 输出每行一个事实。
func (e *Encoder) Encode(facts string, exempt []model.TermDescription) string {
	var out []string
	for _, stmt := range splitStatements(stripComments(facts)) {
		if strings.TrimSpace(stmt) == "" {
			continue
		}

		name, args, hasArgs := ParseAtom(stmt)
		if !hasArgs {
			out = append(out, name+".")
			continue
		}

		encoded := make([]string, len(args))
		for i, arg := range args {
			encoded[i] = arg
			if !isExempt(exempt, name, i+1, arg) {
				encoded[i] += e.Suffix
			}
		}
		out = append(out, name+"("+strings.Join(encoded, ",")+").")
	}
	return strings.Join(out, "\n")
}

func isExempt(exempt []model.TermDescription, predicate string, position int, term string) bool {
	term = removeSpaces(term)
	for _, t := range exempt {
		if t.Predicate == predicate && t.Position == position && removeSpaces(t.Term) == term {
			return true
		}
	}
	return false
}
