// Package program 处理送入求解器的程序文本：拆分语句、解析原子、编码事实。
package program

import (
	"strings"
	"unicode"

	"github.com/FashOJ/LogicJudger/internal/model"
)

// stripComments 去掉 % 行注释（引号内的 % 保留）
func stripComments(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		inQuote := false
		for j, r := range line {
			if r == '"' {
				inQuote = !inQuote
				continue
			}
			if r == '%' && !inQuote {
				lines[i] = line[:j]
				break
			}
		}
	}
	return strings.Join(lines, "\n")
}

// splitStatements 按顶层的 '.' 拆分语句，括号和引号内的 '.' 不拆
func splitStatements(text string) []string {
	return splitTopLevel(text, '.')
}

// SplitTerms 按顶层逗号拆分参数列表并去掉两侧空白
func SplitTerms(args string) []string {
	if strings.TrimSpace(args) == "" {
		return nil
	}
	parts := splitTopLevel(args, ',')
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func splitTopLevel(text string, sep rune) []string {
	var (
		parts   []string
		start   int
		depth   int
		inQuote bool
	)
	for i, r := range text {
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
		case r == sep && depth == 0:
			parts = append(parts, text[start:i])
			start = i + 1
		}
	}
	return append(parts, text[start:])
}

// ParseAtom 解析 name(arg1, arg2) 形式的原子。
// 没有括号时 hasArgs 为 false。
func ParseAtom(stmt string) (name string, args []string, hasArgs bool) {
	idx := strings.IndexByte(stmt, '(')
	if idx < 0 {
		return removeSpaces(stmt), nil, false
	}
	end := strings.LastIndexByte(stmt, ')')
	if end < idx {
		end = len(stmt)
	}
	return removeSpaces(stmt[:idx]), SplitTerms(stmt[idx+1 : end]), true
}

// ParseTermDescriptions 把 "p(a, b). q(c)." 形式的原始文本转换为免编码项列表
func ParseTermDescriptions(raw string) []model.TermDescription {
	var terms []model.TermDescription
	for _, stmt := range splitStatements(stripComments(raw)) {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		name, args, ok := ParseAtom(stmt)
		if !ok {
			continue
		}
		for i, arg := range args {
			terms = append(terms, model.TermDescription{
				Predicate: name,
				Term:      arg,
				Position:  i + 1,
			})
		}
	}
	return terms
}

// PredicateOf 从 "pred(X, Y)?" 形式的查询中取出谓词名
func PredicateOf(query string) string {
	if idx := strings.IndexByte(query, '('); idx >= 0 {
		return strings.TrimSpace(query[:idx])
	}
	return strings.TrimSpace(query)
}

func removeSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
