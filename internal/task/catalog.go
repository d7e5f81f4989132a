// Package task 从 YAML 文件加载题组与题目
package task

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/FashOJ/LogicJudger/internal/model"
	"github.com/FashOJ/LogicJudger/internal/program"
)

// ErrTaskNotFound 题目不存在
var ErrTaskNotFound = errors.New("task not found")

type penaltySpec struct {
	Penalty  string `yaml:"penalty"`
	Strategy string `yaml:"strategy" validate:"required,oneof=KO GROUP EACH"`
}

type groupSpec struct {
	ID              int64  `yaml:"id" validate:"required"`
	DiagnoseFacts   string `yaml:"diagnose_facts"`
	SubmissionFacts string `yaml:"submission_facts"`
}

type datalogSpec struct {
	ID               int64       `yaml:"id" validate:"required"`
	Group            int64       `yaml:"group" validate:"required"`
	MaxPoints        string      `yaml:"max_points" validate:"required"`
	Solution         string      `yaml:"solution" validate:"required"`
	Queries          []string    `yaml:"queries" validate:"min=1,dive,required"`
	UncheckedTerms   string      `yaml:"unchecked_terms"`
	MissingPredicate penaltySpec `yaml:"missing_predicate"`
	MissingFact      penaltySpec `yaml:"missing_fact"`
	SuperfluousFact  penaltySpec `yaml:"superfluous_fact"`
}

type aspSpec struct {
	ID        int64  `yaml:"id" validate:"required"`
	Group     int64  `yaml:"group" validate:"required"`
	MaxPoints string `yaml:"max_points" validate:"required"`
	Solution  string `yaml:"solution" validate:"required"`
	MaxN      *int   `yaml:"max_n" validate:"omitempty,min=1"`
}

type catalogFile struct {
	Groups  []groupSpec   `yaml:"groups" validate:"dive"`
	Datalog []datalogSpec `yaml:"datalog" validate:"dive"`
	Asp     []aspSpec     `yaml:"asp" validate:"dive"`
}

var validate = validator.New()

// Catalog 内存中的题目目录，加载后只读
type Catalog struct {
	datalog map[int64]*model.DatalogTask
	asp     map[int64]*model.AspTask
}

// Load 读取并解析题目文件
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read task file: %w", err)
	}
	return Parse(data)
}

// Parse 解析题目 YAML，未检查项在这里解析成 TermDescription
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse task file: %w", err)
	}
	if err := validate.Struct(&f); err != nil {
		return nil, fmt.Errorf("invalid task file: %w", err)
	}

	groups := make(map[int64]*model.TaskGroup, len(f.Groups))
	for _, g := range f.Groups {
		if _, dup := groups[g.ID]; dup {
			return nil, fmt.Errorf("duplicate task group %d", g.ID)
		}
		groups[g.ID] = &model.TaskGroup{
			ID:              g.ID,
			DiagnoseFacts:   g.DiagnoseFacts,
			SubmissionFacts: g.SubmissionFacts,
		}
	}

	c := &Catalog{
		datalog: make(map[int64]*model.DatalogTask, len(f.Datalog)),
		asp:     make(map[int64]*model.AspTask, len(f.Asp)),
	}
	for _, s := range f.Datalog {
		t, err := s.build(groups)
		if err != nil {
			return nil, fmt.Errorf("datalog task %d: %w", s.ID, err)
		}
		if _, dup := c.datalog[t.ID]; dup {
			return nil, fmt.Errorf("duplicate datalog task %d", t.ID)
		}
		c.datalog[t.ID] = t
	}
	for _, s := range f.Asp {
		t, err := s.build(groups)
		if err != nil {
			return nil, fmt.Errorf("asp task %d: %w", s.ID, err)
		}
		if _, dup := c.asp[t.ID]; dup {
			return nil, fmt.Errorf("duplicate asp task %d", t.ID)
		}
		c.asp[t.ID] = t
	}
	return c, nil
}

func (s datalogSpec) build(groups map[int64]*model.TaskGroup) (*model.DatalogTask, error) {
	group, ok := groups[s.Group]
	if !ok {
		return nil, fmt.Errorf("unknown task group %d", s.Group)
	}
	maxPoints, err := parsePoints(s.MaxPoints)
	if err != nil {
		return nil, fmt.Errorf("max_points: %w", err)
	}

	t := &model.DatalogTask{
		ID:             s.ID,
		MaxPoints:      maxPoints,
		Group:          group,
		Solution:       s.Solution,
		UncheckedTerms: program.ParseTermDescriptions(s.UncheckedTerms),
	}
	for _, q := range s.Queries {
		t.Queries = append(t.Queries, strings.TrimSpace(q))
	}

	penalties := []struct {
		name string
		spec penaltySpec
		dst  *model.Penalty
	}{
		{"missing_predicate", s.MissingPredicate, &t.MissingPredicate},
		{"missing_fact", s.MissingFact, &t.MissingFact},
		{"superfluous_fact", s.SuperfluousFact, &t.SuperfluousFact},
	}
	for _, p := range penalties {
		penalty, err := p.spec.build()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p.name, err)
		}
		*p.dst = penalty
	}
	return t, nil
}

func (s penaltySpec) build() (model.Penalty, error) {
	amount := decimal.Zero
	if s.Penalty != "" {
		var err error
		if amount, err = parsePoints(s.Penalty); err != nil {
			return model.Penalty{}, err
		}
	}
	return model.Penalty{Amount: amount, Strategy: model.GradingStrategy(s.Strategy)}, nil
}

func (s aspSpec) build(groups map[int64]*model.TaskGroup) (*model.AspTask, error) {
	group, ok := groups[s.Group]
	if !ok {
		return nil, fmt.Errorf("unknown task group %d", s.Group)
	}
	maxPoints, err := parsePoints(s.MaxPoints)
	if err != nil {
		return nil, fmt.Errorf("max_points: %w", err)
	}
	return &model.AspTask{
		ID:        s.ID,
		MaxPoints: maxPoints,
		Group:     group,
		Solution:  s.Solution,
		MaxN:      s.MaxN,
	}, nil
}

func parsePoints(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("must not be negative, got %s", d)
	}
	return d, nil
}

// DatalogTask 按 ID 查找 Datalog 题目
func (c *Catalog) DatalogTask(_ context.Context, id int64) (*model.DatalogTask, error) {
	t, ok := c.datalog[id]
	if !ok {
		return nil, fmt.Errorf("%w: datalog task %d", ErrTaskNotFound, id)
	}
	return t, nil
}

// AspTask 按 ID 查找 ASP 题目
func (c *Catalog) AspTask(_ context.Context, id int64) (*model.AspTask, error) {
	t, ok := c.asp[id]
	if !ok {
		return nil, fmt.Errorf("%w: asp task %d", ErrTaskNotFound, id)
	}
	return t, nil
}

// Size 题目数量
func (c *Catalog) Size() (datalog, asp int) {
	return len(c.datalog), len(c.asp)
}
