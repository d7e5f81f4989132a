package model

import "github.com/shopspring/decimal"

// SubmissionMode 提交模式
type SubmissionMode string

const (
	ModeRun      SubmissionMode = "run"
	ModeSubmit   SubmissionMode = "submit"
	ModeDiagnose SubmissionMode = "diagnose"
)

// TaskType 题目类型
type TaskType string

const (
	TaskDatalog TaskType = "datalog"
	TaskAsp     TaskType = "asp"
)

// GradingStrategy 扣分策略
type GradingStrategy string

const (
	// StrategyKO 出现即判零分
	StrategyKO GradingStrategy = "KO"
	// StrategyGroup 整类扣一次
	StrategyGroup GradingStrategy = "GROUP"
	// StrategyEach 按出现次数扣分
	StrategyEach GradingStrategy = "EACH"
)

// ErrorCategory 错误类别
type ErrorCategory string

const (
	CategoryMissingPredicate ErrorCategory = "MISSING_PREDICATE"
	CategoryMissingFact      ErrorCategory = "MISSING_FACT"
	CategorySuperfluousFact  ErrorCategory = "SUPERFLUOUS_FACT"
)

// TermDescription 不参与编码的项 (谓词, 项, 位置从 1 开始)
type TermDescription struct {
	Predicate string `yaml:"predicate" json:"predicate"`
	Term      string `yaml:"term" json:"term"`
	Position  int    `yaml:"position" json:"position"`
}

// Penalty 某一错误类别的扣分配置
type Penalty struct {
	Amount   decimal.Decimal
	Strategy GradingStrategy
}

// TaskGroup 题组，包含诊断与提交两套事实
type TaskGroup struct {
	ID              int64
	DiagnoseFacts   string
	SubmissionFacts string
}

// Facts 根据提交模式选择事实
func (g *TaskGroup) Facts(mode SubmissionMode) string {
	if mode == ModeSubmit {
		return g.SubmissionFacts
	}
	return g.DiagnoseFacts
}

// DatalogTask Datalog 题目
type DatalogTask struct {
	ID             int64
	MaxPoints      decimal.Decimal
	Group          *TaskGroup
	Solution       string
	Queries        []string
	UncheckedTerms []TermDescription

	MissingPredicate Penalty
	MissingFact      Penalty
	SuperfluousFact  Penalty
}

// AspTask ASP 题目
type AspTask struct {
	ID        int64
	MaxPoints decimal.Decimal
	Group     *TaskGroup
	Solution  string
	MaxN      *int
}

// Submission 一次提交
type Submission struct {
	TaskID        int64          `validate:"required"`
	TaskType      TaskType       `validate:"required,oneof=datalog asp"`
	Mode          SubmissionMode `validate:"required,oneof=run submit diagnose"`
	FeedbackLevel int            `validate:"min=0,max=3"`
	Language      string
	Input         string
}

// ExecutionResult 求解器执行结果：原始输出 + 每个查询谓词的结果行
type ExecutionResult struct {
	Output string              `json:"output"`
	Result map[string][]string `json:"result"`
}

// Criterion 单条评分反馈
type Criterion struct {
	Name     string           `json:"name"`
	Points   *decimal.Decimal `json:"points,omitempty"`
	Passed   bool             `json:"passed"`
	Feedback string           `json:"feedback"`
}

// GradingResult 评测结果
type GradingResult struct {
	MaxPoints       decimal.Decimal `json:"max_points"`
	Points          decimal.Decimal `json:"points"`
	GeneralFeedback string          `json:"general_feedback"`
	Criteria        []Criterion     `json:"criteria"`
}
