package judge

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/FashOJ/LogicJudger/internal/analysis"
	"github.com/FashOJ/LogicJudger/internal/grading"
	"github.com/FashOJ/LogicJudger/internal/model"
	"github.com/FashOJ/LogicJudger/internal/report"
	"github.com/FashOJ/LogicJudger/internal/runner"
)

// TaskRepository 题目查找
type TaskRepository interface {
	DatalogTask(ctx context.Context, id int64) (*model.DatalogTask, error)
	AspTask(ctx context.Context, id int64) (*model.AspTask, error)
}

// Solver 运行求解器，由 runner.QueryRunner 实现
type Solver interface {
	Query(ctx context.Context, facts, rules string, queries []string, exempt []model.TermDescription, encode bool) (*model.ExecutionResult, error)
	Run(ctx context.Context, facts, rules string, maxN *int) (string, error)
}

// Evaluator 评测一次提交
type Evaluator interface {
	Evaluate(ctx context.Context, sub *model.Submission) (*model.GradingResult, error)
}

// DatalogEvaluator 评测 Datalog 提交
type DatalogEvaluator struct {
	tasks  TaskRepository
	solver Solver
	tr     report.Translator
	logger *zap.Logger
}

func NewDatalogEvaluator(tasks TaskRepository, solver Solver, tr report.Translator, logger *zap.Logger) *DatalogEvaluator {
	return &DatalogEvaluator{tasks: tasks, solver: solver, tr: tr, logger: logger}
}

func (e *DatalogEvaluator) Evaluate(ctx context.Context, sub *model.Submission) (*model.GradingResult, error) {
	task, err := e.tasks.DatalogTask(ctx, sub.TaskID)
	if err != nil {
		return nil, err
	}
	log := e.logger.With(zap.Int64("task_id", sub.TaskID), zap.String("mode", string(sub.Mode)))
	log.Info("Evaluating datalog input", zap.Int("feedback_level", sub.FeedbackLevel))

	// 正式提交使用提交事实并编码，其余模式使用诊断事实
	facts := task.Group.Facts(sub.Mode)
	encode := sub.Mode == model.ModeSubmit

	// 1. 先运行学生程序，语法错误直接返回
	submission, err := e.solver.Query(ctx, facts, sub.Input, task.Queries, task.UncheckedTerms, encode)
	if err != nil {
		if syntaxErr, ok := runner.IsSyntaxError(err); ok {
			log.Warn("Syntax error in input")
			return syntaxErrorResult(e.tr, sub.Language, task.MaxPoints, syntaxErr), nil
		}
		log.Error("Failed to evaluate input", zap.Error(err))
		return nil, fmt.Errorf("evaluate input for task %d: %w", sub.TaskID, err)
	}

	// 2. RUN 模式不需要参考答案
	solution := submission
	if sub.Mode != model.ModeRun {
		solution, err = e.solver.Query(ctx, facts, task.Solution, task.Queries, task.UncheckedTerms, encode)
		if err != nil {
			log.Error("Failed to evaluate solution", zap.Error(err))
			return nil, fmt.Errorf("evaluate solution for task %d: %w", sub.TaskID, err)
		}
	}

	// 3. 比较、评分、反馈
	res, err := analysis.CompareDatalog(solution.Result, submission.Result)
	if err != nil {
		log.Error("Failed to analyse query result", zap.Error(err))
		return nil, fmt.Errorf("analyse result for task %d: %w", sub.TaskID, err)
	}
	g, err := grading.Grade(task, res)
	if err != nil {
		return nil, fmt.Errorf("grade task %d: %w", sub.TaskID, err)
	}
	rep, err := report.RenderDatalog(e.tr, sub.Language, sub.Mode, sub.FeedbackLevel, res, g, submission.Output)
	if err != nil {
		return nil, err
	}

	log.Info("Datalog input evaluated", zap.String("points", g.Points.String()), zap.Bool("correct", g.Correct))
	return &model.GradingResult{
		MaxPoints:       task.MaxPoints,
		Points:          g.Points,
		GeneralFeedback: rep.GeneralFeedback,
		Criteria:        rep.Criteria,
	}, nil
}

// Execute 只运行提交的程序，返回原始输出和查询结果，不评分
func (e *DatalogEvaluator) Execute(ctx context.Context, sub *model.Submission) (*model.ExecutionResult, error) {
	task, err := e.tasks.DatalogTask(ctx, sub.TaskID)
	if err != nil {
		return nil, err
	}
	e.logger.Info("Executing datalog input", zap.Int64("task_id", sub.TaskID), zap.String("mode", string(sub.Mode)))

	res, err := e.solver.Query(ctx, task.Group.Facts(sub.Mode), sub.Input, task.Queries, task.UncheckedTerms, sub.Mode == model.ModeSubmit)
	if err != nil {
		e.logger.Warn("Failed to execute input", zap.Int64("task_id", sub.TaskID), zap.Error(err))
		return nil, fmt.Errorf("execute input for task %d: %w", sub.TaskID, err)
	}
	return res, nil
}

// AspEvaluator 评测 ASP 提交，全对得满分，否则零分
type AspEvaluator struct {
	tasks  TaskRepository
	solver Solver
	tr     report.Translator
	logger *zap.Logger
}

func NewAspEvaluator(tasks TaskRepository, solver Solver, tr report.Translator, logger *zap.Logger) *AspEvaluator {
	return &AspEvaluator{tasks: tasks, solver: solver, tr: tr, logger: logger}
}

func (e *AspEvaluator) Evaluate(ctx context.Context, sub *model.Submission) (*model.GradingResult, error) {
	task, err := e.tasks.AspTask(ctx, sub.TaskID)
	if err != nil {
		return nil, err
	}
	log := e.logger.With(zap.Int64("task_id", sub.TaskID), zap.String("mode", string(sub.Mode)))
	log.Info("Evaluating asp input", zap.Int("feedback_level", sub.FeedbackLevel))

	facts := task.Group.Facts(sub.Mode)

	submission, err := e.solver.Run(ctx, facts, sub.Input, task.MaxN)
	if err != nil {
		if syntaxErr, ok := runner.IsSyntaxError(err); ok {
			log.Warn("Syntax error in input")
			return syntaxErrorResult(e.tr, sub.Language, task.MaxPoints, syntaxErr), nil
		}
		log.Error("Failed to evaluate input", zap.Error(err))
		return nil, fmt.Errorf("evaluate input for asp task %d: %w", sub.TaskID, err)
	}

	solution := submission
	if sub.Mode != model.ModeRun {
		solution, err = e.solver.Run(ctx, facts, task.Solution, task.MaxN)
		if err != nil {
			log.Error("Failed to evaluate solution", zap.Error(err))
			return nil, fmt.Errorf("evaluate solution for asp task %d: %w", sub.TaskID, err)
		}
	}

	res, err := analysis.CompareAsp(solution, submission)
	if err != nil {
		log.Error("Failed to analyse models", zap.Error(err))
		return nil, fmt.Errorf("analyse result for asp task %d: %w", sub.TaskID, err)
	}
	g := grading.GradeAsp(task.MaxPoints, res)
	rep, err := report.RenderAsp(e.tr, sub.Language, sub.Mode, sub.FeedbackLevel, res, submission)
	if err != nil {
		return nil, err
	}

	log.Info("Asp input evaluated", zap.Bool("correct", g.Correct))
	return &model.GradingResult{
		MaxPoints:       task.MaxPoints,
		Points:          g.Points,
		GeneralFeedback: rep.GeneralFeedback,
		Criteria:        rep.Criteria,
	}, nil
}

func syntaxErrorResult(tr report.Translator, locale string, maxPoints decimal.Decimal, err *runner.SyntaxError) *model.GradingResult {
	rep := report.RenderSyntaxError(tr, locale, err.Output)
	return &model.GradingResult{
		MaxPoints:       maxPoints,
		Points:          decimal.Zero,
		GeneralFeedback: rep.GeneralFeedback,
		Criteria:        rep.Criteria,
	}
}
