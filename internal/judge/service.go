package judge

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/FashOJ/LogicJudger/internal/model"
)

var (
	// ErrBusy 任务队列已满
	ErrBusy = errors.New("system busy: job queue is full")
	// ErrClosed 服务已关闭
	ErrClosed = errors.New("judge service closed")
	// ErrInvalidSubmission 提交字段不合法
	ErrInvalidSubmission = errors.New("invalid submission")
	// ErrUnsupported 该题目类型不支持此操作
	ErrUnsupported = errors.New("operation not supported for task type")
)

// Executor 只运行不评分
type Executor interface {
	Execute(ctx context.Context, sub *model.Submission) (*model.ExecutionResult, error)
}

type job struct {
	ctx context.Context
	run func(ctx context.Context)
}

// JudgeService 用固定数量的 worker 执行评测，队列满时直接拒绝
type JudgeService struct {
	datalog  Evaluator
	asp      Evaluator
	executor Executor

	jobQueue chan *job
	workers  int
	logger   *zap.Logger
	validate *validator.Validate

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewJudgeService executor 可以为 nil (不支持 Execute)
func NewJudgeService(datalog, asp Evaluator, executor Executor, workers, queueSize int, logger *zap.Logger) *JudgeService {
	s := &JudgeService{
		datalog:  datalog,
		asp:      asp,
		executor: executor,
		jobQueue: make(chan *job, queueSize),
		workers:  workers,
		logger:   logger,
		validate: validator.New(),
	}
	s.startWorkers(workers)
	return s
}

func (s *JudgeService) startWorkers(n int) {
	s.wg.Add(n)
	for i := 0; i < n; i++ {
		go s.worker()
	}
}

func (s *JudgeService) worker() {
	defer s.wg.Done()
	for j := range s.jobQueue {
		queueLength.Dec()
		// 调用方已经放弃，不再运行求解器
		if j.ctx.Err() != nil {
			continue
		}
		j.run(j.ctx)
	}
}

// submit 非阻塞入队
func (s *JudgeService) submit(ctx context.Context, run func(ctx context.Context)) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	select {
	case s.jobQueue <- &job{ctx: ctx, run: run}:
		queueLength.Inc()
		return nil
	default:
		rejectedJobs.Inc()
		return ErrBusy
	}
}

// Evaluate 按题目类型分派评测并等待结果
func (s *JudgeService) Evaluate(ctx context.Context, sub *model.Submission) (*model.GradingResult, error) {
	if err := s.check(sub); err != nil {
		return nil, err
	}
	evaluator, err := s.evaluatorFor(sub.TaskType)
	if err != nil {
		return nil, err
	}

	type result struct {
		res *model.GradingResult
		err error
	}
	done := make(chan result, 1)
	start := time.Now()
	err = s.submit(ctx, func(ctx context.Context) {
		res, err := evaluator.Evaluate(ctx, sub)
		done <- result{res, err}
	})
	if err != nil {
		return nil, err
	}

	select {
	case r := <-done:
		evaluationDuration.WithLabelValues(string(sub.TaskType)).Observe(time.Since(start).Seconds())
		evaluations.WithLabelValues(string(sub.TaskType), outcome(r.res, r.err)).Inc()
		return r.res, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Execute 运行提交的程序，返回原始结果
func (s *JudgeService) Execute(ctx context.Context, sub *model.Submission) (*model.ExecutionResult, error) {
	if err := s.check(sub); err != nil {
		return nil, err
	}
	if sub.TaskType != model.TaskDatalog || s.executor == nil {
		return nil, fmt.Errorf("%w: execute %s", ErrUnsupported, sub.TaskType)
	}

	type result struct {
		res *model.ExecutionResult
		err error
	}
	done := make(chan result, 1)
	err := s.submit(ctx, func(ctx context.Context) {
		res, err := s.executor.Execute(ctx, sub)
		done <- result{res, err}
	})
	if err != nil {
		return nil, err
	}

	select {
	case r := <-done:
		return r.res, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *JudgeService) check(sub *model.Submission) error {
	if sub == nil {
		return fmt.Errorf("%w: empty submission", ErrInvalidSubmission)
	}
	if err := s.validate.Struct(sub); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSubmission, err)
	}
	return nil
}

func (s *JudgeService) evaluatorFor(t model.TaskType) (Evaluator, error) {
	switch t {
	case model.TaskDatalog:
		return s.datalog, nil
	case model.TaskAsp:
		return s.asp, nil
	default:
		return nil, fmt.Errorf("%w: unknown task type %q", ErrInvalidSubmission, t)
	}
}

// QueueLen 等待中的任务数
func (s *JudgeService) QueueLen() int {
	return len(s.jobQueue)
}

// Workers worker 数量
func (s *JudgeService) Workers() int {
	return s.workers
}

// Close 停止接收任务，等待队列中的任务完成
func (s *JudgeService) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.jobQueue)
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Info("Judge service stopped")
}

func outcome(res *model.GradingResult, err error) string {
	switch {
	case err != nil:
		return "error"
	case res.Points.Equal(res.MaxPoints):
		return "full"
	case res.Points.IsZero():
		return "zero"
	default:
		return "partial"
	}
}
