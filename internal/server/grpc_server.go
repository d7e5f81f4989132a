package server

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/FashOJ/LogicJudger/internal/judge"
	"github.com/FashOJ/LogicJudger/internal/model"
	"github.com/FashOJ/LogicJudger/internal/report"
	"github.com/FashOJ/LogicJudger/internal/runner"
	"github.com/FashOJ/LogicJudger/internal/task"
)

// Judge 评测服务，由 judge.JudgeService 实现
type Judge interface {
	Evaluate(ctx context.Context, sub *model.Submission) (*model.GradingResult, error)
	Execute(ctx context.Context, sub *model.Submission) (*model.ExecutionResult, error)
	QueueLen() int
	Workers() int
}

// HealthChecker 求解器健康检查
type HealthChecker interface {
	Check(ctx context.Context) runner.Health
}

type JudgeServer struct {
	judge  Judge
	health HealthChecker
	logger *zap.Logger
}

func NewJudgeServer(j Judge, health HealthChecker, logger *zap.Logger) *JudgeServer {
	return &JudgeServer{judge: j, health: health, logger: logger}
}

func (s *JudgeServer) Evaluate(ctx context.Context, req *EvaluateRequest) (*EvaluateResponse, error) {
	s.logger.Info("Received evaluation",
		zap.Int64("task_id", req.TaskID),
		zap.String("task_type", req.TaskType),
		zap.String("mode", req.Mode))

	res, err := s.judge.Evaluate(ctx, req.submission())
	if err != nil {
		return nil, s.toStatus(err)
	}

	s.logger.Info("Evaluation completed",
		zap.Int64("task_id", req.TaskID),
		zap.String("points", res.Points.String()),
		zap.String("max_points", res.MaxPoints.String()))
	return res, nil
}

func (s *JudgeServer) Execute(ctx context.Context, req *ExecuteRequest) (*ExecuteResponse, error) {
	s.logger.Info("Received execution", zap.Int64("task_id", req.TaskID), zap.String("mode", req.Mode))

	res, err := s.judge.Execute(ctx, req.submission())
	if err != nil {
		// Execute 没有评分报告，语法错误直接返回给调用方
		if syntaxErr, ok := runner.IsSyntaxError(err); ok {
			return nil, status.Error(codes.InvalidArgument, syntaxErr.Output)
		}
		return nil, s.toStatus(err)
	}
	return res, nil
}

func (s *JudgeServer) Health(ctx context.Context, _ *HealthRequest) (*HealthResponse, error) {
	h := s.health.Check(ctx)
	resp := &HealthResponse{
		Up:          h.Up,
		Version:     h.Version,
		Workers:     s.judge.Workers(),
		QueueLength: s.judge.QueueLen(),
	}
	if h.Err != nil {
		resp.Error = h.Err.Error()
	}
	return resp, nil
}

// toStatus 把内部错误转换为 gRPC 状态码
func (s *JudgeServer) toStatus(err error) error {
	switch {
	case errors.Is(err, task.ErrTaskNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, judge.ErrInvalidSubmission), errors.Is(err, report.ErrInvalidFeedbackLevel):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, judge.ErrUnsupported):
		return status.Error(codes.Unimplemented, err.Error())
	case errors.Is(err, judge.ErrBusy):
		return status.Error(codes.ResourceExhausted, err.Error())
	case errors.Is(err, judge.ErrClosed):
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	default:
		s.logger.Error("Request failed", zap.Error(err))
		return status.Error(codes.Internal, err.Error())
	}
}

// LoggingInterceptor 记录每次调用的耗时和状态码
func LoggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logger.Debug("RPC finished",
			zap.String("method", info.FullMethod),
			zap.String("code", status.Code(err).String()),
			zap.Duration("duration", time.Since(start)))
		return resp, err
	}
}
