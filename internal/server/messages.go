package server

import (
	"github.com/FashOJ/LogicJudger/internal/model"
)

// EvaluateRequest 评测请求
type EvaluateRequest struct {
	TaskID        int64  `json:"task_id"`
	TaskType      string `json:"task_type"`
	Mode          string `json:"mode"`
	FeedbackLevel int    `json:"feedback_level"`
	Language      string `json:"language"`
	Input         string `json:"input"`
}

func (r *EvaluateRequest) submission() *model.Submission {
	return &model.Submission{
		TaskID:        r.TaskID,
		TaskType:      model.TaskType(r.TaskType),
		Mode:          model.SubmissionMode(r.Mode),
		FeedbackLevel: r.FeedbackLevel,
		Language:      r.Language,
		Input:         r.Input,
	}
}

// EvaluateResponse 评测结果
type EvaluateResponse = model.GradingResult

// ExecuteRequest 只运行 Datalog 程序
type ExecuteRequest struct {
	TaskID int64  `json:"task_id"`
	Mode   string `json:"mode"`
	Input  string `json:"input"`
}

func (r *ExecuteRequest) submission() *model.Submission {
	return &model.Submission{
		TaskID:   r.TaskID,
		TaskType: model.TaskDatalog,
		Mode:     model.SubmissionMode(r.Mode),
		Input:    r.Input,
	}
}

// ExecuteResponse 原始输出和查询结果
type ExecuteResponse = model.ExecutionResult

type HealthRequest struct{}

// HealthResponse 求解器状态和队列情况
type HealthResponse struct {
	Up          bool   `json:"up"`
	Version     string `json:"version,omitempty"`
	Error       string `json:"error,omitempty"`
	Workers     int    `json:"workers"`
	QueueLength int    `json:"queue_length"`
}
