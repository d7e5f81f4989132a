package runner

import (
	"context"
	"strings"
	"sync"
)

// Health 求解器健康状态
type Health struct {
	Up       bool
	Version  string
	ExitCode int
	Output   string
	Err      error
}

// HealthChecker 用 -help 探测求解器，第一次健康的结果会被缓存
type HealthChecker struct {
	runner Runner

	mu     sync.Mutex
	cached *Health
}

func NewHealthChecker(r Runner) *HealthChecker {
	return &HealthChecker{runner: r}
}

func (h *HealthChecker) Check(ctx context.Context) Health {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cached != nil {
		return *h.cached
	}

	out, err := h.runner.Execute(ctx, "", FlagHelp)
	if err != nil {
		return Health{Err: err}
	}
	if out.ExitCode != 0 {
		return Health{ExitCode: out.ExitCode, Output: out.Output}
	}

	version, _, _ := strings.Cut(out.Output, "\n")
	h.cached = &Health{
		Up:      true,
		Version: strings.TrimSpace(version),
		Output:  out.Output,
	}
	return *h.cached
}
