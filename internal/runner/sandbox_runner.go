package runner

import (
	"fmt"
	"os/exec"

	"github.com/FashOJ/LogicJudger/internal/sandbox"
)

// Isolation 在求解器进程启动前后施加隔离
type Isolation interface {
	// Prepare 在进程启动前修改命令 (命名空间等)
	Prepare(cmd *exec.Cmd) error
	// Attach 进程启动后把它放进资源组，返回的 release 在进程结束后调用
	Attach(pid int) (release func(), err error)
}

// SandboxIsolation 用命名空间 + Cgroup 池限制求解器。
// 需要 Linux 和 root 权限。
type SandboxIsolation struct {
	pool        *sandbox.CgroupPool
	memoryLimit int64 // bytes
	cpuPercent  int
}

func NewSandboxIsolation(pool *sandbox.CgroupPool, memoryLimitMB int64) *SandboxIsolation {
	return &SandboxIsolation{
		pool:        pool,
		memoryLimit: memoryLimitMB * 1024 * 1024,
		cpuPercent:  100,
	}
}

func (s *SandboxIsolation) Prepare(cmd *exec.Cmd) error {
	return sandbox.Isolate(cmd)
}

func (s *SandboxIsolation) Attach(pid int) (func(), error) {
	cg := s.pool.Acquire()
	if err := cg.SetMemoryLimit(s.memoryLimit); err != nil {
		s.pool.Release(cg)
		return nil, fmt.Errorf("set memory limit: %w", err)
	}
	if err := cg.SetCPULimit(s.cpuPercent); err != nil {
		s.pool.Release(cg)
		return nil, fmt.Errorf("set cpu limit: %w", err)
	}
	if err := cg.AddProcess(pid); err != nil {
		s.pool.Release(cg)
		return nil, fmt.Errorf("add process to cgroup: %w", err)
	}
	return func() { s.pool.Release(cg) }, nil
}
