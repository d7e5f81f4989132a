package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/FashOJ/LogicJudger/internal/config"
	"github.com/FashOJ/LogicJudger/internal/i18n"
	"github.com/FashOJ/LogicJudger/internal/judge"
	"github.com/FashOJ/LogicJudger/internal/program"
	"github.com/FashOJ/LogicJudger/internal/runner"
	"github.com/FashOJ/LogicJudger/internal/sandbox"
	"github.com/FashOJ/LogicJudger/internal/task"
)

// app 组装好的评测组件
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	workDir *runner.WorkDir
	pool    *sandbox.CgroupPool
	tasks   *task.Catalog
	health  *runner.HealthChecker
	judge   *judge.JudgeService
}

func newApp(cfg *config.Config, logger *zap.Logger) (_ *app, err error) {
	a := &app{cfg: cfg, logger: logger}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	exe, err := cfg.Solver.ExecutablePath()
	if err != nil {
		return nil, fmt.Errorf("resolve solver executable: %w", err)
	}

	a.workDir, err = runner.NewWorkDir(cfg.Solver.WorkDir)
	if err != nil {
		return nil, err
	}

	var opts []runner.Option
	if cfg.Sandbox.Enabled {
		a.pool, err = sandbox.NewCgroupPool(cfg.Sandbox.CgroupRoot, cfg.Sandbox.PoolSize, cfg.Sandbox.CgroupName)
		if err != nil {
			return nil, fmt.Errorf("create cgroup pool: %w", err)
		}
		opts = append(opts, runner.WithIsolation(runner.NewSandboxIsolation(a.pool, cfg.Sandbox.MemoryLimit)))
		logger.Info("Sandbox enabled", zap.Int("pool_size", a.pool.Size()), zap.Int64("memory_limit_mb", cfg.Sandbox.MemoryLimit))
	}

	proc := runner.NewProcessRunner(exe, cfg.Solver.Timeout(), a.workDir, logger, opts...)
	a.health = runner.NewHealthChecker(proc)

	a.tasks, err = task.Load(cfg.Tasks.File)
	if err != nil {
		return nil, err
	}
	datalogTasks, aspTasks := a.tasks.Size()
	logger.Info("Task catalog loaded",
		zap.String("file", cfg.Tasks.File),
		zap.Int("datalog_tasks", datalogTasks),
		zap.Int("asp_tasks", aspTasks))

	messages, err := i18n.Load()
	if err != nil {
		return nil, err
	}

	solver := runner.NewQueryRunner(proc, program.NewEncoder(cfg.Solver.FactEncodingSuffix), logger, cfg.Solver.QueryParallelism)
	datalog := judge.NewDatalogEvaluator(a.tasks, solver, messages, logger)
	asp := judge.NewAspEvaluator(a.tasks, solver, messages, logger)
	a.judge = judge.NewJudgeService(datalog, asp, datalog, cfg.Server.Workers, cfg.Server.QueueSize, logger)
	return a, nil
}

// Close 停止 worker，删除工作目录和 cgroup
func (a *app) Close() {
	if a.judge != nil {
		a.judge.Close()
	}
	if a.workDir != nil {
		if err := a.workDir.Close(); err != nil {
			a.logger.Warn("Failed to remove work dir", zap.String("path", a.workDir.Path()), zap.Error(err))
		}
	}
	if a.pool != nil {
		a.pool.Destroy()
	}
}
