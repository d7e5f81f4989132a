package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PlaceholderName 错误输出中替换临时文件绝对路径的名字
const PlaceholderName = "submission.dlv"

// 求解器参数
const (
	FlagSilent   = "-silent"
	FlagNoFacts  = "-nofacts"
	FlagCautious = "-cautious"
	FlagHelp     = "-help"
)

// Output 一次求解器运行的结果。
// ExitCode 为 0 时 Output 是标准输出，否则是错误输出。
type Output struct {
	Output   string
	ExitCode int
}

type Runner interface {
	Execute(ctx context.Context, input string, args ...string) (*Output, error)
}

// Option ProcessRunner 可选项
type Option func(*ProcessRunner)

// WithIsolation 为每次运行施加隔离
func WithIsolation(iso Isolation) Option {
	return func(r *ProcessRunner) {
		r.isolation = iso
	}
}

// ProcessRunner 以子进程方式运行求解器。
// 每次调用都在工作目录里写入独立的输入文件，互不干扰，可以并发使用。
type ProcessRunner struct {
	executable string
	timeout    time.Duration
	workDir    *WorkDir
	isolation  Isolation
	logger     *zap.Logger
}

func NewProcessRunner(executable string, timeout time.Duration, workDir *WorkDir, logger *zap.Logger, opts ...Option) *ProcessRunner {
	r := &ProcessRunner{
		executable: executable,
		timeout:    timeout,
		workDir:    workDir,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *ProcessRunner) Execute(ctx context.Context, input string, args ...string) (out *Output, err error) {
	start := time.Now()
	defer func() { observeRun(start, out, err) }()

	// 1. 准备临时文件：输入、标准输出、错误输出
	id := uuid.NewString()
	inputPath, err := r.writeInput(id, input)
	if err != nil {
		return nil, err
	}
	defer r.remove(inputPath)

	stdoutFile, err := r.workDir.CreateTemp(id, ".success")
	if err != nil {
		return nil, fmt.Errorf("%w: create output file: %v", ErrIO, err)
	}
	defer r.closeAndRemove(stdoutFile)

	stderrFile, err := r.workDir.CreateTemp(id, ".error")
	if err != nil {
		return nil, fmt.Errorf("%w: create error file: %v", ErrIO, err)
	}
	defer r.closeAndRemove(stderrFile)

	// 2. 组装命令
	argv := make([]string, 0, len(args)+2)
	argv = append(argv, FlagSilent)
	argv = append(argv, args...)
	argv = append(argv, inputPath)

	execCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(execCtx, r.executable, argv...)
	cmd.Dir = r.workDir.Path()
	cmd.Stdout = stdoutFile
	cmd.Stderr = stderrFile

	if r.isolation != nil {
		if err := r.isolation.Prepare(cmd); err != nil {
			return nil, fmt.Errorf("%w: prepare sandbox: %v", ErrIO, err)
		}
	}

	// 3. 启动进程
	r.logger.Debug("Executing solver", zap.String("executable", r.executable), zap.Strings("args", argv))
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: start %s: %v", ErrIO, r.executable, err)
	}

	if r.isolation != nil {
		release, err := r.isolation.Attach(cmd.Process.Pid)
		if err != nil {
			_ = cmd.Process.Kill()
			_ = cmd.Wait()
			return nil, fmt.Errorf("%w: attach sandbox: %v", ErrIO, err)
		}
		defer release()
	}

	// 4. 等待结束或超时
	waitErr := cmd.Wait()
	if errors.Is(execCtx.Err(), context.DeadlineExceeded) {
		r.logger.Warn("Solver did not exit in time, process killed", zap.Duration("timeout", r.timeout))
		return nil, fmt.Errorf("%w after %s", ErrTimeout, r.timeout)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExecution, err)
	}

	exitCode := 0
	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return nil, fmt.Errorf("%w: wait for solver: %v", ErrIO, waitErr)
		}
		exitCode = exitErr.ExitCode()
	}

	// 5. 读取输出
	if exitCode == 0 {
		data, err := os.ReadFile(stdoutFile.Name())
		if err != nil {
			return nil, fmt.Errorf("%w: read output: %v", ErrIO, err)
		}
		return &Output{Output: string(data)}, nil
	}

	data, err := os.ReadFile(stderrFile.Name())
	if err != nil {
		return nil, fmt.Errorf("%w: read error output: %v", ErrIO, err)
	}
	r.logger.Debug("Solver exited with non-zero code", zap.Int("exit_code", exitCode))
	return &Output{
		Output:   strings.ReplaceAll(string(data), inputPath, PlaceholderName),
		ExitCode: exitCode,
	}, nil
}

// writeInput 写入输入文件并返回其绝对路径
func (r *ProcessRunner) writeInput(id, input string) (string, error) {
	f, err := r.workDir.CreateTemp(id, ".dlv")
	if err != nil {
		return "", fmt.Errorf("%w: create input file: %v", ErrIO, err)
	}
	if _, err := f.WriteString(input); err != nil {
		_ = f.Close()
		r.remove(f.Name())
		return "", fmt.Errorf("%w: write input file: %v", ErrIO, err)
	}
	if err := f.Close(); err != nil {
		r.remove(f.Name())
		return "", fmt.Errorf("%w: close input file: %v", ErrIO, err)
	}
	path, err := filepath.Abs(f.Name())
	if err != nil {
		r.remove(f.Name())
		return "", fmt.Errorf("%w: resolve input file: %v", ErrIO, err)
	}
	return path, nil
}

func (r *ProcessRunner) closeAndRemove(f *os.File) {
	_ = f.Close()
	r.remove(f.Name())
}

func (r *ProcessRunner) remove(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		r.logger.Warn("Failed to remove temp file", zap.String("path", path), zap.Error(err))
	}
}
