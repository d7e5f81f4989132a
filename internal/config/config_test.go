package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// Load 会读取当前目录的 .env，测试在临时目录里运行
func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 50053, cfg.Server.Port)
	assert.Equal(t, 100, cfg.Server.QueueSize)
	assert.Equal(t, "0", cfg.Solver.FactEncodingSuffix)
	assert.Equal(t, 10*time.Second, cfg.Solver.Timeout())
	assert.Equal(t, "tasks.yaml", cfg.Tasks.File)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, cfg.Server.Workers*cfg.Solver.QueryParallelism, cfg.Sandbox.PoolSize)
	assert.NotEmpty(t, cfg.Solver.Executable)
}

func TestLoad_File(t *testing.T) {
	chdirTemp(t)
	path := writeConfig(t, `
server:
  port: 6000
  workers: 2
solver:
  executable: /opt/dlv/dlv
  max_execution_time: 3
  fact_encoding_suffix: "_x"
tasks:
  file: /etc/judger/tasks.yaml
log:
  level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 6000, cfg.Server.Port)
	assert.Equal(t, ":6000", cfg.Server.Addr())
	assert.Equal(t, "/opt/dlv/dlv", cfg.Solver.Executable)
	assert.Equal(t, 3*time.Second, cfg.Solver.Timeout())
	assert.Equal(t, "_x", cfg.Solver.FactEncodingSuffix)
	assert.Equal(t, "/etc/judger/tasks.yaml", cfg.Tasks.File)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdirTemp(t)
	path := writeConfig(t, "server:\n  port: 6000\n")
	t.Setenv("JUDGER_SERVER_PORT", "7000")
	t.Setenv("JUDGER_SOLVER_EXECUTABLE", "/usr/local/bin/dlv")
	t.Setenv("JUDGER_REDIS_ENABLED", "true")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "/usr/local/bin/dlv", cfg.Solver.Executable)
	assert.True(t, cfg.Redis.Enabled)
}

func TestLoad_DotEnv(t *testing.T) {
	chdirTemp(t)
	require.NoError(t, os.WriteFile(".env", []byte("JUDGER_SOLVER_MAX_EXECUTION_TIME=42\n"), 0644))
	// godotenv 设置的变量在测试结束后清理
	t.Cleanup(func() { _ = os.Unsetenv("JUDGER_SOLVER_MAX_EXECUTION_TIME") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 42*time.Second, cfg.Solver.Timeout())
}

func TestLoad_Invalid(t *testing.T) {
	chdirTemp(t)

	_, err := Load(writeConfig(t, "log:\n  level: verbose\n"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "server:\n  port: 70000\n"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "server: [\n"))
	assert.Error(t, err)

	t.Setenv("JUDGER_SERVER_PORT", "abc")
	_, err = Load("")
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDefaultExecutable(t *testing.T) {
	assert.Equal(t, filepath.Join("bin", "dlv-linux.bin"), DefaultExecutable("linux"))
	assert.Equal(t, filepath.Join("bin", "dlv-mac-m1"), DefaultExecutable("darwin"))
	assert.Equal(t, filepath.Join("bin", "dlv-windows.exe"), DefaultExecutable("windows"))
}
