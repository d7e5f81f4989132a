package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config 总配置结构
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Redis   RedisConfig   `yaml:"redis"`
	Solver  SolverConfig  `yaml:"solver"`
	Sandbox SandboxConfig `yaml:"sandbox"`
	Tasks   TasksConfig   `yaml:"tasks"`
	Metrics MetricsConfig `yaml:"metrics"`
	Log     LogConfig     `yaml:"log"`
}

// ServerConfig 服务端配置
type ServerConfig struct {
	Host      string `yaml:"host"` // 注册到 Redis 的地址
	Port      int    `yaml:"port" validate:"min=1,max=65535"`
	Workers   int    `yaml:"workers" validate:"min=1"`
	QueueSize int    `yaml:"queue_size" validate:"min=1"`
}

// RedisConfig Redis 配置 (服务发现)
type RedisConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Addr      string `yaml:"addr" validate:"required_if=Enabled true"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db" validate:"min=0"`
	Heartbeat int    `yaml:"heartbeat"` // seconds
}

// SolverConfig 求解器配置
type SolverConfig struct {
	// Executable 为空时按操作系统选择 bin/ 下的求解器
	Executable       string `yaml:"executable"`
	MaxExecutionTime int    `yaml:"max_execution_time" validate:"min=1"` // seconds
	// FactEncodingSuffix 正式提交时追加到事实参数后的后缀
	FactEncodingSuffix string `yaml:"fact_encoding_suffix" validate:"required"`
	WorkDir            string `yaml:"work_dir"`
	QueryParallelism   int    `yaml:"query_parallelism" validate:"min=1"`
}

// SandboxConfig 沙箱配置
type SandboxConfig struct {
	Enabled     bool   `yaml:"enabled"`
	CgroupRoot  string `yaml:"cgroup_root"`
	CgroupName  string `yaml:"cgroup_name"`
	PoolSize    int    `yaml:"pool_size" validate:"min=0"`
	MemoryLimit int64  `yaml:"memory_limit"` // MB
}

// TasksConfig 题目目录
type TasksConfig struct {
	File string `yaml:"file" validate:"required"`
}

// MetricsConfig 为空时不开启 /metrics
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level       string `yaml:"level" validate:"oneof=debug info warn error"`
	Development bool   `yaml:"development"`
}

var validate = validator.New()

// Load 加载配置文件 (path 为空时只使用默认值)，然后用 .env 与 JUDGER_* 环境变量覆盖
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// .env 不存在不算错误
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	cfg.setDefaults()

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) setDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "127.0.0.1"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 50053
	}
	if c.Server.Workers == 0 {
		c.Server.Workers = runtime.NumCPU()
	}
	if c.Server.QueueSize == 0 {
		c.Server.QueueSize = 100
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
	if c.Redis.Heartbeat == 0 {
		c.Redis.Heartbeat = 5
	}
	if c.Solver.Executable == "" {
		c.Solver.Executable = DefaultExecutable(runtime.GOOS)
	}
	if c.Solver.MaxExecutionTime == 0 {
		c.Solver.MaxExecutionTime = 10
	}
	if c.Solver.FactEncodingSuffix == "" {
		c.Solver.FactEncodingSuffix = "0"
	}
	if c.Solver.WorkDir == "" {
		c.Solver.WorkDir = os.TempDir()
	}
	if c.Solver.QueryParallelism == 0 {
		c.Solver.QueryParallelism = 4
	}
	if c.Sandbox.CgroupRoot == "" {
		c.Sandbox.CgroupRoot = "/sys/fs/cgroup"
	}
	if c.Sandbox.CgroupName == "" {
		c.Sandbox.CgroupName = "logic_judger"
	}
	if c.Sandbox.PoolSize == 0 {
		c.Sandbox.PoolSize = c.Server.Workers * c.Solver.QueryParallelism
	}
	if c.Sandbox.MemoryLimit == 0 {
		c.Sandbox.MemoryLimit = 512
	}
	if c.Tasks.File == "" {
		c.Tasks.File = "tasks.yaml"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// DefaultExecutable 随发行包附带的求解器
func DefaultExecutable(goos string) string {
	switch goos {
	case "windows":
		return filepath.Join("bin", "dlv-windows.exe")
	case "darwin":
		return filepath.Join("bin", "dlv-mac-m1")
	default:
		return filepath.Join("bin", "dlv-linux.bin")
	}
}

// ExecutablePath 求解器的绝对路径 (求解器在工作目录里运行，相对路径会失效)
func (s SolverConfig) ExecutablePath() (string, error) {
	return filepath.Abs(s.Executable)
}

// Timeout 单次求解器运行的时限
func (s SolverConfig) Timeout() time.Duration {
	return time.Duration(s.MaxExecutionTime) * time.Second
}

// Addr gRPC 监听地址
func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

func applyEnv(cfg *Config) error {
	strs := map[string]*string{
		"JUDGER_SERVER_HOST":                 &cfg.Server.Host,
		"JUDGER_REDIS_ADDR":                  &cfg.Redis.Addr,
		"JUDGER_REDIS_PASSWORD":              &cfg.Redis.Password,
		"JUDGER_SOLVER_EXECUTABLE":           &cfg.Solver.Executable,
		"JUDGER_SOLVER_FACT_ENCODING_SUFFIX": &cfg.Solver.FactEncodingSuffix,
		"JUDGER_SOLVER_WORK_DIR":             &cfg.Solver.WorkDir,
		"JUDGER_TASKS_FILE":                  &cfg.Tasks.File,
		"JUDGER_METRICS_ADDR":                &cfg.Metrics.Addr,
		"JUDGER_LOG_LEVEL":                   &cfg.Log.Level,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"JUDGER_SERVER_PORT":               &cfg.Server.Port,
		"JUDGER_SERVER_WORKERS":            &cfg.Server.Workers,
		"JUDGER_SOLVER_MAX_EXECUTION_TIME": &cfg.Solver.MaxExecutionTime,
	}
	for key, dst := range ints {
		v, ok := os.LookupEnv(key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = n
	}

	bools := map[string]*bool{
		"JUDGER_REDIS_ENABLED":   &cfg.Redis.Enabled,
		"JUDGER_SANDBOX_ENABLED": &cfg.Sandbox.Enabled,
	}
	for key, dst := range bools {
		v, ok := os.LookupEnv(key)
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = b
	}
	return nil
}
