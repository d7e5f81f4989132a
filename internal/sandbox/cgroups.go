package sandbox

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultCgroupRoot cgroup v2 默认挂载点
const DefaultCgroupRoot = "/sys/fs/cgroup"

// CgroupManager 管理一个 Cgroup V2 子组
type CgroupManager struct {
	RootPath string
	Name     string
}

func NewCgroupManager(root, name string) (*CgroupManager, error) {
	if root == "" {
		root = DefaultCgroupRoot
	}
	path := filepath.Join(root, name)

	// 上次运行残留的空组直接删掉重建 (有进程时删除会失败，忽略)
	if _, err := os.Stat(path); err == nil {
		_ = os.Remove(path)
	}

	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cgroup directory: %w", err)
	}

	return &CgroupManager{
		RootPath: path,
		Name:     name,
	}, nil
}

// SetMemoryLimit 设置内存限制 (bytes)，limitBytes <= 0 表示不限制
func (c *CgroupManager) SetMemoryLimit(limitBytes int64) error {
	value := "max"
	if limitBytes > 0 {
		value = strconv.FormatInt(limitBytes, 10)
	}
	return c.write("memory.max", value)
}

// SetCPULimit 设置 CPU 限制 (quota/period)
// cpuPercent: 100 表示 1 核
func (c *CgroupManager) SetCPULimit(cpuPercent int) error {
	const period = 100000
	quota := period * cpuPercent / 100
	return c.write("cpu.max", fmt.Sprintf("%d %d", quota, period))
}

// AddProcess 将进程加入 cgroup
func (c *CgroupManager) AddProcess(pid int) error {
	return c.write("cgroup.procs", strconv.Itoa(pid))
}

// Procs 返回组内仍在运行的进程
func (c *CgroupManager) Procs() ([]int, error) {
	content, err := os.ReadFile(filepath.Join(c.RootPath, "cgroup.procs"))
	if err != nil {
		return nil, err
	}
	var pids []int
	for _, field := range strings.Fields(string(content)) {
		pid, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("parse cgroup.procs: %w", err)
		}
		pids = append(pids, pid)
	}
	return pids, nil
}

// Kill 结束组内所有进程 (cgroup.kill, 内核 5.14+)
func (c *CgroupManager) Kill() error {
	err := c.write("cgroup.kill", "1")
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// GetMemoryUsage 获取当前内存使用量
func (c *CgroupManager) GetMemoryUsage() (int64, error) {
	content, err := os.ReadFile(filepath.Join(c.RootPath, "memory.current"))
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(strings.TrimSpace(string(content)), 10, 64)
}

// Destroy 清理 cgroup
func (c *CgroupManager) Destroy() error {
	_ = c.Kill()
	return os.Remove(c.RootPath)
}

func (c *CgroupManager) write(file, value string) error {
	return os.WriteFile(filepath.Join(c.RootPath, file), []byte(value), 0644)
}
