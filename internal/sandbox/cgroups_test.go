package sandbox

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 用普通目录模拟 cgroup 文件系统，只验证写入的内容
func TestCgroupManager_WritesControlFiles(t *testing.T) {
	root := t.TempDir()
	cg, err := NewCgroupManager(root, "judger_0")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "judger_0"), cg.RootPath)

	require.NoError(t, cg.SetMemoryLimit(256*1024*1024))
	require.NoError(t, cg.SetCPULimit(50))
	require.NoError(t, cg.AddProcess(4242))

	read := func(name string) string {
		b, err := os.ReadFile(filepath.Join(cg.RootPath, name))
		require.NoError(t, err)
		return string(b)
	}
	assert.Equal(t, "268435456", read("memory.max"))
	assert.Equal(t, "50000 100000", read("cpu.max"))

	pids, err := cg.Procs()
	require.NoError(t, err)
	assert.Equal(t, []int{4242}, pids)

	require.NoError(t, cg.SetMemoryLimit(0))
	assert.Equal(t, "max", read("memory.max"))
}

func TestCgroupManager_MemoryUsage(t *testing.T) {
	cg, err := NewCgroupManager(t.TempDir(), "judger_1")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(cg.RootPath, "memory.current"), []byte("12345\n"), 0644))

	usage, err := cg.GetMemoryUsage()
	require.NoError(t, err)
	assert.Equal(t, int64(12345), usage)
}

func TestCgroupPool_AcquireRelease(t *testing.T) {
	root := t.TempDir()
	p, err := NewCgroupPool(root, 2, "judger")
	require.NoError(t, err)
	assert.Equal(t, 2, p.Size())

	a := p.Acquire()
	b := p.Acquire()
	assert.NotEqual(t, a.Name, b.Name)

	p.Release(a)
	c := p.Acquire()
	assert.Equal(t, a.Name, c.Name)
	p.Release(b)
	p.Release(c)

	_, err = NewCgroupPool(root, 0, "judger")
	assert.Error(t, err)
}
