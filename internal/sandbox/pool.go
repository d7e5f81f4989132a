package sandbox

import (
	"fmt"
)

// CgroupPool 预先创建的 Cgroup 池，每个求解器进程占用一个
type CgroupPool struct {
	pool chan *CgroupManager
	all  []*CgroupManager
}

// NewCgroupPool 在 root 下创建 size 个名为 <prefix>_<i> 的 Cgroup
func NewCgroupPool(root string, size int, prefix string) (*CgroupPool, error) {
	if size < 1 {
		return nil, fmt.Errorf("cgroup pool size must be positive, got %d", size)
	}
	p := &CgroupPool{
		pool: make(chan *CgroupManager, size),
	}

	for i := 0; i < size; i++ {
		name := fmt.Sprintf("%s_%d", prefix, i)
		cg, err := NewCgroupManager(root, name)
		if err != nil {
			p.Destroy()
			return nil, fmt.Errorf("failed to init cgroup %s: %w", name, err)
		}
		p.all = append(p.all, cg)
		p.pool <- cg
	}

	return p, nil
}

// Acquire 获取一个 Cgroup，池空时阻塞
func (p *CgroupPool) Acquire() *CgroupManager {
	return <-p.pool
}

// Release 结束残留进程后归还
func (p *CgroupPool) Release(cg *CgroupManager) {
	if pids, err := cg.Procs(); err == nil && len(pids) > 0 {
		_ = cg.Kill()
	}
	p.pool <- cg
}

// Size 池容量
func (p *CgroupPool) Size() int {
	return cap(p.pool)
}

// Destroy 销毁池，调用前所有 Cgroup 必须已归还
func (p *CgroupPool) Destroy() {
	for _, cg := range p.all {
		_ = cg.Destroy()
	}
	p.all = nil
}
