package runner

import (
	"fmt"
	"os"
)

// WorkDir 求解器的工作目录，服务启动时创建一次，所有临时文件都放在这里
type WorkDir struct {
	path string
}

// NewWorkDir 在 parent 下创建唯一的工作目录 (parent 为空时使用系统临时目录)
func NewWorkDir(parent string) (*WorkDir, error) {
	if parent != "" {
		if err := os.MkdirAll(parent, 0755); err != nil {
			return nil, fmt.Errorf("create work dir parent: %w", err)
		}
	}
	dir, err := os.MkdirTemp(parent, "datalog")
	if err != nil {
		return nil, fmt.Errorf("create work dir: %w", err)
	}
	return &WorkDir{path: dir}, nil
}

// Path 工作目录路径
func (w *WorkDir) Path() string {
	return w.path
}

// CreateTemp 创建 <prefix>*<ext> 形式的临时文件
func (w *WorkDir) CreateTemp(prefix, ext string) (*os.File, error) {
	return os.CreateTemp(w.path, prefix+"*"+ext)
}

// Close 删除工作目录及其中残留的文件
func (w *WorkDir) Close() error {
	return os.RemoveAll(w.path)
}
