//go:build linux

package sandbox

import (
	"os/exec"
	"syscall"
)

// Isolate 让求解器在独立的命名空间里运行。
// 求解器只读写工作目录里的文件，不需要网络，所以这里连网络一起隔离。
// 需要 root 权限。
func Isolate(cmd *exec.Cmd) error {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Cloneflags = syscall.CLONE_NEWUTS | // 主机名隔离
		syscall.CLONE_NEWPID | // PID 隔离
		syscall.CLONE_NEWNET | // 网络隔离 (无网络)
		syscall.CLONE_NEWIPC // IPC 隔离
	// 父进程退出时结束求解器
	cmd.SysProcAttr.Pdeathsig = syscall.SIGKILL

	cmd.Env = []string{"PATH=/bin:/usr/bin", "HOME=/"}
	return nil
}
