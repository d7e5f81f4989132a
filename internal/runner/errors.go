package runner

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrIO 求解器无法启动，或临时文件无法读写
	ErrIO = errors.New("solver io failure")
	// ErrTimeout 求解器超出运行时限被强制结束
	ErrTimeout = errors.New("solver did not exit in time")
	// ErrExecution 求解器运行失败，但不是语法错误
	ErrExecution = errors.New("solver execution failed")
)

// SyntaxError 求解器拒绝了程序 (语法错误)。
// 这是唯一会被转换成普通评分结果的失败。
type SyntaxError struct {
	Output string
}

func (e *SyntaxError) Error() string {
	return "syntax error: " + e.Output
}

// IsSyntaxError 判断 err 链中是否有 *SyntaxError
func IsSyntaxError(err error) (*SyntaxError, bool) {
	var syntaxErr *SyntaxError
	if errors.As(err, &syntaxErr) {
		return syntaxErr, true
	}
	return nil, false
}

// classifyFailure 非零退出码：输出里出现占位文件名说明是语法错误
func classifyFailure(output string) error {
	if strings.Contains(output, PlaceholderName) {
		return &SyntaxError{Output: output}
	}
	return fmt.Errorf("%w: %s", ErrExecution, output)
}
