//go:build !linux

package sandbox

import (
	"errors"
	"os/exec"
)

var ErrUnsupported = errors.New("sandbox requires linux")

func Isolate(*exec.Cmd) error {
	return ErrUnsupported
}
