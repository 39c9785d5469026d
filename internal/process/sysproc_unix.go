//go:build !windows

package process

import (
	"errors"
	"os/exec"
	"syscall"
)

// setSysProcAttr places the subprocess in its own process group so an
// escalated kill can take its descendants down with it.
func setSysProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// interrupt asks the process to shut down cleanly. ffmpeg finalizes its
// output container on SIGINT, so this must come before any hard kill.
func (p *Proc) interrupt() error {
	return p.cmd.Process.Signal(syscall.SIGINT)
}

// forceKill terminates the whole process group, so descendants holding the
// output pipes go down too instead of delaying the completion signal.
func (p *Proc) forceKill() error {
	err := syscall.Kill(-p.cmd.Process.Pid, syscall.SIGKILL)
	if err == nil || errors.Is(err, syscall.ESRCH) {
		return nil
	}
	return p.cmd.Process.Kill()
}
