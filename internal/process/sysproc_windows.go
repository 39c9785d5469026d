//go:build windows

package process

import "os/exec"

// setSysProcAttr is a no-op: process groups are a POSIX notion.
func setSysProcAttr(cmd *exec.Cmd) {}

// interrupt falls back to a hard kill: Windows has no SIGINT delivery for
// arbitrary processes and os.Interrupt is not implemented there.
func (p *Proc) interrupt() error {
	return p.cmd.Process.Kill()
}

func (p *Proc) forceKill() error {
	return p.cmd.Process.Kill()
}
