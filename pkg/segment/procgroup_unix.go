//go:build unix

package segment

import (
	"os/exec"
	"syscall"
)

//killProcessGroupOnCancel starts cmd as the leader of a new process group and kills the whole group
//when its context is done
func killProcessGroupOnCancel(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
