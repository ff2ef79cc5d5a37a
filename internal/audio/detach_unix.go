//go:build unix

package audio

import (
	"os/exec"
	"syscall"
)

// detach moves cmd into its own process group so terminal signals reach
// only this program.
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}
