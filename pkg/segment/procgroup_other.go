//go:build !unix

package segment

import "os/exec"

//killProcessGroupOnCancel keeps the default cancellation, only the direct child is killed
func killProcessGroupOnCancel(cmd *exec.Cmd) {}
