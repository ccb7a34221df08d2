/*
 * MIT License
 *
 * Copyright (c) 2022 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package lifecycle

import (
	"os"
	"os/exec"
	"syscall"

	liberr "github.com/fschiettecatte/mps/pkg/errors"
)

// DaemonEnv marks a re-exec'd process as already detached, the same way
// WorkerFDFlag marks a re-exec'd forked-pool child: Go has no fork(), so
// daemonizing means re-executing the binary in a new session with stdio
// redirected, rather than the traditional double-fork-and-setsid done in
// place.
const DaemonEnv = "MPS_DAEMONIZED=1"

// IsDaemonized reports whether this process already re-exec'd itself
// into a detached session.
func IsDaemonized() bool {
	for _, e := range os.Environ() {
		if e == DaemonEnv {
			return true
		}
	}
	return false
}

// Daemonize re-execs the running binary with stdio redirected to
// /dev/null and DaemonEnv set, then exits the calling process. The
// caller's main() should check IsDaemonized() first and skip this
// entirely for a process that is already detached (or that never asked
// to be, per `--daemon`).
func Daemonize() liberr.Error {
	devNull, err := os.OpenFile(os.DevNull, os.O_RDWR, 0)
	if err != nil {
		return CodeDaemonizeFailed.Error(err)
	}
	defer devNull.Close()

	exe, err := os.Executable()
	if err != nil {
		return CodeDaemonizeFailed.Error(err)
	}

	cmd := exec.Command(exe, os.Args[1:]...)
	cmd.Env = append(os.Environ(), DaemonEnv)
	cmd.Stdin = devNull
	cmd.Stdout = devNull
	cmd.Stderr = devNull
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		return CodeDaemonizeFailed.Error(err)
	}

	os.Exit(0)
	return nil
}
