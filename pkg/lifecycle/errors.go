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

import liberr "github.com/fschiettecatte/mps/pkg/errors"

const (
	CodePIDFileWriteFailed liberr.CodeError = liberr.MinPkgLifecycle + iota
	CodePIDFileRemoveFailed
	CodeWorkerSpawnFailed
	CodeListenerShareFailed
	CodeInvalidWorkerFD
	CodePrivilegeDropFailed
	CodeDaemonizeFailed
)

func init() {
	liberr.RegisterMessages(CodePIDFileWriteFailed, CodeDaemonizeFailed+1, func(code liberr.CodeError) string {
		switch code {
		case CodePIDFileWriteFailed:
			return "failed to write PID file"
		case CodePIDFileRemoveFailed:
			return "failed to remove PID file"
		case CodeWorkerSpawnFailed:
			return "failed to spawn worker process"
		case CodeListenerShareFailed:
			return "failed to share a listening socket with a forked worker"
		case CodeInvalidWorkerFD:
			return "the inherited worker file descriptor is invalid"
		case CodePrivilegeDropFailed:
			return "failed to drop privileges to the configured user"
		case CodeDaemonizeFailed:
			return "failed to detach from the controlling terminal"
		default:
			return liberr.UnknownMessage
		}
	})
}
