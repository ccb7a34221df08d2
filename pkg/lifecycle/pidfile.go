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
	"fmt"
	"os"

	liberr "github.com/fschiettecatte/mps/pkg/errors"
)

// pidFilePerm matches the octal convention the rest of this codebase
// uses for its own on-disk artifacts: owner read/write, group and other
// read-only.
const pidFilePerm = os.FileMode(0o644)

// WritePIDFile records the current process ID at path. An empty path is
// a no-op: the PID file is optional (spec.md §6, --process-id-file).
func WritePIDFile(path string) liberr.Error {
	if path == "" {
		return nil
	}
	content := []byte(fmt.Sprintf("%d\n", os.Getpid()))
	if err := os.WriteFile(path, content, pidFilePerm); err != nil {
		return CodePIDFileWriteFailed.Error(err)
	}
	return nil
}

// RemovePIDFile removes the PID file written by WritePIDFile. Missing
// files are not an error: a normal exit may race a manual cleanup.
func RemovePIDFile(path string) liberr.Error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return CodePIDFileRemoveFailed.Error(err)
	}
	return nil
}
