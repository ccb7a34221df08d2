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
	"os/user"
	"strconv"

	liberr "github.com/fschiettecatte/mps/pkg/errors"
	"golang.org/x/sys/unix"
)

// DropPrivileges switches the calling process's effective group and user
// to username (spec.md §6, `--user`: requires super-user to change).
// Sockets must already be bound before calling this, since binding a
// port <= 1024 itself requires the privilege being dropped. A blank
// username is a no-op.
func DropPrivileges(username string) liberr.Error {
	if username == "" {
		return nil
	}

	u, err := user.Lookup(username)
	if err != nil {
		return CodePrivilegeDropFailed.Error(err)
	}

	gid, err := strconv.Atoi(u.Gid)
	if err != nil {
		return CodePrivilegeDropFailed.Error(err)
	}
	if err := unix.Setgid(gid); err != nil {
		return CodePrivilegeDropFailed.Error(err)
	}

	uid, err := strconv.Atoi(u.Uid)
	if err != nil {
		return CodePrivilegeDropFailed.Error(err)
	}
	if err := unix.Setuid(uid); err != nil {
		return CodePrivilegeDropFailed.Error(err)
	}

	return nil
}
