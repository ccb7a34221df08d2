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
	"net"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	liberr "github.com/fschiettecatte/mps/pkg/errors"
	"github.com/fschiettecatte/mps/pkg/logger"
	"golang.org/x/sys/unix"
)

// WorkerFDFlag marks a re-exec'd worker process: the flag's value is the
// file descriptor number (always 3, the first entry of exec.Cmd.ExtraFiles)
// a child should rebuild its shared listener from, instead of binding its
// own socket.
const WorkerFDFlag = "--mps-worker-fd="

// workerFD is the fixed descriptor number a forked worker's inherited
// listener arrives on: fd 0-2 are stdio, ExtraFiles starts at 3.
const workerFD = 3

// ParseWorkerFD scans args for WorkerFDFlag and reports the descriptor
// number it carries. Absent the flag, the process is the pool parent.
func ParseWorkerFD(args []string) (fd int, ok bool) {
	for _, a := range args {
		if strings.HasPrefix(a, WorkerFDFlag) {
			n, err := strconv.Atoi(strings.TrimPrefix(a, WorkerFDFlag))
			if err != nil {
				return 0, false
			}
			return n, true
		}
	}
	return 0, false
}

// ListenerFromWorkerFD reconstructs the net.Listener a forked worker
// inherited from its parent on the given descriptor.
func ListenerFromWorkerFD(fd int) (net.Listener, liberr.Error) {
	f := os.NewFile(uintptr(fd), "mps-worker-listener")
	if f == nil {
		return nil, CodeInvalidWorkerFD.Error()
	}
	ln, err := net.FileListener(f)
	if err != nil {
		return nil, CodeInvalidWorkerFD.Error(err)
	}
	return ln, nil
}

// OpenSharedListener binds addr once in the parent and returns the
// *os.File duplicate that exec.Cmd.ExtraFiles passes down to every child;
// the parent's own net.Listener is closed before returning.
func OpenSharedListener(addr string) (*os.File, liberr.Error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, CodeListenerShareFailed.Error(err)
	}
	tcpLn, ok := ln.(*net.TCPListener)
	if !ok {
		return nil, CodeListenerShareFailed.Errorf("listener for %s is not TCP", addr)
	}
	f, ferr := tcpLn.File()
	if ferr != nil {
		return nil, CodeListenerShareFailed.Error(ferr)
	}
	// The dup'd file keeps the socket alive independently of tcpLn; the
	// parent process never accepts on it itself.
	if cerr := tcpLn.Close(); cerr != nil {
		return nil, CodeListenerShareFailed.Error(cerr)
	}
	return f, nil
}

type forkedChild struct {
	handle Handle
	cmd    *exec.Cmd
}

// ForkedPool re-execs the running binary Children times, each child
// inheriting ListenerFile via ExtraFiles and the WorkerFDFlag marker
// appended to BaseArgs. The parent reaps exited children (FIFO
// replacement) and respawns, paced by StartupInterval.
type ForkedPool struct {
	Children        int
	StartupInterval time.Duration
	Registry        *Registry
	Log             logger.Logger
	ListenerFile    *os.File
	BaseArgs        []string

	mu       sync.Mutex
	children map[int]*forkedChild
}

func (p *ForkedPool) pace() {
	if p.StartupInterval > 0 {
		time.Sleep(p.StartupInterval)
	}
}

func (p *ForkedPool) spawnOne() liberr.Error {
	exe, err := os.Executable()
	if err != nil {
		return CodeWorkerSpawnFailed.Error(err)
	}

	args := make([]string, 0, len(p.BaseArgs)+1)
	args = append(args, p.BaseArgs...)
	args = append(args, fmt.Sprintf("%s%d", WorkerFDFlag, workerFD))

	cmd := exec.Command(exe, args...)
	cmd.ExtraFiles = []*os.File{p.ListenerFile}
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return CodeWorkerSpawnFailed.Error(err)
	}

	h := p.Registry.Register()
	p.mu.Lock()
	p.children[cmd.Process.Pid] = &forkedChild{handle: h, cmd: cmd}
	p.mu.Unlock()
	return nil
}

// Run launches Children worker processes and supervises them until
// termination is requested, at which point every live child is sent
// SIGTERM and Run returns once the registry drains to zero.
func (p *ForkedPool) Run() liberr.Error {
	p.children = make(map[int]*forkedChild)

	for i := 0; i < p.Children; i++ {
		if err := p.spawnOne(); err != nil {
			return err
		}
		p.pace()
	}

	for {
		if p.Registry.IsTerminating() {
			p.terminateAll()
			return p.drain()
		}

		var status unix.WaitStatus
		pid, err := unix.Wait4(-1, &status, unix.WNOHANG, nil)
		if err != nil || pid <= 0 {
			time.Sleep(supervisorTick)
			continue
		}

		p.mu.Lock()
		c, known := p.children[pid]
		if known {
			delete(p.children, pid)
		}
		p.mu.Unlock()
		if !known {
			continue
		}
		p.Registry.Unregister(c.handle)

		if p.Log != nil {
			p.Log.Warning("worker process exited, respawning", logger.Fields{"pid": pid})
		}
		if err := p.spawnOne(); err != nil {
			return err
		}
		p.pace()
	}
}

func (p *ForkedPool) terminateAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for pid := range p.children {
		_ = unix.Kill(pid, unix.SIGTERM)
	}
}

func (p *ForkedPool) drain() liberr.Error {
	for p.Registry.ThreadCount() > 0 {
		var status unix.WaitStatus
		pid, err := unix.Wait4(-1, &status, unix.WNOHANG, nil)
		if err != nil || pid <= 0 {
			time.Sleep(supervisorTick)
			continue
		}
		p.mu.Lock()
		c, known := p.children[pid]
		delete(p.children, pid)
		p.mu.Unlock()
		if known {
			p.Registry.Unregister(c.handle)
		}
	}
	return nil
}
