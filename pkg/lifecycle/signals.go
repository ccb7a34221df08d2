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
	"os/signal"
	"syscall"

	"github.com/fschiettecatte/mps/pkg/logger"
	"golang.org/x/sys/unix"
)

// SignalPolicy installs the process's signal disposition. It is only
// ever called from the main goroutine of the main process — a forked
// worker re-execs into its own process image and installs its own copy,
// a threaded-pool worker goroutine never touches signals at all.
type SignalPolicy struct {
	Registry *Registry
	Log      logger.Logger

	// PoolMode is true for the forked pool's parent process, where
	// SIGCHLD must keep its default disposition so the supervisor loop's
	// own reaping (unix.Wait4) observes children exiting; processes that
	// spawn no children (the threaded pool, a forked worker) set it false
	// and ignore SIGCHLD. The stdio strategy installs no SignalPolicy.
	PoolMode bool

	// Shutdown is invoked once, synchronously, before a fatal signal is
	// re-raised with its default disposition.
	Shutdown func()

	ch chan os.Signal
}

// Install starts handling signals and returns a stop function. SIGHUP is
// ignored outright (spec.md §4.8: no configuration reload). SIGTERM and
// SIGINT request cooperative termination. Fatal signals (SIGQUIT, SIGABRT)
// run Shutdown then restore the default disposition and re-raise
// themselves so the process dies with the expected signal/core-dump
// semantics.
func (p *SignalPolicy) Install() (stop func()) {
	signal.Ignore(unix.SIGHUP)

	if !p.PoolMode {
		signal.Ignore(unix.SIGCHLD)
	}

	p.ch = make(chan os.Signal, 8)
	signal.Notify(p.ch, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGABRT)

	done := make(chan struct{})
	go p.loop(done)

	return func() {
		signal.Stop(p.ch)
		close(p.ch)
		<-done
	}
}

func (p *SignalPolicy) loop(done chan struct{}) {
	defer close(done)
	for sig := range p.ch {
		switch sig {
		case os.Interrupt, syscall.SIGTERM:
			if p.Log != nil {
				p.Log.Info("termination requested", logger.Fields{"signal": sig.String()})
			}
			p.Registry.RequestTermination()
		case syscall.SIGQUIT, syscall.SIGABRT:
			if p.Log != nil {
				p.Log.Warning("fatal signal received, shutting down", logger.Fields{"signal": sig.String()})
			}
			if p.Shutdown != nil {
				p.Shutdown()
			}
			signal.Reset(sig)
			proc, err := os.FindProcess(os.Getpid())
			if err == nil {
				_ = proc.Signal(sig)
			}
			return
		}
	}
}
