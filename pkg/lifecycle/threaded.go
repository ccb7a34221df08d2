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
	"context"
	"time"

	"github.com/fschiettecatte/mps/pkg/dispatch"
	liberr "github.com/fschiettecatte/mps/pkg/errors"
	"github.com/fschiettecatte/mps/pkg/logger"
	"github.com/fschiettecatte/mps/pkg/session"
	"github.com/fschiettecatte/mps/pkg/transport"
)

// supervisorTick is how often ThreadedPool wakes to count live workers
// and top the pool back up to its target size.
const supervisorTick = 100 * time.Millisecond

// ThreadedPool runs Threads goroutines, each an independent
// session.Worker accepting off the same Listener — Go's native unit of
// concurrency standing in for the original's detached OS threads. A
// supervisor loop replaces any worker that exits, paced by
// StartupInterval the same way the initial launch is.
type ThreadedPool struct {
	Listener        transport.Listener
	Table           dispatch.Table
	Log             logger.Logger
	Registry        *Registry
	Threads         int
	StartupInterval time.Duration
	MaxSessions     int
	AcceptTimeout   time.Duration
}

func (p *ThreadedPool) spawn(ctx context.Context) {
	h := p.Registry.Register()
	go func() {
		defer p.Registry.Unregister(h)
		w := &session.Worker{
			Listener:      p.Listener,
			Table:         p.Table,
			Log:           p.Log,
			MaxSessions:   p.MaxSessions,
			AcceptTimeout: p.AcceptTimeout,
			IsTerminating: p.Registry.IsTerminating,
		}
		if err := w.Run(ctx); err != nil && p.Log != nil {
			p.Log.Error("worker thread exited with error", logger.Fields{"error": err.Error()})
		}
	}()
}

func (p *ThreadedPool) pace() {
	if p.StartupInterval > 0 {
		time.Sleep(p.StartupInterval)
	}
}

// Run launches the pool and supervises it until termination is
// requested. It returns once every worker has exited.
func (p *ThreadedPool) Run(ctx context.Context) liberr.Error {
	for i := 0; i < p.Threads; i++ {
		p.spawn(ctx)
		p.pace()
	}

	ticker := time.NewTicker(supervisorTick)
	defer ticker.Stop()

	for {
		if p.Registry.IsTerminating() {
			return p.drain()
		}
		<-ticker.C
		if p.Registry.IsTerminating() {
			return p.drain()
		}
		for p.Registry.ThreadCount() < p.Threads {
			p.spawn(ctx)
			p.pace()
		}
	}
}

// drain waits for the already-registered workers to finish their
// current client and exit, polling the registry's thread count.
func (p *ThreadedPool) drain() liberr.Error {
	for p.Registry.ThreadCount() > 0 {
		time.Sleep(supervisorTick)
	}
	return nil
}
