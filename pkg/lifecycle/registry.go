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

// Package lifecycle owns the process-level concerns the session layer
// does not: which worker strategy runs the accept loops (stdio, a
// re-exec'd process pool, or an in-process goroutine pool), signal
// handling, the PID file, and the shared state those strategies all
// read and write.
package lifecycle

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Handle identifies one live worker (a forked process or a pool
// goroutine) so the registry can track and later stop it.
type Handle struct {
	ID uuid.UUID
}

// Registry holds the three pieces of process-wide mutable state every
// worker strategy shares: the set of live worker handles, the count of
// running threads (guarded by the same mutex, since growing the pool
// means consulting both together), and a termination-requested flag
// workers poll between connections so a shutdown can drain in-flight
// sessions instead of severing them.
type Registry struct {
	mu      sync.Mutex
	workers map[uuid.UUID]Handle
	threads int

	terminating atomic.Bool
}

// NewRegistry returns an empty Registry ready to track workers.
func NewRegistry() *Registry {
	return &Registry{workers: make(map[uuid.UUID]Handle)}
}

// Register adds a new worker handle and increments the thread count.
func (r *Registry) Register() Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	h := Handle{ID: uuid.New()}
	r.workers[h.ID] = h
	r.threads++
	return h
}

// Unregister removes a worker handle and decrements the thread count.
func (r *Registry) Unregister(h Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.workers[h.ID]; ok {
		delete(r.workers, h.ID)
		r.threads--
	}
}

// ThreadCount reports how many workers are currently registered.
func (r *Registry) ThreadCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.threads
}

// RequestTermination sets the cooperative shutdown flag. Workers observe
// it between connections and exit their accept loop; the LWPS handler
// also checks it between the requests of one connection, never in the
// middle of a request.
func (r *Registry) RequestTermination() {
	r.terminating.Store(true)
}

// IsTerminating reports whether shutdown has been requested.
func (r *Registry) IsTerminating() bool {
	return r.terminating.Load()
}
