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

package config

import (
	"github.com/fsnotify/fsnotify"

	liberr "github.com/fschiettecatte/mps/pkg/errors"
	"github.com/fschiettecatte/mps/pkg/logger"
)

// DirectoryWatcher watches --configuration-directory for changes and
// invokes onChange whenever a file inside it is written, created, or
// removed, so a running mpsd can be told to re-validate its
// configuration overlay without a restart (spec.md §6,
// --configuration-directory). It does not reload the ServerConfig
// itself — that stays the caller's decision, typically re-running
// LoadServerConfig and comparing the result.
type DirectoryWatcher struct {
	watcher *fsnotify.Watcher
	log     logger.Logger
	done    chan struct{}
}

// WatchDirectory starts watching dir. A blank dir is a no-op that
// returns a DirectoryWatcher whose Close is safe to call.
func WatchDirectory(dir string, log logger.Logger, onChange func(event string, path string)) (*DirectoryWatcher, liberr.Error) {
	if dir == "" {
		return &DirectoryWatcher{}, nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, CodeConfigWatchFailed.Error(err)
	}
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, CodeConfigWatchFailed.Error(err)
	}

	dw := &DirectoryWatcher{watcher: w, log: log, done: make(chan struct{})}

	go func() {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if onChange != nil {
					onChange(ev.Op.String(), ev.Name)
				}
				if log != nil {
					log.Info("configuration directory changed", logger.Fields{"op": ev.Op.String(), "path": ev.Name})
				}
			case werr, ok := <-w.Errors:
				if !ok {
					return
				}
				if log != nil {
					log.Warning("configuration directory watch error", logger.Fields{"error": werr.Error()})
				}
			case <-dw.done:
				return
			}
		}
	}()

	return dw, nil
}

// Close stops the watch goroutine and releases the underlying fsnotify
// watcher. Safe to call on the zero-dir no-op watcher.
func (dw *DirectoryWatcher) Close() liberr.Error {
	if dw.watcher == nil {
		return nil
	}
	close(dw.done)
	if err := dw.watcher.Close(); err != nil {
		return CodeConfigWatchFailed.Error(err)
	}
	return nil
}
