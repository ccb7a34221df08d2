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
	"path/filepath"
	"strconv"
	"testing"
)

func TestRegistryTracksThreadCount(t *testing.T) {
	r := NewRegistry()
	if r.ThreadCount() != 0 {
		t.Fatalf("ThreadCount() = %d, want 0", r.ThreadCount())
	}

	h1 := r.Register()
	h2 := r.Register()
	if r.ThreadCount() != 2 {
		t.Fatalf("ThreadCount() = %d, want 2", r.ThreadCount())
	}

	r.Unregister(h1)
	if r.ThreadCount() != 1 {
		t.Fatalf("ThreadCount() = %d, want 1", r.ThreadCount())
	}

	r.Unregister(h2)
	if r.ThreadCount() != 0 {
		t.Fatalf("ThreadCount() = %d, want 0", r.ThreadCount())
	}
}

func TestRegistryUnregisterUnknownHandleIsNoop(t *testing.T) {
	r := NewRegistry()
	r.Register()
	r.Unregister(Handle{})
	if r.ThreadCount() != 1 {
		t.Fatalf("ThreadCount() = %d, want 1 after unregistering an unknown handle", r.ThreadCount())
	}
}

func TestRegistryTermination(t *testing.T) {
	r := NewRegistry()
	if r.IsTerminating() {
		t.Fatal("new registry should not be terminating")
	}
	r.RequestTermination()
	if !r.IsTerminating() {
		t.Fatal("expected IsTerminating() to be true after RequestTermination")
	}
}

func TestPIDFileWriteAndRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mpsd.pid")

	if err := WritePIDFile(path); err != nil {
		t.Fatalf("WritePIDFile: %v", err)
	}

	data, rerr := os.ReadFile(path)
	if rerr != nil {
		t.Fatalf("ReadFile: %v", rerr)
	}
	pid, perr := strconv.Atoi(string(data[:len(data)-1]))
	if perr != nil {
		t.Fatalf("PID file contents %q did not parse: %v", data, perr)
	}
	if pid != os.Getpid() {
		t.Fatalf("PID file contains %d, want %d", pid, os.Getpid())
	}

	if err := RemovePIDFile(path); err != nil {
		t.Fatalf("RemovePIDFile: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("PID file still present after RemovePIDFile")
	}
}

func TestPIDFileEmptyPathIsNoop(t *testing.T) {
	if err := WritePIDFile(""); err != nil {
		t.Fatalf("WritePIDFile(\"\"): %v", err)
	}
	if err := RemovePIDFile(""); err != nil {
		t.Fatalf("RemovePIDFile(\"\"): %v", err)
	}
}

func TestPIDFileRemoveMissingIsNotAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.pid")
	if err := RemovePIDFile(path); err != nil {
		t.Fatalf("RemovePIDFile of a missing file: %v", err)
	}
}

func TestParseWorkerFD(t *testing.T) {
	fd, ok := ParseWorkerFD([]string{"mpsd", "--socket=tcp::9000", "--mps-worker-fd=3"})
	if !ok {
		t.Fatal("expected ParseWorkerFD to find the marker")
	}
	if fd != 3 {
		t.Fatalf("fd = %d, want 3", fd)
	}

	if _, ok := ParseWorkerFD([]string{"mpsd", "--socket=tcp::9000"}); ok {
		t.Fatal("expected ParseWorkerFD to report no marker present")
	}
}

func TestDropPrivilegesEmptyUserIsNoop(t *testing.T) {
	if err := DropPrivileges(""); err != nil {
		t.Fatalf("DropPrivileges(\"\"): %v", err)
	}
}

func TestDropPrivilegesUnknownUser(t *testing.T) {
	if err := DropPrivileges("mps-nonexistent-user-xyz"); err == nil {
		t.Fatal("expected an error looking up a nonexistent user")
	}
}

func TestIsDaemonizedReflectsEnv(t *testing.T) {
	if IsDaemonized() {
		t.Fatal("IsDaemonized() should be false in the test process")
	}
}
