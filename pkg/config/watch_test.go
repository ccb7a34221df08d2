package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fschiettecatte/mps/pkg/config"
)

func TestWatchDirectoryEmptyPathIsNoop(t *testing.T) {
	w, err := config.WatchDirectory("", nil, nil)
	if err != nil {
		t.Fatalf("WatchDirectory(\"\"): %v", err)
	}
	if cerr := w.Close(); cerr != nil {
		t.Fatalf("Close: %v", cerr)
	}
}

func TestWatchDirectoryNotifiesOnChange(t *testing.T) {
	dir := t.TempDir()

	changed := make(chan string, 1)
	w, err := config.WatchDirectory(dir, nil, func(op, path string) {
		select {
		case changed <- path:
		default:
		}
	})
	if err != nil {
		t.Fatalf("WatchDirectory: %v", err)
	}
	defer w.Close()

	target := filepath.Join(dir, "overlay.yaml")
	if werr := os.WriteFile(target, []byte("key: value"), 0o644); werr != nil {
		t.Fatalf("WriteFile: %v", werr)
	}

	select {
	case path := <-changed:
		if path != target {
			t.Fatalf("notified path = %q, want %q", path, target)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a configuration directory change notification")
	}
}
