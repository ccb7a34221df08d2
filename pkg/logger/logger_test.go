package logger_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	liblog "github.com/fschiettecatte/mps/pkg/logger"
)

func TestLevelFiltering(t *testing.T) {
	buf := &bytes.Buffer{}
	l := liblog.New(buf, liblog.WarnLevel)

	l.Info("should not appear", nil)
	if buf.Len() != 0 {
		t.Fatalf("expected no output below configured level, got %q", buf.String())
	}

	l.Error("should appear", nil)
	if !strings.Contains(buf.String(), "should appear") {
		t.Fatalf("expected output to contain message, got %q", buf.String())
	}
}

func TestEntryCheck(t *testing.T) {
	buf := &bytes.Buffer{}
	l := liblog.New(buf, liblog.DebugLevel)

	ok := l.Entry(liblog.ErrorLevel, "operation").ErrorAdd(true, nil).Check(liblog.InfoLevel)
	if !ok {
		t.Fatalf("Check() = false with no error, want true")
	}
	if !strings.Contains(buf.String(), "level=info") {
		t.Fatalf("expected ok-level entry, got %q", buf.String())
	}

	buf.Reset()
	ok = l.Entry(liblog.ErrorLevel, "operation").ErrorAdd(true, errors.New("boom")).Check(liblog.InfoLevel)
	if ok {
		t.Fatalf("Check() = true with an error, want false")
	}
	if !strings.Contains(buf.String(), "level=error") {
		t.Fatalf("expected error-level entry, got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]liblog.Level{
		"0":     liblog.PanicLevel,
		"4":     liblog.InfoLevel,
		"debug": liblog.DebugLevel,
		"":      liblog.InfoLevel,
	}
	for in, want := range cases {
		if got := liblog.ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
