package errors_test

import (
	"errors"
	"testing"

	liberr "github.com/fschiettecatte/mps/pkg/errors"
)

const testCode liberr.CodeError = liberr.MinPkgTransport + 1

func init() {
	liberr.RegisterMessages(liberr.MinPkgTransport, liberr.MinPkgTransport+100, func(code liberr.CodeError) string {
		if code == testCode {
			return "test failure"
		}
		return ""
	})
}

func TestCodeErrorMessage(t *testing.T) {
	if got := testCode.Message(); got != "test failure" {
		t.Fatalf("Message() = %q, want %q", got, "test failure")
	}

	if got := liberr.UnknownError.Message(); got != liberr.UnknownMessage {
		t.Fatalf("Message() = %q, want %q", got, liberr.UnknownMessage)
	}
}

func TestErrorChaining(t *testing.T) {
	root := errors.New("socket reset")
	e := testCode.Error(root)

	if !e.IsCode(testCode) {
		t.Fatalf("IsCode(testCode) = false, want true")
	}

	if !e.HasParent() {
		t.Fatalf("HasParent() = false, want true")
	}

	if !errors.Is(e, root) {
		t.Fatalf("errors.Is(e, root) = false, want true")
	}

	wrapped := liberr.New(liberr.MinPkgTransport+2, "wrapped", e)
	if !wrapped.HasCode(testCode) {
		t.Fatalf("HasCode(testCode) on wrapped error = false, want true")
	}
}

func TestIfError(t *testing.T) {
	if e := liberr.IfError(testCode, "msg"); e != nil {
		t.Fatalf("IfError with no parents = %v, want nil", e)
	}

	if e := liberr.IfError(testCode, "msg", errors.New("x")); e == nil {
		t.Fatalf("IfError with a parent = nil, want non-nil")
	}
}
