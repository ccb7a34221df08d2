package transport_test

import (
	"bytes"
	"context"
	"net"
	"testing"
	"time"

	"github.com/fschiettecatte/mps/pkg/transport"
)

func TestStdioConnPeekThenRead(t *testing.T) {
	in := bytes.NewBufferString("Lhello")
	out := &bytes.Buffer{}

	conn := transport.NewStdioConn(in, out)

	peeked, err := conn.Peek(1)
	if err != nil {
		t.Fatalf("Peek: %v", err)
	}
	if string(peeked) != "L" {
		t.Fatalf("Peek(1) = %q, want L", peeked)
	}

	// Peek must not consume: ReadN(1) should see the same byte again.
	read, err := conn.ReadN(1)
	if err != nil {
		t.Fatalf("ReadN: %v", err)
	}
	if string(read) != "L" {
		t.Fatalf("ReadN(1) = %q, want L", read)
	}

	rest, err := conn.ReadN(5)
	if err != nil {
		t.Fatalf("ReadN(5): %v", err)
	}
	if string(rest) != "hello" {
		t.Fatalf("ReadN(5) = %q, want hello", rest)
	}
}

func TestStdioConnWriteThenSendIsAtomic(t *testing.T) {
	in := &bytes.Buffer{}
	out := &bytes.Buffer{}
	conn := transport.NewStdioConn(in, out)

	_ = conn.Write([]byte("part1"))
	_ = conn.Write([]byte("part2"))
	if out.Len() != 0 {
		t.Fatalf("expected nothing flushed before Send(), got %q", out.String())
	}

	if err := conn.Send(); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if out.String() != "part1part2" {
		t.Fatalf("out = %q, want part1part2", out.String())
	}
}

func TestEndpointAddr(t *testing.T) {
	e := transport.Endpoint{Protocol: transport.ProtoTCP, Host: "127.0.0.1", Port: 1978}
	if got, want := e.Addr(), "127.0.0.1:1978"; got != want {
		t.Fatalf("Addr() = %q, want %q", got, want)
	}
}

func TestTCPListenerAcceptTimeout(t *testing.T) {
	ln := transport.NewTCPListener()
	defer ln.Close()

	pl, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Skipf("cannot bind a local TCP port in this sandbox: %v", err)
	}
	_ = pl.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, aerr := ln.Accept(ctx, 0)
	if aerr == nil {
		t.Fatal("expected Accept to time out with no bound endpoint and no connections")
	}
}
