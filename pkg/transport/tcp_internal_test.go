package transport

import (
	"context"
	"net"
	"testing"
	"time"
)

func TestTCPListenerAcceptAndEcho(t *testing.T) {
	l := &tcpListener{
		accept: make(chan acceptResult),
		closed: make(chan struct{}),
	}
	defer l.Close()

	raw, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Skipf("cannot bind a local TCP port in this sandbox: %v", err)
	}
	l.listeners = append(l.listeners, raw)
	go l.acceptLoop(raw)

	addr := raw.Addr().String()
	dialed := make(chan error, 1)
	go func() {
		c, derr := net.Dial("tcp", addr)
		if derr != nil {
			dialed <- derr
			return
		}
		_, derr = c.Write([]byte("ping"))
		dialed <- derr
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	conn, aerr := l.Accept(ctx, 0)
	if aerr != nil {
		t.Fatalf("Accept: %v", aerr)
	}
	defer conn.Close()

	if derr := <-dialed; derr != nil {
		t.Fatalf("dial/write: %v", derr)
	}

	got, rerr := conn.ReadN(4)
	if rerr != nil {
		t.Fatalf("ReadN: %v", rerr)
	}
	if string(got) != "ping" {
		t.Fatalf("ReadN = %q, want ping", got)
	}
}
