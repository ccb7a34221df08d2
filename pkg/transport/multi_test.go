package transport_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/fschiettecatte/mps/pkg/transport"
)

func TestMultiListenerAcceptsFromEitherMember(t *testing.T) {
	tcpListener := transport.NewTCPListener()
	udpListener := transport.NewUDPListener()
	defer tcpListener.Close()
	defer udpListener.Close()

	if err := tcpListener.AddEndpoint(transport.Endpoint{Protocol: transport.ProtoTCP, Host: "127.0.0.1", Port: 0}); err != nil {
		t.Skipf("cannot bind a local TCP port in this sandbox: %v", err)
	}

	multi := transport.NewMultiListener(tcpListener, udpListener)
	defer multi.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := multi.Accept(ctx, 0)
	if err == nil {
		t.Fatal("expected Accept to time out with no inbound connections")
	}
}

func TestMultiListenerCloseClosesAllMembers(t *testing.T) {
	a := transport.NewTCPListener()
	b := transport.NewTCPListener()

	if err := a.AddEndpoint(transport.Endpoint{Protocol: transport.ProtoTCP, Host: "127.0.0.1", Port: 0}); err != nil {
		t.Skipf("cannot bind a local TCP port in this sandbox: %v", err)
	}
	if err := b.AddEndpoint(transport.Endpoint{Protocol: transport.ProtoTCP, Host: "127.0.0.1", Port: 0}); err != nil {
		t.Skipf("cannot bind a local TCP port in this sandbox: %v", err)
	}

	multi := transport.NewMultiListener(a, b)
	if err := multi.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Both members should now reject further Accept calls rather than hang.
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := multi.Accept(ctx, 0); err == nil {
		t.Fatal("expected Accept on a closed MultiListener to fail")
	}
}

func TestWrapTCPListenerAcceptsInheritedListener(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Skipf("cannot bind a local TCP port in this sandbox: %v", err)
	}

	wrapped := transport.WrapTCPListener(ln)
	defer wrapped.Close()

	addr := ln.Addr().String()
	go func() {
		conn, derr := net.Dial("tcp", addr)
		if derr == nil {
			conn.Close()
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	conn, aerr := wrapped.Accept(ctx, 0)
	if aerr != nil {
		t.Fatalf("Accept: %v", aerr)
	}
	conn.Close()
}
