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

package dispatch

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/fschiettecatte/mps/pkg/admission"
	"github.com/fschiettecatte/mps/pkg/config"
	"github.com/fschiettecatte/mps/pkg/lwps"
	"github.com/fschiettecatte/mps/pkg/spi/memprovider"
	"github.com/fschiettecatte/mps/pkg/transport"
)

func testBackend(t *testing.T) *SessionBackend {
	t.Helper()
	provider := memprovider.New(memprovider.Index{
		Name: "news",
		Docs: []memprovider.Document{
			{Key: "doc-1", Title: "Hello World", Text: "the quick brown fox"},
		},
	})
	session, err := provider.NewSession(context.Background())
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	ctl := admission.New(config.DefaultLoadMaxima())
	ctl.Read = func() (float64, error) { return 0, nil }
	return NewSessionBackend(session, ctl, "en_US.UTF-8")
}

func TestDispatchUnrecognizedByte(t *testing.T) {
	in := strings.NewReader("Z anything\n")
	conn := transport.NewStdioConn(in, &bytes.Buffer{})

	table := Table{}
	err := Dispatch(context.Background(), conn, table, nil)
	if err == nil {
		t.Fatal("expected an error for an unrecognized lead byte")
	}
	if !err.IsCode(CodeUnrecognizedProtocol) {
		t.Fatalf("expected CodeUnrecognizedProtocol, got %v", err.GetCode())
	}
}

func TestDispatchRoutesToHTTPHandler(t *testing.T) {
	backend := testBackend(t)
	out := &bytes.Buffer{}
	in := strings.NewReader("GET /SearchIndex?index=news&search=fox HTTP/1.0\r\n")
	conn := transport.NewStdioConn(in, out)

	table := BuildTable(backend, time.Second, nil)
	if err := Dispatch(context.Background(), conn, table, nil); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if err := conn.Send(); err != nil {
		t.Fatalf("Send: %v", err)
	}

	if !strings.Contains(out.String(), "200 OK") {
		t.Fatalf("expected a 200 OK response, got %q", out.String())
	}
}

func TestDispatchRoutesToLWPSHandler(t *testing.T) {
	backend := testBackend(t)
	pending := &bytes.Buffer{}

	writer := transport.NewStdioConn(strings.NewReader(""), pending)
	if err := lwps.WriteFrame(writer, lwps.MsgServerInfoRequest, &lwps.ServerInfoRequest{RefID: "r1"}); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}
	if err := writer.Send(); err != nil {
		t.Fatalf("Send: %v", err)
	}

	out := &bytes.Buffer{}
	conn := transport.NewStdioConn(bytes.NewReader(pending.Bytes()), out)

	table := BuildTable(backend, time.Second, func() bool { return false })
	if err := Dispatch(context.Background(), conn, table, nil); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	reader := transport.NewStdioConn(bytes.NewReader(out.Bytes()), &bytes.Buffer{})
	id, msg, rerr := lwps.ReadFrame(reader)
	if rerr != nil {
		t.Fatalf("ReadFrame: %v", rerr)
	}
	if id != lwps.MsgServerInfoResponse {
		t.Fatalf("message ID = %d, want MsgServerInfoResponse", id)
	}
	resp := msg.(*lwps.ServerInfoResponse)
	if resp.RefID != "r1" {
		t.Fatalf("RefID = %q, want %q", resp.RefID, "r1")
	}
	if resp.Info.Name != "memprovider" {
		t.Fatalf("Info.Name = %q, want %q", resp.Info.Name, "memprovider")
	}
}
