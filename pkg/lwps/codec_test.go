package lwps

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/fschiettecatte/mps/pkg/spi"
	"github.com/fschiettecatte/mps/pkg/transport"
)

// pipe returns a reader and writer over the same in-memory buffer, so bytes
// staged by one stdio Conn are visible to another built over the same pair.
func pipe() (io.Reader, io.Writer) {
	buf := &bytes.Buffer{}
	return buf, buf
}

// roundTrip writes msg under id through WriteFrame into a stdio Conn backed
// by a pipe, then reads it back through ReadFrame on the other end.
func roundTrip(t *testing.T, id MessageID, msg interface{}) interface{} {
	t.Helper()

	pr, pw := pipe()
	writer := transport.NewStdioConn(pr, pw)
	if err := WriteFrame(writer, id, msg); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}
	if err := writer.Send(); err != nil {
		t.Fatalf("Send: %v", err)
	}

	reader := transport.NewStdioConn(pr, pw)
	gotID, gotMsg, err := ReadFrame(reader)
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if gotID != id {
		t.Fatalf("message ID = %d, want %d", gotID, id)
	}
	return gotMsg
}

func TestSearchRequestRoundTrip(t *testing.T) {
	want := &SearchRequest{
		Indices:          []string{"news", "blogs"},
		Language:         "en",
		Query:            "quick brown fox",
		PositiveFeedback: []string{"doc1"},
		NegativeFeedback: nil,
		Start:            1,
		End:              10,
		RefID:            "ref-123",
	}
	got := roundTrip(t, MsgSearchRequest, want).(*SearchRequest)

	if got.Language != want.Language || got.Query != want.Query || got.RefID != want.RefID {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	if len(got.Indices) != len(want.Indices) || got.Indices[0] != want.Indices[0] {
		t.Fatalf("Indices = %v, want %v", got.Indices, want.Indices)
	}
	if len(got.NegativeFeedback) != 0 {
		t.Fatalf("NegativeFeedback = %v, want empty", got.NegativeFeedback)
	}
	if got.Start != want.Start || got.End != want.End {
		t.Fatalf("Start/End = %d/%d, want %d/%d", got.Start, got.End, want.Start, want.End)
	}
}

func TestSearchResponseRoundTrip(t *testing.T) {
	want := &SearchResponse{
		Response: &spi.SearchResponse{
			Results: []spi.SearchResult{
				{
					IndexName: "news",
					Key:       "doc-1",
					Title:     "Hello World",
					Language:  "en",
					SortKey:   spi.SortKey{Type: spi.SortDoubleDesc, Double: 0.75},
					Rank:      0.75,
					TermCount: 2,
					ANSIDate:  20240115,
					Items: []spi.DocumentItem{
						{Name: "document", Mime: "application/x-mps-search-report", Length: 5, Data: []byte("hello")},
					},
				},
			},
			TotalCount:  1,
			Start:       1,
			End:         1,
			SortType:    spi.SortDoubleDesc,
			MaxSortKey:  spi.SortKey{Type: spi.SortDoubleDesc, Double: 0.75},
			ElapsedTime: 42 * time.Millisecond,
		},
		RefID: "ref-xyz",
	}

	got := roundTrip(t, MsgSearchResponse, want).(*SearchResponse)

	if got.RefID != want.RefID {
		t.Fatalf("RefID = %q, want %q", got.RefID, want.RefID)
	}
	if got.Response.TotalCount != want.Response.TotalCount {
		t.Fatalf("TotalCount = %d, want %d", got.Response.TotalCount, want.Response.TotalCount)
	}
	if got.Response.ElapsedTime != want.Response.ElapsedTime {
		t.Fatalf("ElapsedTime = %v, want %v", got.Response.ElapsedTime, want.Response.ElapsedTime)
	}
	if len(got.Response.Results) != 1 {
		t.Fatalf("Results = %d, want 1", len(got.Response.Results))
	}
	r := got.Response.Results[0]
	w := want.Response.Results[0]
	if r.Key != w.Key || r.Title != w.Title || r.SortKey.Type != w.SortKey.Type || r.SortKey.Double != w.SortKey.Double {
		t.Fatalf("Results[0] = %+v, want %+v", r, w)
	}
	if len(r.Items) != 1 || !r.Items[0].IsSearchReport() {
		t.Fatalf("Items[0] = %+v, want a search-report item", r.Items)
	}
}

func TestRetrievalRequestResponseRoundTrip(t *testing.T) {
	want := &RetrievalRequest{
		Index:     "news",
		Key:       "doc-1",
		Item:      "document",
		Mime:      "text/plain",
		ChunkType: spi.ChunkByte,
		Start:     0,
		End:       4,
		RefID:     "ref-1",
	}
	got := roundTrip(t, MsgRetrievalRequest, want).(*RetrievalRequest)
	if got.Index != want.Index || got.ChunkType != want.ChunkType || got.Start != want.Start || got.End != want.End {
		t.Fatalf("got %+v, want %+v", got, want)
	}

	wantResp := &RetrievalResponse{Data: []byte("Hello"), RefID: "ref-1"}
	gotResp := roundTrip(t, MsgRetrievalResponse, wantResp).(*RetrievalResponse)
	if string(gotResp.Data) != string(wantResp.Data) || gotResp.RefID != wantResp.RefID {
		t.Fatalf("got %+v, want %+v", gotResp, wantResp)
	}
}

func TestServerInfoRoundTrip(t *testing.T) {
	want := &ServerInfoResponse{
		Info: &spi.ServerInfo{
			Name:        "mps",
			Description: "test server",
			Indices:     []string{"news", "blogs"},
		},
		RefID: "ref-9",
	}
	got := roundTrip(t, MsgServerInfoResponse, want).(*ServerInfoResponse)
	if got.Info.Name != want.Info.Name || len(got.Info.Indices) != 2 {
		t.Fatalf("got %+v, want %+v", got.Info, want.Info)
	}
}

func TestIndexInfoRoundTrip(t *testing.T) {
	when := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	want := &IndexInfoResponse{
		Info: &spi.IndexInfo{
			Name:          "news",
			Description:   "news index",
			DocumentCount: 1000,
			TermCount:     50000,
			LastUpdated:   when,
		},
		RefID: "ref-7",
	}
	got := roundTrip(t, MsgIndexInfoResponse, want).(*IndexInfoResponse)
	if got.Info.Name != want.Info.Name || got.Info.DocumentCount != want.Info.DocumentCount {
		t.Fatalf("got %+v, want %+v", got.Info, want.Info)
	}
	if !got.Info.LastUpdated.Equal(when) {
		t.Fatalf("LastUpdated = %v, want %v", got.Info.LastUpdated, when)
	}
}

func TestErrorMessageRoundTrip(t *testing.T) {
	want := &ErrorMessage{Code: CodeBadMagic, Description: "bad magic byte", RefID: "ref-e"}
	got := roundTrip(t, MsgErrorMessage, want).(*ErrorMessage)
	if got.Code != want.Code || got.Description != want.Description || got.RefID != want.RefID {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestPeekHeaderDoesNotConsume(t *testing.T) {
	pr, pw := pipe()
	writer := transport.NewStdioConn(pr, pw)
	if err := WriteFrame(writer, MsgInitRequest, &InitRequest{Username: "u", RefID: "r"}); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}
	if err := writer.Send(); err != nil {
		t.Fatalf("Send: %v", err)
	}

	reader := transport.NewStdioConn(pr, pw)
	id, err := PeekHeader(reader)
	if err != nil {
		t.Fatalf("PeekHeader: %v", err)
	}
	if id != MsgInitRequest {
		t.Fatalf("PeekHeader id = %d, want %d", id, MsgInitRequest)
	}

	gotID, _, err := ReadFrame(reader)
	if err != nil {
		t.Fatalf("ReadFrame after Peek: %v", err)
	}
	if gotID != MsgInitRequest {
		t.Fatalf("ReadFrame id = %d, want %d", gotID, MsgInitRequest)
	}
}
