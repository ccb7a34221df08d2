package memprovider_test

import (
	"context"
	"testing"

	"github.com/fschiettecatte/mps/pkg/spi"
	"github.com/fschiettecatte/mps/pkg/spi/memprovider"
)

func testIndex() memprovider.Index {
	return memprovider.Index{
		Name: "test",
		Docs: []memprovider.Document{
			{Key: "k1", Title: "T1", Text: "hello world hello", Items: []spi.DocumentItem{
				{Name: "document", Mime: "text/plain", Length: 5, Data: []byte("Hello")},
			}},
			{Key: "k2", Title: "T2", Text: "goodbye world"},
		},
	}
}

func TestSearchIndexRanksByMatchDensity(t *testing.T) {
	ctx := context.Background()
	p := memprovider.New(testIndex())

	sess, err := p.NewSession(ctx)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	h, err := sess.OpenIndex(ctx, "test")
	if err != nil {
		t.Fatalf("OpenIndex: %v", err)
	}

	resp, err := sess.SearchIndex(ctx, []spi.IndexHandle{h}, spi.SearchQuery{Query: "hello", End: 10})
	if err != nil {
		t.Fatalf("SearchIndex: %v", err)
	}
	if resp.TotalCount != 1 {
		t.Fatalf("TotalCount = %d, want 1", resp.TotalCount)
	}
	if resp.Results[0].Key != "k1" {
		t.Fatalf("Results[0].Key = %q, want k1", resp.Results[0].Key)
	}
	if got, want := resp.Results[0].Rank, 2.0/3.0; got != want {
		t.Fatalf("Results[0].Rank = %v, want %v (2 matches in 3 words)", got, want)
	}
	for _, r := range resp.Results {
		if r.SortKey.Type != resp.SortType {
			t.Errorf("result sort key type %v does not match response sort type %v", r.SortKey.Type, resp.SortType)
		}
	}
}

func TestRetrieveDocumentWhole(t *testing.T) {
	ctx := context.Background()
	p := memprovider.New(testIndex())
	sess, _ := p.NewSession(ctx)
	h, _ := sess.OpenIndex(ctx, "test")

	data, err := sess.RetrieveDocument(ctx, h, spi.RetrieveRequest{Key: "k1", Item: "document", ChunkType: spi.ChunkWhole})
	if err != nil {
		t.Fatalf("RetrieveDocument: %v", err)
	}
	if string(data) != "Hello" {
		t.Fatalf("data = %q, want Hello", data)
	}
}

func TestOpenIndexUnknownName(t *testing.T) {
	ctx := context.Background()
	p := memprovider.New(testIndex())
	sess, _ := p.NewSession(ctx)

	if _, err := sess.OpenIndex(ctx, "missing"); err == nil {
		t.Fatal("expected an error opening an unknown index")
	} else if !err.IsCode(spi.CodeInvalidIndexName) {
		t.Fatalf("expected CodeInvalidIndexName, got %v", err)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	ctx := context.Background()
	p := memprovider.New(testIndex())
	sess, _ := p.NewSession(ctx)

	clone, err := sess.Clone(ctx)
	if err != nil {
		t.Fatalf("Clone: %v", err)
	}
	if _, err := clone.OpenIndex(ctx, "test"); err != nil {
		t.Fatalf("clone OpenIndex: %v", err)
	}
}
