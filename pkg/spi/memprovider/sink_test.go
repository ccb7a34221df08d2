package memprovider_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fschiettecatte/mps/pkg/indexer"
	"github.com/fschiettecatte/mps/pkg/spi"
	"github.com/fschiettecatte/mps/pkg/spi/memprovider"
)

func TestIndexWriterRoundTripsThroughOpenDir(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	w := &memprovider.IndexWriter{Dir: dir}
	if err := w.BeginIndex(ctx, "built", "a built index"); err != nil {
		t.Fatalf("BeginIndex: %v", err)
	}
	doc := indexer.Document{
		Key:      "k1",
		Title:    "Title",
		Language: "en",
		ANSIDate: "20260101",
		Text:     "hello world",
		Items: []indexer.Item{
			{Name: "document", Mime: "text/plain", Data: []byte("hello world")},
		},
	}
	if err := w.AddDocument(ctx, doc, []string{"hello", "world"}); err != nil {
		t.Fatalf("AddDocument: %v", err)
	}
	if err := w.EndIndex(ctx); err != nil {
		t.Fatalf("EndIndex: %v", err)
	}

	p, err := memprovider.OpenDir(dir)
	if err != nil {
		t.Fatalf("OpenDir: %v", err)
	}

	sess, serr := p.NewSession(ctx)
	if serr != nil {
		t.Fatalf("NewSession: %v", serr)
	}
	h, oerr := sess.OpenIndex(ctx, "built")
	if oerr != nil {
		t.Fatalf("OpenIndex: %v", oerr)
	}

	data, rerr := sess.RetrieveDocument(ctx, h, spi.RetrieveRequest{Key: "k1", Item: "document", ChunkType: spi.ChunkWhole})
	if rerr != nil {
		t.Fatalf("RetrieveDocument: %v", rerr)
	}
	if string(data) != "hello world" {
		t.Fatalf("data = %q, want %q", data, "hello world")
	}
}

func TestIndexWriterAddDocumentBeforeBeginIndex(t *testing.T) {
	w := &memprovider.IndexWriter{Dir: t.TempDir()}
	err := w.AddDocument(context.Background(), indexer.Document{Key: "k1"}, nil)
	if err == nil {
		t.Fatal("expected an error calling AddDocument before BeginIndex")
	}
}

func TestOpenDirIgnoresNonIndexFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "junk.txt"), []byte("not an index"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p, err := memprovider.OpenDir(dir)
	if err != nil {
		t.Fatalf("OpenDir on an empty-of-indices directory: %v", err)
	}
	sess, _ := p.NewSession(context.Background())
	if _, err := sess.OpenIndex(context.Background(), "junk"); err == nil {
		t.Fatal("expected OpenIndex to fail for a non-.idx file")
	}
}
