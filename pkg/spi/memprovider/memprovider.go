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

// Package memprovider is a minimal in-memory spi.Provider used by the
// core's own tests and as a worked example for anyone implementing a real
// provider. It is not meant for production use: indices are simple maps,
// and SearchIndex does substring matching, scores each hit by match
// density (occurrences per word), and returns hits in index order rather
// than ranked.
package memprovider

import (
	"context"
	"strings"
	"sync"
	"time"

	liberr "github.com/fschiettecatte/mps/pkg/errors"
	"github.com/fschiettecatte/mps/pkg/spi"
)

// Document is one row of an in-memory index.
type Document struct {
	Key      string
	Title    string
	Language string
	ANSIDate int
	Text     string
	Items    []spi.DocumentItem
}

// Index is an in-memory named collection of Documents.
type Index struct {
	Name string
	Docs []Document
}

type handle struct {
	idx *Index
}

// Provider implements spi.Provider over a fixed set of in-memory indices
// supplied at construction time.
type Provider struct {
	mu      sync.RWMutex
	indices map[string]*Index
}

// New builds a Provider over the given indices, keyed by Index.Name.
func New(indices ...Index) *Provider {
	p := &Provider{indices: make(map[string]*Index, len(indices))}
	for i := range indices {
		idx := indices[i]
		p.indices[idx.Name] = &idx
	}
	return p
}

func (p *Provider) InitializeServer(ctx context.Context) liberr.Error { return nil }
func (p *Provider) ShutdownServer(ctx context.Context) liberr.Error   { return nil }

func (p *Provider) GetErrorText(code liberr.CodeError) string {
	return spi.GetErrorText(code)
}

func (p *Provider) NewSession(ctx context.Context) (spi.Session, liberr.Error) {
	return &session{p: p}, nil
}

type session struct {
	p *Provider
}

func (s *session) Clone(ctx context.Context) (spi.Session, liberr.Error) {
	return &session{p: s.p}, nil
}

func (s *session) Close(ctx context.Context) liberr.Error { return nil }

func (s *session) OpenIndex(ctx context.Context, name string) (spi.IndexHandle, liberr.Error) {
	s.p.mu.RLock()
	defer s.p.mu.RUnlock()

	idx, ok := s.p.indices[name]
	if !ok {
		return nil, spi.CodeInvalidIndexName.Error()
	}
	return &handle{idx: idx}, nil
}

func (s *session) CloseIndex(ctx context.Context, h spi.IndexHandle) liberr.Error { return nil }

func (s *session) SearchIndex(ctx context.Context, handles []spi.IndexHandle, q spi.SearchQuery) (*spi.SearchResponse, liberr.Error) {
	start := time.Now()

	var results []spi.SearchResult
	needle := strings.ToLower(q.Query)

	for _, h := range handles {
		hd, ok := h.(*handle)
		if !ok || hd.idx == nil {
			continue
		}
		for _, doc := range hd.idx.Docs {
			if needle != "" && !strings.Contains(strings.ToLower(doc.Text), needle) {
				continue
			}
			results = append(results, spi.SearchResult{
				IndexName: hd.idx.Name,
				Key:       doc.Key,
				Title:     doc.Title,
				Language:  doc.Language,
				SortKey:   spi.SortKey{Type: spi.SortDoubleDesc, Double: rankOf(doc.Text, needle)},
				Rank:      rankOf(doc.Text, needle),
				TermCount: len(strings.Fields(doc.Text)),
				ANSIDate:  doc.ANSIDate,
				Items:     doc.Items,
			})
		}
	}

	total := len(results)
	startIdx, endIdx := clampRange(q.Start, q.End, total)
	if total > 0 {
		results = results[startIdx : endIdx+1]
	}

	maxKey := spi.SortKey{Type: spi.SortDoubleDesc}
	for _, r := range results {
		if r.SortKey.Double > maxKey.Double {
			maxKey = r.SortKey
		}
	}

	return &spi.SearchResponse{
		Results:     results,
		TotalCount:  total,
		Start:       startIdx,
		End:         endIdx,
		SortType:    spi.SortDoubleDesc,
		MaxSortKey:  maxKey,
		ElapsedTime: time.Since(start),
	}, nil
}

func rankOf(text, needle string) float64 {
	if needle == "" {
		return 1.0
	}
	count := strings.Count(strings.ToLower(text), needle)
	if count == 0 {
		return 0
	}
	return float64(count) / float64(len(strings.Fields(text)))
}

func clampRange(start, end, total int) (int, int) {
	if total == 0 {
		return 0, -1
	}
	if start < 0 {
		start = 0
	}
	if end <= 0 || end >= total {
		end = total - 1
	}
	if start > end {
		start = end
	}
	return start, end
}

func (s *session) RetrieveDocument(ctx context.Context, h spi.IndexHandle, req spi.RetrieveRequest) ([]byte, liberr.Error) {
	hd, ok := h.(*handle)
	if !ok || hd.idx == nil {
		return nil, spi.CodeInvalidIndexName.Error()
	}
	for _, doc := range hd.idx.Docs {
		if doc.Key != req.Key {
			continue
		}
		for _, item := range doc.Items {
			if item.Name == req.Item {
				return sliceChunk(item.Data, req), nil
			}
		}
		return nil, spi.CodeRetrieveDocumentFailed.Error()
	}
	return nil, spi.CodeRetrieveDocumentFailed.Error()
}

func sliceChunk(data []byte, req spi.RetrieveRequest) []byte {
	if req.ChunkType == spi.ChunkWhole {
		return data
	}
	start := req.Start
	if start < 0 || start > int64(len(data)) {
		start = 0
	}
	end := req.End
	if end < 0 || end > int64(len(data)) {
		end = int64(len(data))
	}
	if start > end {
		start = end
	}
	return data[start:end]
}

func (s *session) GetServerInfo(ctx context.Context) (*spi.ServerInfo, liberr.Error) {
	s.p.mu.RLock()
	defer s.p.mu.RUnlock()

	names := make([]string, 0, len(s.p.indices))
	for name := range s.p.indices {
		names = append(names, name)
	}
	return &spi.ServerInfo{Name: "memprovider", Description: "in-memory reference provider", Indices: names}, nil
}

func (s *session) GetServerIndexInfo(ctx context.Context) ([]spi.IndexInfo, liberr.Error) {
	s.p.mu.RLock()
	defer s.p.mu.RUnlock()

	infos := make([]spi.IndexInfo, 0, len(s.p.indices))
	for _, idx := range s.p.indices {
		infos = append(infos, spi.IndexInfo{Name: idx.Name, DocumentCount: len(idx.Docs)})
	}
	return infos, nil
}

func (s *session) GetIndexInfo(ctx context.Context, h spi.IndexHandle) (*spi.IndexInfo, liberr.Error) {
	hd, ok := h.(*handle)
	if !ok || hd.idx == nil {
		return nil, spi.CodeInvalidIndexName.Error()
	}
	return &spi.IndexInfo{Name: hd.idx.Name, DocumentCount: len(hd.idx.Docs)}, nil
}

func (s *session) GetIndexFieldInfo(ctx context.Context, h spi.IndexHandle) ([]spi.FieldInfo, liberr.Error) {
	return []spi.FieldInfo{{Name: "title", Type: "text"}, {Name: "text", Type: "text"}}, nil
}

func (s *session) GetIndexTermInfo(ctx context.Context, h spi.IndexHandle, term string) (*spi.TermInfo, liberr.Error) {
	hd, ok := h.(*handle)
	if !ok || hd.idx == nil {
		return nil, spi.CodeInvalidIndexName.Error()
	}
	count := 0
	for _, doc := range hd.idx.Docs {
		if strings.Contains(strings.ToLower(doc.Text), strings.ToLower(term)) {
			count++
		}
	}
	return &spi.TermInfo{Term: term, DocumentCount: count}, nil
}

func (s *session) GetDocumentInfo(ctx context.Context, h spi.IndexHandle, key string) (*spi.DocumentInfo, liberr.Error) {
	hd, ok := h.(*handle)
	if !ok || hd.idx == nil {
		return nil, spi.CodeInvalidIndexName.Error()
	}
	for _, doc := range hd.idx.Docs {
		if doc.Key == key {
			names := make([]string, 0, len(doc.Items))
			for _, it := range doc.Items {
				names = append(names, it.Name)
			}
			return &spi.DocumentInfo{Key: doc.Key, Title: doc.Title, Language: doc.Language, ANSIDate: doc.ANSIDate, ItemNames: names}, nil
		}
	}
	return nil, spi.CodeRetrieveDocumentFailed.Error()
}
