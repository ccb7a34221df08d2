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
	"context"
	"sync"

	"github.com/fschiettecatte/mps/pkg/admission"
	liberr "github.com/fschiettecatte/mps/pkg/errors"
	"github.com/fschiettecatte/mps/pkg/httpcodec"
	"github.com/fschiettecatte/mps/pkg/postproc"
	"github.com/fschiettecatte/mps/pkg/spi"
)

// SessionBackend adapts one spi.Session, one admission.Controller, and
// pkg/postproc's sorting and report-merging helpers into the Backend
// shape both wire protocols (LWPS and HTTP) call into. Index handles are
// opened lazily and cached for the lifetime of the session, since a
// worker thread serves many requests against the same handful of
// indices.
type SessionBackend struct {
	Session   spi.Session
	Admission *admission.Controller
	Locale    string

	mu      sync.Mutex
	handles map[string]spi.IndexHandle
}

// NewSessionBackend builds a SessionBackend over an already-opened
// provider session.
func NewSessionBackend(session spi.Session, ctl *admission.Controller, locale string) *SessionBackend {
	return &SessionBackend{
		Session:   session,
		Admission: ctl,
		Locale:    locale,
		handles:   make(map[string]spi.IndexHandle),
	}
}

func (b *SessionBackend) handle(ctx context.Context, name string) (spi.IndexHandle, liberr.Error) {
	b.mu.Lock()
	if h, ok := b.handles[name]; ok {
		b.mu.Unlock()
		return h, nil
	}
	b.mu.Unlock()

	h, err := b.Session.OpenIndex(ctx, name)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	b.handles[name] = h
	b.mu.Unlock()
	return h, nil
}

func (b *SessionBackend) handlesFor(ctx context.Context, names []string) ([]spi.IndexHandle, liberr.Error) {
	out := make([]spi.IndexHandle, 0, len(names))
	for _, name := range names {
		h, err := b.handle(ctx, name)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, nil
}

func admissionClassOf(class httpcodec.OpClass) admission.Class {
	switch class {
	case httpcodec.ClassSearch:
		return admission.ClassSearch
	case httpcodec.ClassRetrieval:
		return admission.ClassRetrieval
	case httpcodec.ClassInformation:
		return admission.ClassInformation
	default:
		return admission.ClassConnection
	}
}

// Admit satisfies httpcodec.Backend and is reused directly by the LWPS
// handler via admitClass below.
func (b *SessionBackend) Admit(ctx context.Context, class httpcodec.OpClass) liberr.Error {
	return b.Admission.Admit(ctx, admissionClassOf(class))
}

func (b *SessionBackend) admitClass(ctx context.Context, class admission.Class) liberr.Error {
	return b.Admission.Admit(ctx, class)
}

func (b *SessionBackend) SearchIndex(ctx context.Context, indices []string, q spi.SearchQuery) (*spi.SearchResponse, liberr.Error) {
	handles, err := b.handlesFor(ctx, indices)
	if err != nil {
		return nil, err
	}

	resp, err := b.Session.SearchIndex(ctx, handles, q)
	if err != nil {
		return nil, err
	}

	postproc.Sort(resp.Results, resp.SortType, b.Locale)
	return resp, nil
}

func (b *SessionBackend) RetrieveDocument(ctx context.Context, req spi.RetrieveRequest) ([]byte, string, liberr.Error) {
	h, err := b.handle(ctx, req.Index)
	if err != nil {
		return nil, "", err
	}

	data, err := b.Session.RetrieveDocument(ctx, h, req)
	if err != nil {
		return nil, "", err
	}
	return data, req.Mime, nil
}

func (b *SessionBackend) ServerInfo(ctx context.Context) (*spi.ServerInfo, liberr.Error) {
	return b.Session.GetServerInfo(ctx)
}

func (b *SessionBackend) ServerIndexInfo(ctx context.Context) ([]spi.IndexInfo, liberr.Error) {
	return b.Session.GetServerIndexInfo(ctx)
}

func (b *SessionBackend) IndexInfo(ctx context.Context, index string) (*spi.IndexInfo, liberr.Error) {
	h, err := b.handle(ctx, index)
	if err != nil {
		return nil, err
	}
	return b.Session.GetIndexInfo(ctx, h)
}

func (b *SessionBackend) IndexFieldInfo(ctx context.Context, index string) ([]spi.FieldInfo, liberr.Error) {
	h, err := b.handle(ctx, index)
	if err != nil {
		return nil, err
	}
	return b.Session.GetIndexFieldInfo(ctx, h)
}

func (b *SessionBackend) IndexTermInfo(ctx context.Context, index, term string) (*spi.TermInfo, liberr.Error) {
	h, err := b.handle(ctx, index)
	if err != nil {
		return nil, err
	}
	return b.Session.GetIndexTermInfo(ctx, h, term)
}

func (b *SessionBackend) DocumentInfo(ctx context.Context, index, key string) (*spi.DocumentInfo, liberr.Error) {
	h, err := b.handle(ctx, index)
	if err != nil {
		return nil, err
	}
	return b.Session.GetDocumentInfo(ctx, h, key)
}

// reportItem retrieves the well-known search-report retrievable (item
// name "document", MIME "application/x-mps-search-report") attached to a
// document key within index, the same way any other retrievable item is
// fetched.
func (b *SessionBackend) reportItem(ctx context.Context, index, key string) (string, liberr.Error) {
	h, err := b.handle(ctx, index)
	if err != nil {
		return "", err
	}

	data, err := b.Session.RetrieveDocument(ctx, h, spi.RetrieveRequest{
		Index:     index,
		Key:       key,
		Item:      "document",
		Mime:      "application/x-mps-search-report",
		ChunkType: spi.ChunkWhole,
		Start:     -1,
		End:       -1,
	})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (b *SessionBackend) RawSearchReport(ctx context.Context, index, key string) (string, liberr.Error) {
	return b.reportItem(ctx, index, key)
}

func (b *SessionBackend) MergeSearchReport(ctx context.Context, index, key string) (string, liberr.Error) {
	raw, err := b.reportItem(ctx, index, key)
	if err != nil {
		return "", err
	}
	return postproc.MergeAndFormatSearchReports([]string{index}, map[string]string{index: raw}), nil
}

var _ httpcodec.Backend = (*SessionBackend)(nil)
