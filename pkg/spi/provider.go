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

package spi

import (
	"context"

	liberr "github.com/fschiettecatte/mps/pkg/errors"
)

// IndexHandle identifies an index opened through Provider.OpenIndex. It is
// opaque to the core; providers may use any concrete representation
// underneath.
type IndexHandle interface{}

// SearchQuery carries every input SearchIndex needs. Feedback lists name
// document keys the caller judged relevant (Positive) or irrelevant
// (Negative), used by providers that support relevance feedback.
type SearchQuery struct {
	Language         string
	Query            string
	PositiveFeedback []string
	NegativeFeedback []string
	Start            int // inclusive, 0-based
	End              int // inclusive, 0-based
}

// RetrieveRequest carries every input RetrieveDocument needs.
type RetrieveRequest struct {
	Index     string // index the document key is scoped to
	Key       string
	Item      string
	Mime      string
	ChunkType ChunkType
	Start     int64
	End       int64 // -1 means "to end"
}

// Provider is the Search-Provider Interface: the complete set of
// operations the serving core calls into a storage engine through. The
// core treats a Provider as thread-safe. mpsd opens one Session per
// worker process and shares it across that process's worker goroutines,
// so calls on one Session can run concurrently.
type Provider interface {
	// InitializeServer prepares process-wide provider state. Called once
	// per worker process before any session uses the provider.
	InitializeServer(ctx context.Context) liberr.Error

	// ShutdownServer releases process-wide provider state. Always
	// attempted on worker exit, including on error paths.
	ShutdownServer(ctx context.Context) liberr.Error

	// NewSession returns a session-scoped handle. The core does not call
	// Session.Clone: one session serves every worker goroutine of a
	// process.
	NewSession(ctx context.Context) (Session, liberr.Error)

	// GetErrorText renders a CodeError returned by any other Provider
	// method into a human-readable description.
	GetErrorText(code liberr.CodeError) string
}

// Session is the provider-supplied per-worker-thread handle every other
// operation is scoped to.
type Session interface {
	// Clone returns an independent copy suitable for a sibling worker
	// thread; it duplicates configuration only, never shared kernel or
	// lock state.
	Clone(ctx context.Context) (Session, liberr.Error)

	// Close releases this session's resources. Idempotent.
	Close(ctx context.Context) liberr.Error

	OpenIndex(ctx context.Context, name string) (IndexHandle, liberr.Error)
	CloseIndex(ctx context.Context, h IndexHandle) liberr.Error

	SearchIndex(ctx context.Context, handles []IndexHandle, q SearchQuery) (*SearchResponse, liberr.Error)
	RetrieveDocument(ctx context.Context, h IndexHandle, req RetrieveRequest) ([]byte, liberr.Error)

	GetServerInfo(ctx context.Context) (*ServerInfo, liberr.Error)
	GetServerIndexInfo(ctx context.Context) ([]IndexInfo, liberr.Error)
	GetIndexInfo(ctx context.Context, h IndexHandle) (*IndexInfo, liberr.Error)
	GetIndexFieldInfo(ctx context.Context, h IndexHandle) ([]FieldInfo, liberr.Error)
	GetIndexTermInfo(ctx context.Context, h IndexHandle, term string) (*TermInfo, liberr.Error)
	GetDocumentInfo(ctx context.Context, h IndexHandle, key string) (*DocumentInfo, liberr.Error)
}
