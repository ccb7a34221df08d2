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

package httpcodec

import (
	"context"
	"strconv"
	"time"

	liberr "github.com/fschiettecatte/mps/pkg/errors"
	"github.com/fschiettecatte/mps/pkg/spi"
	"github.com/fschiettecatte/mps/pkg/transport"
)

// OpClass names the admission-control class an operation belongs to, so
// Backend.Admit can apply the right load-average ceiling.
type OpClass string

const (
	ClassConnection  OpClass = "connection"
	ClassSearch      OpClass = "search"
	ClassRetrieval   OpClass = "retrieval"
	ClassInformation OpClass = "information"
)

// Backend is everything the HTTP handler needs from the rest of the
// server: admission control, the SPI session, and search-report merging.
// pkg/dispatch wires a concrete implementation over pkg/admission,
// pkg/spi, and pkg/postproc.
type Backend interface {
	Admit(ctx context.Context, class OpClass) liberr.Error

	SearchIndex(ctx context.Context, indices []string, q spi.SearchQuery) (*spi.SearchResponse, liberr.Error)
	RetrieveDocument(ctx context.Context, req spi.RetrieveRequest) ([]byte, string, liberr.Error)
	ServerInfo(ctx context.Context) (*spi.ServerInfo, liberr.Error)
	ServerIndexInfo(ctx context.Context) ([]spi.IndexInfo, liberr.Error)
	IndexInfo(ctx context.Context, index string) (*spi.IndexInfo, liberr.Error)
	IndexFieldInfo(ctx context.Context, index string) ([]spi.FieldInfo, liberr.Error)
	IndexTermInfo(ctx context.Context, index, term string) (*spi.TermInfo, liberr.Error)
	DocumentInfo(ctx context.Context, index, key string) (*spi.DocumentInfo, liberr.Error)

	MergeSearchReport(ctx context.Context, index, key string) (string, liberr.Error)
	// RawSearchReport returns the unmerged per-index report text, used
	// when the request's report selector is "raw" rather than "formatted".
	RawSearchReport(ctx context.Context, index, key string) (string, liberr.Error)
}

// Handle reads one request line off conn, decodes it, calls into backend,
// and writes the encoded response. It never returns a transport-level
// error for a well-formed-but-rejected request — those are written to the
// client as 4xx/5xx/503 responses; the liberr.Error return is reserved for
// failures of the connection itself (the response could not be written at
// all).
func Handle(ctx context.Context, conn transport.Conn, line string, backend Backend, now time.Time) liberr.Error {
	req, perr := ParseRequestLine(line)
	if perr != nil {
		status := 400
		if perr.IsCode(CodeMethodNotAllowed) {
			status = 405
		}
		return WriteError(conn, status, perr.GetCode(), perr.Error(), now)
	}

	if req.Format == FormatMXG {
		return WriteError(conn, 501, CodeUnsupportedFormat, "the mxg format is reserved and not implemented", now)
	}

	switch req.Path {
	case PathSearchIndex:
		return handleSearch(ctx, conn, req, backend, now)
	case PathRetrieveDocument:
		return handleRetrieve(ctx, conn, req, backend, now)
	case PathServerInfo:
		return handleServerInfo(ctx, conn, req, backend, now)
	case PathServerIndexInfo:
		return handleServerIndexInfo(ctx, conn, req, backend, now)
	case PathIndexInfo:
		return handleIndexInfo(ctx, conn, req, backend, now)
	case PathIndexFieldInfo:
		return handleIndexFieldInfo(ctx, conn, req, backend, now)
	case PathIndexTermInfo:
		return handleIndexTermInfo(ctx, conn, req, backend, now)
	case PathDocumentInfo:
		return handleDocumentInfo(ctx, conn, req, backend, now)
	default:
		return WriteError(conn, 400, CodeUnknownPath, string(req.Path), now)
	}
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func handleSearch(ctx context.Context, conn transport.Conn, req *Request, backend Backend, now time.Time) liberr.Error {
	if err := backend.Admit(ctx, ClassSearch); err != nil {
		return WriteError(conn, 503, err.GetCode(), err.Error(), now)
	}

	indices := SplitList(req.Query.Get("index"))
	q := spi.SearchQuery{
		Language:         req.Query.Get("language"),
		Query:            req.Query.Get("search"),
		PositiveFeedback: SplitList(req.Query.Get("positiveFeedback")),
		NegativeFeedback: SplitList(req.Query.Get("negativeFeedback")),
		Start:            atoiDefault(req.Query.Get("start"), 0),
		End:              atoiDefault(req.Query.Get("limit"), -1),
	}

	resp, err := backend.SearchIndex(ctx, indices, q)
	if err != nil {
		return WriteError(conn, 500, err.GetCode(), err.Error(), now)
	}

	echo := SearchEcho{
		Search:           q.Query,
		PositiveFeedback: q.PositiveFeedback,
		NegativeFeedback: q.NegativeFeedback,
		Report:           req.Query.GetDefault("report", "formatted"),
	}
	if len(indices) > 0 {
		switch echo.Report {
		case "formatted":
			if text, rerr := backend.MergeSearchReport(ctx, indices[0], ""); rerr == nil {
				echo.SearchReport = text
			}
		case "raw":
			if text, rerr := backend.RawSearchReport(ctx, indices[0], ""); rerr == nil {
				echo.SearchReport = text
			}
		}
	}

	body, contentType := encodeSearchResponse(resp, echo, req.Format, req.Query.Get("extensions"))
	return WriteResponse(conn, 200, contentType, body, now)
}

func encodeSearchResponse(resp *spi.SearchResponse, echo SearchEcho, f Format, extensionsRaw string) ([]byte, string) {
	switch f {
	case FormatRSS:
		return EncodeSearchResponseXML(resp, echo, true, SplitList(extensionsRaw)), ContentType(FormatRSS, "")
	case FormatJSON, FormatRuby, FormatPython:
		return EncodeSearchResponseObject(resp, echo, f), ContentType(f, "")
	default:
		return EncodeSearchResponseXML(resp, echo, false, nil), ContentType(FormatXML, "")
	}
}

func handleRetrieve(ctx context.Context, conn transport.Conn, req *Request, backend Backend, now time.Time) liberr.Error {
	if err := backend.Admit(ctx, ClassRetrieval); err != nil {
		return WriteError(conn, 503, err.GetCode(), err.Error(), now)
	}

	rreq := spi.RetrieveRequest{
		Index: req.Query.Get("index"),
		Key:   req.Query.Get("documentKey"),
		Item:  req.Query.Get("itemName"),
		Mime:  req.Query.Get("mimeType"),
		Start: -1,
		End:   -1,
	}
	data, mime, err := backend.RetrieveDocument(ctx, rreq)
	if err != nil {
		return WriteError(conn, 500, err.GetCode(), err.Error(), now)
	}
	return WriteResponse(conn, 200, ContentType(FormatRaw, mime), data, now)
}

func handleServerInfo(ctx context.Context, conn transport.Conn, req *Request, backend Backend, now time.Time) liberr.Error {
	if err := backend.Admit(ctx, ClassInformation); err != nil {
		return WriteError(conn, 503, err.GetCode(), err.Error(), now)
	}
	info, err := backend.ServerInfo(ctx)
	if err != nil {
		return WriteError(conn, 500, err.GetCode(), err.Error(), now)
	}
	body, ct := encodeServerInfo(info, req.Format)
	return WriteResponse(conn, 200, ct, body, now)
}

func handleServerIndexInfo(ctx context.Context, conn transport.Conn, req *Request, backend Backend, now time.Time) liberr.Error {
	if err := backend.Admit(ctx, ClassInformation); err != nil {
		return WriteError(conn, 503, err.GetCode(), err.Error(), now)
	}
	infos, err := backend.ServerIndexInfo(ctx)
	if err != nil {
		return WriteError(conn, 500, err.GetCode(), err.Error(), now)
	}
	body, ct := encodeIndexInfoList(infos, req.Format)
	return WriteResponse(conn, 200, ct, body, now)
}

func handleIndexInfo(ctx context.Context, conn transport.Conn, req *Request, backend Backend, now time.Time) liberr.Error {
	if err := backend.Admit(ctx, ClassInformation); err != nil {
		return WriteError(conn, 503, err.GetCode(), err.Error(), now)
	}
	info, err := backend.IndexInfo(ctx, req.Query.Get("index"))
	if err != nil {
		return WriteError(conn, 500, err.GetCode(), err.Error(), now)
	}
	body, ct := encodeIndexInfoList([]spi.IndexInfo{*info}, req.Format)
	return WriteResponse(conn, 200, ct, body, now)
}

func handleIndexFieldInfo(ctx context.Context, conn transport.Conn, req *Request, backend Backend, now time.Time) liberr.Error {
	if err := backend.Admit(ctx, ClassInformation); err != nil {
		return WriteError(conn, 503, err.GetCode(), err.Error(), now)
	}
	infos, err := backend.IndexFieldInfo(ctx, req.Query.Get("index"))
	if err != nil {
		return WriteError(conn, 500, err.GetCode(), err.Error(), now)
	}
	body, ct := encodeFieldInfoList(infos, req.Format)
	return WriteResponse(conn, 200, ct, body, now)
}

func handleIndexTermInfo(ctx context.Context, conn transport.Conn, req *Request, backend Backend, now time.Time) liberr.Error {
	if err := backend.Admit(ctx, ClassInformation); err != nil {
		return WriteError(conn, 503, err.GetCode(), err.Error(), now)
	}
	info, err := backend.IndexTermInfo(ctx, req.Query.Get("index"), req.Query.Get("term"))
	if err != nil {
		return WriteError(conn, 500, err.GetCode(), err.Error(), now)
	}
	body, ct := encodeTermInfo(info, req.Format)
	return WriteResponse(conn, 200, ct, body, now)
}

func handleDocumentInfo(ctx context.Context, conn transport.Conn, req *Request, backend Backend, now time.Time) liberr.Error {
	if err := backend.Admit(ctx, ClassInformation); err != nil {
		return WriteError(conn, 503, err.GetCode(), err.Error(), now)
	}
	info, err := backend.DocumentInfo(ctx, req.Query.Get("index"), req.Query.Get("documentKey"))
	if err != nil {
		return WriteError(conn, 500, err.GetCode(), err.Error(), now)
	}
	body, ct := encodeDocumentInfo(info, req.Format)
	return WriteResponse(conn, 200, ct, body, now)
}
