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
	"time"

	"github.com/fschiettecatte/mps/pkg/admission"
	liberr "github.com/fschiettecatte/mps/pkg/errors"
	"github.com/fschiettecatte/mps/pkg/lwps"
	"github.com/fschiettecatte/mps/pkg/spi"
	"github.com/fschiettecatte/mps/pkg/transport"
)

// LWPSHandler builds a dispatch.Handler that speaks the LWPS binary
// protocol over conn: it reads frames, calls into backend, and writes a
// matching response frame, looping until the peer closes the connection,
// a read times out, or isTerminating reports true between requests.
func LWPSHandler(backend *SessionBackend, requestTimeout time.Duration, isTerminating func() bool) Handler {
	return func(ctx context.Context, conn transport.Conn) liberr.Error {
		for {
			if isTerminating != nil && isTerminating() {
				return nil
			}

			if requestTimeout > 0 {
				if err := conn.SetDeadline(time.Now().Add(requestTimeout)); err != nil {
					return err
				}
			}

			id, msg, err := lwps.ReadFrame(conn)
			if err != nil {
				if err.IsCode(transport.CodeSocketClosed) {
					return nil
				}
				return err
			}

			if serveErr := serveLWPSFrame(ctx, conn, backend, id, msg); serveErr != nil {
				if serveErr.IsCode(transport.CodeSocketClosed) {
					return nil
				}
				return serveErr
			}

			if err := conn.Send(); err != nil {
				return err
			}

			if conn.Datagram() {
				return nil
			}
		}
	}
}

func writeLWPSError(conn transport.Conn, refID string, err liberr.Error) liberr.Error {
	return lwps.WriteFrame(conn, lwps.MsgErrorMessage, &lwps.ErrorMessage{
		Code:        err.GetCode(),
		Description: err.Error(),
		RefID:       refID,
	})
}

func serveLWPSFrame(ctx context.Context, conn transport.Conn, backend *SessionBackend, id lwps.MessageID, msg interface{}) liberr.Error {
	switch id {
	case lwps.MsgInitRequest:
		req := msg.(*lwps.InitRequest)
		if aerr := backend.admitClass(ctx, admission.ClassConnection); aerr != nil {
			return writeLWPSError(conn, req.RefID, aerr)
		}
		return lwps.WriteFrame(conn, lwps.MsgInitResponse, &lwps.InitResponse{RefID: req.RefID})

	case lwps.MsgSearchRequest:
		req := msg.(*lwps.SearchRequest)
		if aerr := backend.admitClass(ctx, admission.ClassSearch); aerr != nil {
			return writeLWPSError(conn, req.RefID, aerr)
		}
		resp, serr := backend.SearchIndex(ctx, req.Indices, spi.SearchQuery{
			Language:         req.Language,
			Query:            req.Query,
			PositiveFeedback: req.PositiveFeedback,
			NegativeFeedback: req.NegativeFeedback,
			Start:            int(req.Start),
			End:              int(req.End),
		})
		if serr != nil {
			return writeLWPSError(conn, req.RefID, serr)
		}
		return lwps.WriteFrame(conn, lwps.MsgSearchResponse, &lwps.SearchResponse{Response: resp, RefID: req.RefID})

	case lwps.MsgRetrievalRequest:
		req := msg.(*lwps.RetrievalRequest)
		if aerr := backend.admitClass(ctx, admission.ClassRetrieval); aerr != nil {
			return writeLWPSError(conn, req.RefID, aerr)
		}
		data, _, rerr := backend.RetrieveDocument(ctx, spi.RetrieveRequest{
			Index:     req.Index,
			Key:       req.Key,
			Item:      req.Item,
			Mime:      req.Mime,
			ChunkType: req.ChunkType,
			Start:     req.Start,
			End:       req.End,
		})
		if rerr != nil {
			return writeLWPSError(conn, req.RefID, rerr)
		}
		return lwps.WriteFrame(conn, lwps.MsgRetrievalResponse, &lwps.RetrievalResponse{Data: data, RefID: req.RefID})

	case lwps.MsgServerInfoRequest:
		req := msg.(*lwps.ServerInfoRequest)
		if aerr := backend.admitClass(ctx, admission.ClassInformation); aerr != nil {
			return writeLWPSError(conn, req.RefID, aerr)
		}
		info, ierr := backend.ServerInfo(ctx)
		if ierr != nil {
			return writeLWPSError(conn, req.RefID, ierr)
		}
		return lwps.WriteFrame(conn, lwps.MsgServerInfoResponse, &lwps.ServerInfoResponse{Info: info, RefID: req.RefID})

	case lwps.MsgServerIndexInfoRequest:
		req := msg.(*lwps.ServerIndexInfoRequest)
		if aerr := backend.admitClass(ctx, admission.ClassInformation); aerr != nil {
			return writeLWPSError(conn, req.RefID, aerr)
		}
		infos, ierr := backend.ServerIndexInfo(ctx)
		if ierr != nil {
			return writeLWPSError(conn, req.RefID, ierr)
		}
		return lwps.WriteFrame(conn, lwps.MsgServerIndexInfoResponse, &lwps.ServerIndexInfoResponse{Infos: infos, RefID: req.RefID})

	case lwps.MsgIndexInfoRequest:
		req := msg.(*lwps.IndexInfoRequest)
		if aerr := backend.admitClass(ctx, admission.ClassInformation); aerr != nil {
			return writeLWPSError(conn, req.RefID, aerr)
		}
		info, ierr := backend.IndexInfo(ctx, req.Index)
		if ierr != nil {
			return writeLWPSError(conn, req.RefID, ierr)
		}
		return lwps.WriteFrame(conn, lwps.MsgIndexInfoResponse, &lwps.IndexInfoResponse{Info: info, RefID: req.RefID})

	case lwps.MsgIndexFieldInfoRequest:
		req := msg.(*lwps.IndexFieldInfoRequest)
		if aerr := backend.admitClass(ctx, admission.ClassInformation); aerr != nil {
			return writeLWPSError(conn, req.RefID, aerr)
		}
		infos, ierr := backend.IndexFieldInfo(ctx, req.Index)
		if ierr != nil {
			return writeLWPSError(conn, req.RefID, ierr)
		}
		return lwps.WriteFrame(conn, lwps.MsgIndexFieldInfoResponse, &lwps.IndexFieldInfoResponse{Infos: infos, RefID: req.RefID})

	case lwps.MsgIndexTermInfoRequest:
		req := msg.(*lwps.IndexTermInfoRequest)
		if aerr := backend.admitClass(ctx, admission.ClassInformation); aerr != nil {
			return writeLWPSError(conn, req.RefID, aerr)
		}
		info, ierr := backend.IndexTermInfo(ctx, req.Index, req.Term)
		if ierr != nil {
			return writeLWPSError(conn, req.RefID, ierr)
		}
		return lwps.WriteFrame(conn, lwps.MsgIndexTermInfoResponse, &lwps.IndexTermInfoResponse{Info: info, RefID: req.RefID})

	case lwps.MsgDocumentInfoRequest:
		req := msg.(*lwps.DocumentInfoRequest)
		if aerr := backend.admitClass(ctx, admission.ClassInformation); aerr != nil {
			return writeLWPSError(conn, req.RefID, aerr)
		}
		info, ierr := backend.DocumentInfo(ctx, req.Index, req.Key)
		if ierr != nil {
			return writeLWPSError(conn, req.RefID, ierr)
		}
		return lwps.WriteFrame(conn, lwps.MsgDocumentInfoResponse, &lwps.DocumentInfoResponse{Info: info, RefID: req.RefID})

	default:
		return CodeUnknownLWPSMessage.Errorf("message ID %d", id)
	}
}
