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

package lwps

import (
	liberr "github.com/fschiettecatte/mps/pkg/errors"
	"github.com/fschiettecatte/mps/pkg/spi"
)

// Every message struct below carries RefID last, both on the wire and in
// the struct; the codec never interprets it.

type InitRequest struct {
	Username string
	Password string
	RefID    string
}

type InitResponse struct {
	RefID string
}

type SearchRequest struct {
	Indices          []string
	Language         string
	Query            string
	PositiveFeedback []string
	NegativeFeedback []string
	Start            int32
	End              int32
	RefID            string
}

type SearchResponse struct {
	Response *spi.SearchResponse
	RefID    string
}

type RetrievalRequest struct {
	Index     string
	Key       string
	Item      string
	Mime      string
	ChunkType spi.ChunkType
	Start     int64
	End       int64
	RefID     string
}

type RetrievalResponse struct {
	Data  []byte
	RefID string
}

type ServerInfoRequest struct{ RefID string }
type ServerInfoResponse struct {
	Info  *spi.ServerInfo
	RefID string
}

type ServerIndexInfoRequest struct{ RefID string }
type ServerIndexInfoResponse struct {
	Infos []spi.IndexInfo
	RefID string
}

type IndexInfoRequest struct {
	Index string
	RefID string
}
type IndexInfoResponse struct {
	Info  *spi.IndexInfo
	RefID string
}

type IndexFieldInfoRequest struct {
	Index string
	RefID string
}
type IndexFieldInfoResponse struct {
	Infos []spi.FieldInfo
	RefID string
}

type IndexTermInfoRequest struct {
	Index string
	Term  string
	RefID string
}
type IndexTermInfoResponse struct {
	Info  *spi.TermInfo
	RefID string
}

type DocumentInfoRequest struct {
	Index string
	Key   string
	RefID string
}
type DocumentInfoResponse struct {
	Info  *spi.DocumentInfo
	RefID string
}

type ErrorMessage struct {
	Code        liberr.CodeError
	Description string
	RefID       string
}
