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
	"encoding/binary"
	"time"

	liberr "github.com/fschiettecatte/mps/pkg/errors"
	"github.com/fschiettecatte/mps/pkg/spi"
	"github.com/fschiettecatte/mps/pkg/transport"
)

func durationFromNanos(ns int64) time.Duration { return time.Duration(ns) }
func timeFromUnix(sec int64) time.Time         { return time.Unix(sec, 0).UTC() }

// ReadFrame consumes one complete frame from c: the 5-byte header (already
// peeked by the caller via PeekHeader) plus a 4-byte body length and the
// body itself, then decodes it into the message value matching id.
func ReadFrame(c transport.Conn) (MessageID, interface{}, liberr.Error) {
	hdr, err := c.ReadN(5)
	if err != nil {
		return 0, nil, err
	}
	if hdr[0] != Magic {
		return 0, nil, CodeBadMagic.Errorf("got %#x", hdr[0])
	}
	id := MessageID(binary.BigEndian.Uint32(hdr[1:5]))

	lenBuf, err := c.ReadN(4)
	if err != nil {
		return 0, nil, err
	}
	bodyLen := binary.BigEndian.Uint32(lenBuf)
	if bodyLen > MaxFieldLength {
		return 0, nil, CodeFieldTooLarge.Errorf("frame body %d bytes", bodyLen)
	}
	body, err := c.ReadN(int(bodyLen))
	if err != nil {
		return 0, nil, err
	}

	msg, derr := decode(id, body)
	return id, msg, derr
}

// WriteFrame stages the encoded form of msg (one of the *Request/*Response
// types in messages.go) into c's send buffer under message-ID id. The
// caller flushes with c.Send().
func WriteFrame(c transport.Conn, id MessageID, msg interface{}) liberr.Error {
	fw := newFrameWriter(id)
	if err := encodeInto(fw, id, msg); err != nil {
		return err
	}

	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(fw.body)))

	frame := fw.finish(id)
	out := make([]byte, 0, 5+4+len(fw.body))
	out = append(out, frame[:5]...)
	out = append(out, lenBuf[:]...)
	out = append(out, frame[5:]...)

	return c.Write(out)
}

func encodeInto(fw *frameWriter, id MessageID, msg interface{}) liberr.Error {
	switch id {
	case MsgInitRequest:
		m := msg.(*InitRequest)
		fw.putString(m.Username)
		fw.putString(m.Password)
		fw.putString(m.RefID)
	case MsgInitResponse:
		m := msg.(*InitResponse)
		fw.putString(m.RefID)
	case MsgSearchRequest:
		m := msg.(*SearchRequest)
		fw.putStrings(m.Indices)
		fw.putString(m.Language)
		fw.putString(m.Query)
		fw.putStrings(m.PositiveFeedback)
		fw.putStrings(m.NegativeFeedback)
		fw.putInt32(m.Start)
		fw.putInt32(m.End)
		fw.putString(m.RefID)
	case MsgSearchResponse:
		m := msg.(*SearchResponse)
		putSearchResponse(fw, m.Response)
		fw.putString(m.RefID)
	case MsgRetrievalRequest:
		m := msg.(*RetrievalRequest)
		fw.putString(m.Index)
		fw.putString(m.Key)
		fw.putString(m.Item)
		fw.putString(m.Mime)
		fw.putByte(byte(m.ChunkType))
		fw.putInt64(m.Start)
		fw.putInt64(m.End)
		fw.putString(m.RefID)
	case MsgRetrievalResponse:
		m := msg.(*RetrievalResponse)
		fw.putBytes(m.Data)
		fw.putString(m.RefID)
	case MsgServerInfoRequest:
		fw.putString(msg.(*ServerInfoRequest).RefID)
	case MsgServerInfoResponse:
		m := msg.(*ServerInfoResponse)
		putServerInfo(fw, m.Info)
		fw.putString(m.RefID)
	case MsgServerIndexInfoRequest:
		fw.putString(msg.(*ServerIndexInfoRequest).RefID)
	case MsgServerIndexInfoResponse:
		m := msg.(*ServerIndexInfoResponse)
		fw.putUint32(uint32(len(m.Infos)))
		for i := range m.Infos {
			putIndexInfo(fw, &m.Infos[i])
		}
		fw.putString(m.RefID)
	case MsgIndexInfoRequest:
		m := msg.(*IndexInfoRequest)
		fw.putString(m.Index)
		fw.putString(m.RefID)
	case MsgIndexInfoResponse:
		m := msg.(*IndexInfoResponse)
		putIndexInfo(fw, m.Info)
		fw.putString(m.RefID)
	case MsgIndexFieldInfoRequest:
		m := msg.(*IndexFieldInfoRequest)
		fw.putString(m.Index)
		fw.putString(m.RefID)
	case MsgIndexFieldInfoResponse:
		m := msg.(*IndexFieldInfoResponse)
		fw.putUint32(uint32(len(m.Infos)))
		for _, f := range m.Infos {
			fw.putString(f.Name)
			fw.putString(f.Description)
			fw.putString(f.Type)
		}
		fw.putString(m.RefID)
	case MsgIndexTermInfoRequest:
		m := msg.(*IndexTermInfoRequest)
		fw.putString(m.Index)
		fw.putString(m.Term)
		fw.putString(m.RefID)
	case MsgIndexTermInfoResponse:
		m := msg.(*IndexTermInfoResponse)
		fw.putString(m.Info.Term)
		fw.putInt32(int32(m.Info.DocumentCount))
		fw.putFloat64(m.Info.Weight)
		fw.putString(m.RefID)
	case MsgDocumentInfoRequest:
		m := msg.(*DocumentInfoRequest)
		fw.putString(m.Index)
		fw.putString(m.Key)
		fw.putString(m.RefID)
	case MsgDocumentInfoResponse:
		m := msg.(*DocumentInfoResponse)
		putDocumentInfo(fw, m.Info)
		fw.putString(m.RefID)
	case MsgErrorMessage:
		m := msg.(*ErrorMessage)
		fw.putUint32(uint32(m.Code))
		fw.putString(m.Description)
		fw.putString(m.RefID)
	default:
		return CodeUnknownMessageID.Errorf("%d", id)
	}
	return nil
}

func decode(id MessageID, body []byte) (interface{}, liberr.Error) {
	r := newFrameReader(body)
	var err liberr.Error

	switch id {
	case MsgInitRequest:
		m := &InitRequest{}
		if m.Username, err = r.getString(); err != nil {
			return nil, err
		}
		if m.Password, err = r.getString(); err != nil {
			return nil, err
		}
		if m.RefID, err = r.getString(); err != nil {
			return nil, err
		}
		return m, nil
	case MsgInitResponse:
		m := &InitResponse{}
		if m.RefID, err = r.getString(); err != nil {
			return nil, err
		}
		return m, nil
	case MsgSearchRequest:
		m := &SearchRequest{}
		if m.Indices, err = r.getStrings(); err != nil {
			return nil, err
		}
		if m.Language, err = r.getString(); err != nil {
			return nil, err
		}
		if m.Query, err = r.getString(); err != nil {
			return nil, err
		}
		if m.PositiveFeedback, err = r.getStrings(); err != nil {
			return nil, err
		}
		if m.NegativeFeedback, err = r.getStrings(); err != nil {
			return nil, err
		}
		if m.Start, err = r.getInt32(); err != nil {
			return nil, err
		}
		if m.End, err = r.getInt32(); err != nil {
			return nil, err
		}
		if m.RefID, err = r.getString(); err != nil {
			return nil, err
		}
		return m, nil
	case MsgSearchResponse:
		m := &SearchResponse{}
		if m.Response, err = getSearchResponse(r); err != nil {
			return nil, err
		}
		if m.RefID, err = r.getString(); err != nil {
			return nil, err
		}
		return m, nil
	case MsgRetrievalRequest:
		m := &RetrievalRequest{}
		if m.Index, err = r.getString(); err != nil {
			return nil, err
		}
		if m.Key, err = r.getString(); err != nil {
			return nil, err
		}
		if m.Item, err = r.getString(); err != nil {
			return nil, err
		}
		if m.Mime, err = r.getString(); err != nil {
			return nil, err
		}
		ct, err2 := r.getByte()
		if err2 != nil {
			return nil, err2
		}
		m.ChunkType = spi.ChunkType(ct)
		if m.Start, err = r.getInt64(); err != nil {
			return nil, err
		}
		if m.End, err = r.getInt64(); err != nil {
			return nil, err
		}
		if m.RefID, err = r.getString(); err != nil {
			return nil, err
		}
		return m, nil
	case MsgRetrievalResponse:
		m := &RetrievalResponse{}
		if m.Data, err = r.getBytes(); err != nil {
			return nil, err
		}
		if m.RefID, err = r.getString(); err != nil {
			return nil, err
		}
		return m, nil
	case MsgServerInfoRequest:
		m := &ServerInfoRequest{}
		if m.RefID, err = r.getString(); err != nil {
			return nil, err
		}
		return m, nil
	case MsgServerInfoResponse:
		m := &ServerInfoResponse{}
		if m.Info, err = getServerInfo(r); err != nil {
			return nil, err
		}
		if m.RefID, err = r.getString(); err != nil {
			return nil, err
		}
		return m, nil
	case MsgServerIndexInfoRequest:
		m := &ServerIndexInfoRequest{}
		if m.RefID, err = r.getString(); err != nil {
			return nil, err
		}
		return m, nil
	case MsgServerIndexInfoResponse:
		m := &ServerIndexInfoResponse{}
		n, err2 := r.getUint32()
		if err2 != nil {
			return nil, err2
		}
		m.Infos = make([]spi.IndexInfo, n)
		for i := range m.Infos {
			info, err3 := getIndexInfo(r)
			if err3 != nil {
				return nil, err3
			}
			m.Infos[i] = *info
		}
		if m.RefID, err = r.getString(); err != nil {
			return nil, err
		}
		return m, nil
	case MsgIndexInfoRequest:
		m := &IndexInfoRequest{}
		if m.Index, err = r.getString(); err != nil {
			return nil, err
		}
		if m.RefID, err = r.getString(); err != nil {
			return nil, err
		}
		return m, nil
	case MsgIndexInfoResponse:
		m := &IndexInfoResponse{}
		if m.Info, err = getIndexInfo(r); err != nil {
			return nil, err
		}
		if m.RefID, err = r.getString(); err != nil {
			return nil, err
		}
		return m, nil
	case MsgIndexFieldInfoRequest:
		m := &IndexFieldInfoRequest{}
		if m.Index, err = r.getString(); err != nil {
			return nil, err
		}
		if m.RefID, err = r.getString(); err != nil {
			return nil, err
		}
		return m, nil
	case MsgIndexFieldInfoResponse:
		m := &IndexFieldInfoResponse{}
		n, err2 := r.getUint32()
		if err2 != nil {
			return nil, err2
		}
		m.Infos = make([]spi.FieldInfo, n)
		for i := range m.Infos {
			if m.Infos[i].Name, err = r.getString(); err != nil {
				return nil, err
			}
			if m.Infos[i].Description, err = r.getString(); err != nil {
				return nil, err
			}
			if m.Infos[i].Type, err = r.getString(); err != nil {
				return nil, err
			}
		}
		if m.RefID, err = r.getString(); err != nil {
			return nil, err
		}
		return m, nil
	case MsgIndexTermInfoRequest:
		m := &IndexTermInfoRequest{}
		if m.Index, err = r.getString(); err != nil {
			return nil, err
		}
		if m.Term, err = r.getString(); err != nil {
			return nil, err
		}
		if m.RefID, err = r.getString(); err != nil {
			return nil, err
		}
		return m, nil
	case MsgIndexTermInfoResponse:
		m := &IndexTermInfoResponse{Info: &spi.TermInfo{}}
		if m.Info.Term, err = r.getString(); err != nil {
			return nil, err
		}
		dc, err2 := r.getInt32()
		if err2 != nil {
			return nil, err2
		}
		m.Info.DocumentCount = int(dc)
		if m.Info.Weight, err = r.getFloat64(); err != nil {
			return nil, err
		}
		if m.RefID, err = r.getString(); err != nil {
			return nil, err
		}
		return m, nil
	case MsgDocumentInfoRequest:
		m := &DocumentInfoRequest{}
		if m.Index, err = r.getString(); err != nil {
			return nil, err
		}
		if m.Key, err = r.getString(); err != nil {
			return nil, err
		}
		if m.RefID, err = r.getString(); err != nil {
			return nil, err
		}
		return m, nil
	case MsgDocumentInfoResponse:
		m := &DocumentInfoResponse{}
		if m.Info, err = getDocumentInfo(r); err != nil {
			return nil, err
		}
		if m.RefID, err = r.getString(); err != nil {
			return nil, err
		}
		return m, nil
	case MsgErrorMessage:
		m := &ErrorMessage{}
		code, err2 := r.getUint32()
		if err2 != nil {
			return nil, err2
		}
		m.Code = liberr.ParseCodeError(int64(code))
		if m.Description, err = r.getString(); err != nil {
			return nil, err
		}
		if m.RefID, err = r.getString(); err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, CodeUnknownMessageID.Errorf("%d", id)
	}
}

func putSortKey(fw *frameWriter, k spi.SortKey) {
	fw.putByte(byte(k.Type))
	switch k.Type {
	case spi.SortDoubleAsc, spi.SortDoubleDesc:
		fw.putFloat64(k.Double)
	case spi.SortFloatAsc, spi.SortFloatDesc:
		fw.putFloat32(k.Float)
	case spi.SortUint32Asc, spi.SortUint32Desc:
		fw.putUint32(k.Uint32)
	case spi.SortUint64Asc, spi.SortUint64Desc:
		fw.putUint64(k.Uint64)
	case spi.SortStringAsc, spi.SortStringDesc:
		fw.putString(k.String)
	}
}

func getSortKey(r *frameReader) (spi.SortKey, liberr.Error) {
	t, err := r.getByte()
	if err != nil {
		return spi.SortKey{}, err
	}
	k := spi.SortKey{Type: spi.SortType(t)}
	switch k.Type {
	case spi.SortDoubleAsc, spi.SortDoubleDesc:
		k.Double, err = r.getFloat64()
	case spi.SortFloatAsc, spi.SortFloatDesc:
		k.Float, err = r.getFloat32()
	case spi.SortUint32Asc, spi.SortUint32Desc:
		k.Uint32, err = r.getUint32()
	case spi.SortUint64Asc, spi.SortUint64Desc:
		k.Uint64, err = r.getUint64()
	case spi.SortStringAsc, spi.SortStringDesc:
		k.String, err = r.getString()
	}
	return k, err
}

func putDocumentItem(fw *frameWriter, it spi.DocumentItem) {
	fw.putString(it.Name)
	fw.putString(it.Mime)
	fw.putInt64(it.Length)
	fw.putString(it.URL)
	fw.putBytes(it.Data)
}

func getDocumentItem(r *frameReader) (spi.DocumentItem, liberr.Error) {
	var it spi.DocumentItem
	var err liberr.Error
	if it.Name, err = r.getString(); err != nil {
		return it, err
	}
	if it.Mime, err = r.getString(); err != nil {
		return it, err
	}
	if it.Length, err = r.getInt64(); err != nil {
		return it, err
	}
	if it.URL, err = r.getString(); err != nil {
		return it, err
	}
	if it.Data, err = r.getBytes(); err != nil {
		return it, err
	}
	return it, nil
}

func putSearchResult(fw *frameWriter, res spi.SearchResult) {
	fw.putString(res.IndexName)
	fw.putString(res.Key)
	fw.putString(res.Title)
	fw.putString(res.Language)
	putSortKey(fw, res.SortKey)
	fw.putFloat64(res.Rank)
	fw.putInt32(int32(res.TermCount))
	fw.putInt32(int32(res.ANSIDate))
	fw.putUint32(uint32(len(res.Items)))
	for _, it := range res.Items {
		putDocumentItem(fw, it)
	}
}

func getSearchResult(r *frameReader) (spi.SearchResult, liberr.Error) {
	var res spi.SearchResult
	var err liberr.Error
	if res.IndexName, err = r.getString(); err != nil {
		return res, err
	}
	if res.Key, err = r.getString(); err != nil {
		return res, err
	}
	if res.Title, err = r.getString(); err != nil {
		return res, err
	}
	if res.Language, err = r.getString(); err != nil {
		return res, err
	}
	if res.SortKey, err = getSortKey(r); err != nil {
		return res, err
	}
	if res.Rank, err = r.getFloat64(); err != nil {
		return res, err
	}
	tc, err2 := r.getInt32()
	if err2 != nil {
		return res, err2
	}
	res.TermCount = int(tc)
	ad, err3 := r.getInt32()
	if err3 != nil {
		return res, err3
	}
	res.ANSIDate = int(ad)

	n, err4 := r.getUint32()
	if err4 != nil {
		return res, err4
	}
	res.Items = make([]spi.DocumentItem, n)
	for i := range res.Items {
		if res.Items[i], err = getDocumentItem(r); err != nil {
			return res, err
		}
	}
	return res, nil
}

func putSearchResponse(fw *frameWriter, resp *spi.SearchResponse) {
	fw.putUint32(uint32(len(resp.Results)))
	for _, r := range resp.Results {
		putSearchResult(fw, r)
	}
	fw.putInt32(int32(resp.TotalCount))
	fw.putInt32(int32(resp.Start))
	fw.putInt32(int32(resp.End))
	fw.putByte(byte(resp.SortType))
	putSortKey(fw, resp.MaxSortKey)
	fw.putInt64(int64(resp.ElapsedTime))
}

func getSearchResponse(r *frameReader) (*spi.SearchResponse, liberr.Error) {
	resp := &spi.SearchResponse{}
	n, err := r.getUint32()
	if err != nil {
		return nil, err
	}
	resp.Results = make([]spi.SearchResult, n)
	for i := range resp.Results {
		if resp.Results[i], err = getSearchResult(r); err != nil {
			return nil, err
		}
	}
	tc, err := r.getInt32()
	if err != nil {
		return nil, err
	}
	resp.TotalCount = int(tc)
	s, err := r.getInt32()
	if err != nil {
		return nil, err
	}
	resp.Start = int(s)
	e, err := r.getInt32()
	if err != nil {
		return nil, err
	}
	resp.End = int(e)
	st, err := r.getByte()
	if err != nil {
		return nil, err
	}
	resp.SortType = spi.SortType(st)
	if resp.MaxSortKey, err = getSortKey(r); err != nil {
		return nil, err
	}
	elapsed, err := r.getInt64()
	if err != nil {
		return nil, err
	}
	resp.ElapsedTime = durationFromNanos(elapsed)
	return resp, nil
}

func putServerInfo(fw *frameWriter, info *spi.ServerInfo) {
	fw.putString(info.Name)
	fw.putString(info.Description)
	fw.putStrings(info.Indices)
}

func getServerInfo(r *frameReader) (*spi.ServerInfo, liberr.Error) {
	info := &spi.ServerInfo{}
	var err liberr.Error
	if info.Name, err = r.getString(); err != nil {
		return nil, err
	}
	if info.Description, err = r.getString(); err != nil {
		return nil, err
	}
	if info.Indices, err = r.getStrings(); err != nil {
		return nil, err
	}
	return info, nil
}

func putIndexInfo(fw *frameWriter, info *spi.IndexInfo) {
	fw.putString(info.Name)
	fw.putString(info.Description)
	fw.putInt32(int32(info.DocumentCount))
	fw.putInt32(int32(info.TermCount))
	fw.putInt64(info.LastUpdated.Unix())
}

func getIndexInfo(r *frameReader) (*spi.IndexInfo, liberr.Error) {
	info := &spi.IndexInfo{}
	var err liberr.Error
	if info.Name, err = r.getString(); err != nil {
		return nil, err
	}
	if info.Description, err = r.getString(); err != nil {
		return nil, err
	}
	dc, err2 := r.getInt32()
	if err2 != nil {
		return nil, err2
	}
	info.DocumentCount = int(dc)
	tc, err3 := r.getInt32()
	if err3 != nil {
		return nil, err3
	}
	info.TermCount = int(tc)
	unix, err4 := r.getInt64()
	if err4 != nil {
		return nil, err4
	}
	info.LastUpdated = timeFromUnix(unix)
	return info, nil
}

func putDocumentInfo(fw *frameWriter, info *spi.DocumentInfo) {
	fw.putString(info.Key)
	fw.putString(info.Title)
	fw.putString(info.Language)
	fw.putInt32(int32(info.ANSIDate))
	fw.putStrings(info.ItemNames)
}

func getDocumentInfo(r *frameReader) (*spi.DocumentInfo, liberr.Error) {
	info := &spi.DocumentInfo{}
	var err liberr.Error
	if info.Key, err = r.getString(); err != nil {
		return nil, err
	}
	if info.Title, err = r.getString(); err != nil {
		return nil, err
	}
	if info.Language, err = r.getString(); err != nil {
		return nil, err
	}
	ad, err2 := r.getInt32()
	if err2 != nil {
		return nil, err2
	}
	info.ANSIDate = int(ad)
	if info.ItemNames, err = r.getStrings(); err != nil {
		return nil, err
	}
	return info, nil
}
