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

// Package spi defines the Search-Provider Interface: the narrow contract
// the serving core calls into a storage engine through. The core never
// implements search, ranking, or storage itself — it only calls Provider.
package spi

import "time"

// SortType tags which variant of SortKey a SearchResponse's results carry.
// Invariant: every SearchResult in a SearchResponse carries the variant
// named by the response's SortType.
type SortType uint8

const (
	SortNone SortType = iota
	SortDoubleAsc
	SortDoubleDesc
	SortFloatAsc
	SortFloatDesc
	SortUint32Asc
	SortUint32Desc
	SortUint64Asc
	SortUint64Desc
	SortStringAsc
	SortStringDesc
)

// SortKey is a tagged union over the five sort-key representations a
// provider may report a result under.
type SortKey struct {
	Type   SortType
	Double float64
	Float  float32
	Uint32 uint32
	Uint64 uint64
	String string
}

// DocumentItem is one retrievable artifact attached to a search result:
// item name, MIME type, byte length, and either a URL or inline data.
type DocumentItem struct {
	Name   string
	Mime   string
	Length int64
	URL    string
	Data   []byte
}

// IsSearchReport reports whether this item is the well-known search-report
// pairing (item name "document", MIME type
// "application/x-mps-search-report") that the core routes separately
// through post-processing instead of treating as an ordinary retrievable.
func (d DocumentItem) IsSearchReport() bool {
	return d.Name == "document" && d.Mime == "application/x-mps-search-report"
}

// SearchResult is one matched document within a SearchResponse.
type SearchResult struct {
	IndexName string
	Key       string
	Title     string
	Language  string // optional, "" if unset
	SortKey   SortKey
	Rank      float64
	TermCount int
	ANSIDate  int // YYYYMMDD, 0 if unset
	Items     []DocumentItem
}

// SearchResponse is the ordered result of a SearchIndex call.
type SearchResponse struct {
	Results     []SearchResult
	TotalCount  int
	Start       int // inclusive
	End         int // inclusive
	SortType    SortType
	MaxSortKey  SortKey
	ElapsedTime time.Duration
}

// ServerInfo describes the running provider instance.
type ServerInfo struct {
	Name        string
	Description string
	Indices     []string
}

// IndexInfo describes one open index.
type IndexInfo struct {
	Name          string
	Description   string
	DocumentCount int
	TermCount     int
	LastUpdated   time.Time
}

// FieldInfo describes one indexed field.
type FieldInfo struct {
	Name        string
	Description string
	Type        string
}

// TermInfo describes one indexed term.
type TermInfo struct {
	Term          string
	DocumentCount int
	Weight        float64
}

// DocumentInfo describes one stored document.
type DocumentInfo struct {
	Key       string
	Title     string
	Language  string
	ANSIDate  int
	ItemNames []string
}

// ChunkType selects which slice of a retrievable item RetrieveDocument
// returns.
type ChunkType uint8

const (
	ChunkWhole ChunkType = iota
	ChunkByte
	ChunkChar
	ChunkLine
)
