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
	"strings"

	liberr "github.com/fschiettecatte/mps/pkg/errors"
)

// Format selects a response encoding.
type Format uint8

const (
	FormatXML Format = iota
	FormatRSS
	FormatJSON
	FormatRuby
	FormatPython
	FormatRaw
	FormatMXG // reserved, always 501
)

func parseFormat(s string, defaultFmt Format) Format {
	switch strings.ToLower(s) {
	case "":
		return defaultFmt
	case "xml":
		return FormatXML
	case "rss":
		return FormatRSS
	case "json":
		return FormatJSON
	case "ruby":
		return FormatRuby
	case "python":
		return FormatPython
	case "raw":
		return FormatRaw
	case "mxg":
		return FormatMXG
	default:
		return defaultFmt
	}
}

// Path names one recognized request path.
type Path string

const (
	PathSearchIndex      Path = "/SearchIndex"
	PathRetrieveDocument Path = "/RetrieveDocument"
	PathServerInfo       Path = "/ServerInfo"
	PathServerIndexInfo  Path = "/ServerIndexInfo"
	PathIndexInfo        Path = "/IndexInfo"
	PathIndexFieldInfo   Path = "/IndexFieldInfo"
	PathIndexTermInfo    Path = "/IndexTermInfo"
	PathDocumentInfo     Path = "/DocumentInfo"
)

var recognizedPaths = map[Path]bool{
	PathSearchIndex:      true,
	PathRetrieveDocument: true,
	PathServerInfo:       true,
	PathServerIndexInfo:  true,
	PathIndexInfo:        true,
	PathIndexFieldInfo:   true,
	PathIndexTermInfo:    true,
	PathDocumentInfo:     true,
}

// Request is a decoded `GET /Path?Query HTTP/1.1` request line.
type Request struct {
	Path   Path
	Query  Values
	Format Format
}

// defaultFormatFor reports the default format for a path: xml for every
// path. ParseRequestLine overrides it to raw for /RetrieveDocument when
// the request names no format.
func defaultFormatFor(p Path) Format {
	return FormatXML
}

// ParseRequestLine decodes one HTTP request line. Only `GET` is accepted;
// any other method yields CodeMethodNotAllowed, and anything that isn't a
// well-formed `METHOD SP PATH?QUERY SP VERSION` line yields
// CodeMalformedRequest.
func ParseRequestLine(line string) (*Request, liberr.Error) {
	line = strings.TrimRight(line, "\r\n")
	parts := strings.Fields(line)
	if len(parts) != 3 {
		return nil, CodeMalformedRequest.Errorf("%q", line)
	}
	method, target, version := parts[0], parts[1], parts[2]

	if method != "GET" {
		return nil, CodeMethodNotAllowed.Errorf("%q", method)
	}
	if !strings.HasPrefix(version, "HTTP/") {
		return nil, CodeMalformedRequest.Errorf("%q", version)
	}
	if !strings.HasPrefix(target, "/") {
		return nil, CodeMalformedRequest.Errorf("%q", target)
	}

	rawPath, rawQuery, _ := strings.Cut(target, "?")
	path := Path(rawPath)
	if !recognizedPaths[path] {
		return nil, CodeUnknownPath.Errorf("%q", rawPath)
	}

	query := DecodeQuery(rawQuery)
	format := parseFormat(query.Get("format"), defaultFormatFor(path))
	if path == PathRetrieveDocument && query.Get("format") == "" {
		format = FormatRaw
	}

	return &Request{Path: path, Query: query, Format: format}, nil
}
