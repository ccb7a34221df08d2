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
	"fmt"
	"strings"

	"github.com/fschiettecatte/mps/pkg/spi"
)

// EscapeObject backslash-escapes quotes and control characters for the
// object-notation family (JSON, ruby, python), per §4.4.
func EscapeObject(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '"':
			b.WriteString(`\"`)
		case r == '\\':
			b.WriteString(`\\`)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\t':
			b.WriteString(`\t`)
		case r < 0x20:
			fmt.Fprintf(&b, `\x%02x`, r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// objectSyntax carries the three small differences between JSON, ruby, and
// python object-notation bodies: the open/close braces (identical across
// all three), the key/value separator, and whether keys are quoted.
type objectSyntax struct {
	kvSep      string
	quotedKeys bool
	symbolKeys bool // ruby's :key shorthand
}

var (
	jsonSyntax   = objectSyntax{kvSep: ": ", quotedKeys: true}
	rubySyntax   = objectSyntax{kvSep: " => ", quotedKeys: false, symbolKeys: true}
	pythonSyntax = objectSyntax{kvSep: ": ", quotedKeys: true}
)

func syntaxFor(f Format) objectSyntax {
	switch f {
	case FormatRuby:
		return rubySyntax
	case FormatPython:
		return pythonSyntax
	default:
		return jsonSyntax
	}
}

func (s objectSyntax) key(name string) string {
	if s.symbolKeys {
		return ":" + name
	}
	if s.quotedKeys {
		return `"` + name + `"`
	}
	return name
}

func (s objectSyntax) str(v string) string { return `"` + EscapeObject(v) + `"` }

// EncodeSearchResponseObject renders a SearchResponse in JSON, ruby-hash,
// or python-dict notation depending on f.
func EncodeSearchResponseObject(resp *spi.SearchResponse, echo SearchEcho, f Format) []byte {
	syn := syntaxFor(f)
	var b strings.Builder
	b.WriteString("{\n")
	fmt.Fprintf(&b, "  %s%s%s,\n", syn.key("search"), syn.kvSep, syn.str(echo.Search))
	fmt.Fprintf(&b, "  %s%s%d,\n", syn.key("totalResults"), syn.kvSep, resp.TotalCount)
	fmt.Fprintf(&b, "  %s%s%d,\n", syn.key("startIndex"), syn.kvSep, resp.Start)
	fmt.Fprintf(&b, "  %s%s%d,\n", syn.key("endIndex"), syn.kvSep, resp.End)
	fmt.Fprintf(&b, "  %s%s%s,\n", syn.key("sortType"), syn.kvSep, syn.str(sortTypeToken(resp.SortType)))
	fmt.Fprintf(&b, "  %s%s%s,\n", syn.key("maxSortKey"), syn.kvSep, syn.str(sortKeyToken(resp.MaxSortKey)))
	fmt.Fprintf(&b, "  %s%s[\n", syn.key("results"), syn.kvSep)
	for i, r := range resp.Results {
		writeSearchResultObject(&b, r, syn)
		if i < len(resp.Results)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("  ]\n")
	b.WriteString("}\n")
	return []byte(b.String())
}

func writeSearchResultObject(b *strings.Builder, r spi.SearchResult, syn objectSyntax) {
	fmt.Fprintf(b, "    {%s%s%s, %s%s%s, %s%s%s, %s%s%v, %s%s%d}",
		syn.key("index"), syn.kvSep, syn.str(r.IndexName),
		syn.key("documentKey"), syn.kvSep, syn.str(r.Key),
		syn.key("title"), syn.kvSep, syn.str(r.Title),
		syn.key("rank"), syn.kvSep, r.Rank,
		syn.key("termCount"), syn.kvSep, r.TermCount,
	)
}
