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

// EscapeXML escapes the five XML entities in s; used by both the XML and
// RSS encoders and by anything embedding free text in an element body.
func EscapeXML(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '\'':
			b.WriteString("&apos;")
		case '"':
			b.WriteString("&quot;")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func sortTypeToken(t spi.SortType) string {
	switch t {
	case spi.SortDoubleAsc:
		return "double:asc"
	case spi.SortDoubleDesc:
		return "double:desc"
	case spi.SortFloatAsc:
		return "float:asc"
	case spi.SortFloatDesc:
		return "float:desc"
	case spi.SortUint32Asc:
		return "uint32:asc"
	case spi.SortUint32Desc:
		return "uint32:desc"
	case spi.SortUint64Asc:
		return "uint64:asc"
	case spi.SortUint64Desc:
		return "uint64:desc"
	case spi.SortStringAsc:
		return "string:asc"
	case spi.SortStringDesc:
		return "string:desc"
	default:
		return "none"
	}
}

func sortKeyToken(k spi.SortKey) string {
	switch k.Type {
	case spi.SortDoubleAsc, spi.SortDoubleDesc:
		return fmt.Sprintf("%v", k.Double)
	case spi.SortFloatAsc, spi.SortFloatDesc:
		return fmt.Sprintf("%v", k.Float)
	case spi.SortUint32Asc, spi.SortUint32Desc:
		return fmt.Sprintf("%d", k.Uint32)
	case spi.SortUint64Asc, spi.SortUint64Desc:
		return fmt.Sprintf("%d", k.Uint64)
	case spi.SortStringAsc, spi.SortStringDesc:
		return k.String
	default:
		return ""
	}
}

// SearchEcho carries the request fields §4.4 says a search response must
// echo back alongside the SPI results.
type SearchEcho struct {
	Search           string
	PositiveFeedback []string
	NegativeFeedback []string
	Report           string // none | raw | formatted
	SearchReport     string // pre-merged report text, "" if Report == "none"
}

// EncodeSearchResponseXML renders a SearchResponse as the <searchResponse>
// document §4.4 describes: request echo, totals, ordered result list, and
// an optional trailing search-report element.
func EncodeSearchResponseXML(resp *spi.SearchResponse, echo SearchEcho, rss bool, extensions []string) []byte {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")

	if rss {
		writeRSSOpen(&b, extensions)
	} else {
		b.WriteString("<searchResponse>\n")
	}

	fmt.Fprintf(&b, "  <search>%s</search>\n", EscapeXML(echo.Search))
	for _, f := range echo.PositiveFeedback {
		fmt.Fprintf(&b, "  <positiveFeedback>%s</positiveFeedback>\n", EscapeXML(f))
	}
	for _, f := range echo.NegativeFeedback {
		fmt.Fprintf(&b, "  <negativeFeedback>%s</negativeFeedback>\n", EscapeXML(f))
	}
	fmt.Fprintf(&b, "  <totalResults>%d</totalResults>\n", resp.TotalCount)
	fmt.Fprintf(&b, "  <startIndex>%d</startIndex>\n", resp.Start)
	fmt.Fprintf(&b, "  <endIndex>%d</endIndex>\n", resp.End)
	fmt.Fprintf(&b, "  <sortType>%s</sortType>\n", sortTypeToken(resp.SortType))
	fmt.Fprintf(&b, "  <maxSortKey>%s</maxSortKey>\n", EscapeXML(sortKeyToken(resp.MaxSortKey)))
	fmt.Fprintf(&b, "  <searchTime>%s</searchTime>\n", resp.ElapsedTime.String())

	for _, r := range resp.Results {
		writeSearchResultXML(&b, r)
	}

	if echo.Report != "" && echo.Report != "none" {
		fmt.Fprintf(&b, "  <searchReport format=%q>%s</searchReport>\n", echo.Report, EscapeXML(echo.SearchReport))
	}

	if rss {
		b.WriteString("</channel>\n</rss>\n")
	} else {
		b.WriteString("</searchResponse>\n")
	}
	return []byte(b.String())
}

func writeRSSOpen(b *strings.Builder, extensions []string) {
	b.WriteString(`<rss version="2.0"`)
	for _, ext := range extensions {
		switch ext {
		case "mps":
			b.WriteString(` xmlns:mps="https://mps.invalid/ns"`)
		case "opensearch":
			b.WriteString(` xmlns:opensearch="http://a9.com/-/spec/opensearch/1.1/" xmlns:relevance="http://a9.com/-/opensearch/extensions/relevance/1.0/"`)
		}
	}
	b.WriteString(">\n<channel>\n")
}

func writeSearchResultXML(b *strings.Builder, r spi.SearchResult) {
	b.WriteString("  <searchResult>\n")
	fmt.Fprintf(b, "    <index>%s</index>\n", EscapeXML(r.IndexName))
	fmt.Fprintf(b, "    <documentKey>%s</documentKey>\n", EscapeXML(r.Key))
	fmt.Fprintf(b, "    <title>%s</title>\n", EscapeXML(r.Title))
	fmt.Fprintf(b, "    <sortKey>%s</sortKey>\n", EscapeXML(sortKeyToken(r.SortKey)))
	fmt.Fprintf(b, "    <language>%s</language>\n", EscapeXML(r.Language))
	fmt.Fprintf(b, "    <rank>%v</rank>\n", r.Rank)
	fmt.Fprintf(b, "    <termCount>%d</termCount>\n", r.TermCount)
	fmt.Fprintf(b, "    <ansiDate>%d</ansiDate>\n", r.ANSIDate)
	for i, item := range r.Items {
		b.WriteString("    <item>\n")
		fmt.Fprintf(b, "      <itemName>%s</itemName>\n", EscapeXML(item.Name))
		fmt.Fprintf(b, "      <mimeType>%s</mimeType>\n", EscapeXML(item.Mime))
		fmt.Fprintf(b, "      <length>%d</length>\n", item.Length)
		if item.URL != "" {
			fmt.Fprintf(b, "      <url>%s</url>\n", EscapeXML(item.URL))
		}
		if i == 0 && len(item.Data) > 0 {
			fmt.Fprintf(b, "      <data>%s</data>\n", EscapeXML(string(item.Data)))
		}
		b.WriteString("    </item>\n")
	}
	b.WriteString("  </searchResult>\n")
}
