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

// The *Info encoders below are deliberately simpler than the search
// response encoder: §4.4 does not prescribe element names for them beyond
// "the obvious projection of the SPI struct", so each mirrors the struct's
// own field names.

func encodeServerInfo(info *spi.ServerInfo, f Format) ([]byte, string) {
	if isObjectFormat(f) {
		syn := syntaxFor(f)
		var b strings.Builder
		b.WriteString("{\n")
		fmt.Fprintf(&b, "  %s%s%s,\n", syn.key("name"), syn.kvSep, syn.str(info.Name))
		fmt.Fprintf(&b, "  %s%s%s,\n", syn.key("description"), syn.kvSep, syn.str(info.Description))
		fmt.Fprintf(&b, "  %s%s[%s]\n", syn.key("indices"), syn.kvSep, joinQuoted(info.Indices, syn))
		b.WriteString("}\n")
		return []byte(b.String()), ContentType(f, "")
	}

	rss := f == FormatRSS
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	if rss {
		writeRSSOpen(&b, nil)
	} else {
		b.WriteString("<serverInfo>\n")
	}
	fmt.Fprintf(&b, "  <name>%s</name>\n", EscapeXML(info.Name))
	fmt.Fprintf(&b, "  <description>%s</description>\n", EscapeXML(info.Description))
	for _, idx := range info.Indices {
		fmt.Fprintf(&b, "  <index>%s</index>\n", EscapeXML(idx))
	}
	if rss {
		b.WriteString("</channel>\n</rss>\n")
	} else {
		b.WriteString("</serverInfo>\n")
	}
	return []byte(b.String()), ContentType(f, "")
}

func encodeIndexInfoList(infos []spi.IndexInfo, f Format) ([]byte, string) {
	if isObjectFormat(f) {
		syn := syntaxFor(f)
		var b strings.Builder
		b.WriteString("[\n")
		for i, info := range infos {
			fmt.Fprintf(&b, "  {%s%s%s, %s%s%s, %s%s%d, %s%s%d}",
				syn.key("name"), syn.kvSep, syn.str(info.Name),
				syn.key("description"), syn.kvSep, syn.str(info.Description),
				syn.key("documentCount"), syn.kvSep, info.DocumentCount,
				syn.key("termCount"), syn.kvSep, info.TermCount,
			)
			if i < len(infos)-1 {
				b.WriteString(",")
			}
			b.WriteString("\n")
		}
		b.WriteString("]\n")
		return []byte(b.String()), ContentType(f, "")
	}

	rss := f == FormatRSS
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	if rss {
		writeRSSOpen(&b, nil)
	} else {
		b.WriteString("<indexInfoList>\n")
	}
	for _, info := range infos {
		b.WriteString("  <indexInfo>\n")
		fmt.Fprintf(&b, "    <name>%s</name>\n", EscapeXML(info.Name))
		fmt.Fprintf(&b, "    <description>%s</description>\n", EscapeXML(info.Description))
		fmt.Fprintf(&b, "    <documentCount>%d</documentCount>\n", info.DocumentCount)
		fmt.Fprintf(&b, "    <termCount>%d</termCount>\n", info.TermCount)
		fmt.Fprintf(&b, "    <lastUpdated>%s</lastUpdated>\n", info.LastUpdated.UTC().Format(dateLayout))
		b.WriteString("  </indexInfo>\n")
	}
	if rss {
		b.WriteString("</channel>\n</rss>\n")
	} else {
		b.WriteString("</indexInfoList>\n")
	}
	return []byte(b.String()), ContentType(f, "")
}

func encodeFieldInfoList(infos []spi.FieldInfo, f Format) ([]byte, string) {
	if isObjectFormat(f) {
		syn := syntaxFor(f)
		var b strings.Builder
		b.WriteString("[\n")
		for i, fi := range infos {
			fmt.Fprintf(&b, "  {%s%s%s, %s%s%s, %s%s%s}",
				syn.key("name"), syn.kvSep, syn.str(fi.Name),
				syn.key("description"), syn.kvSep, syn.str(fi.Description),
				syn.key("type"), syn.kvSep, syn.str(fi.Type),
			)
			if i < len(infos)-1 {
				b.WriteString(",")
			}
			b.WriteString("\n")
		}
		b.WriteString("]\n")
		return []byte(b.String()), ContentType(f, "")
	}

	rss := f == FormatRSS
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	if rss {
		writeRSSOpen(&b, nil)
	} else {
		b.WriteString("<indexFieldInfoList>\n")
	}
	for _, fi := range infos {
		b.WriteString("  <fieldInfo>\n")
		fmt.Fprintf(&b, "    <name>%s</name>\n", EscapeXML(fi.Name))
		fmt.Fprintf(&b, "    <description>%s</description>\n", EscapeXML(fi.Description))
		fmt.Fprintf(&b, "    <type>%s</type>\n", EscapeXML(fi.Type))
		b.WriteString("  </fieldInfo>\n")
	}
	if rss {
		b.WriteString("</channel>\n</rss>\n")
	} else {
		b.WriteString("</indexFieldInfoList>\n")
	}
	return []byte(b.String()), ContentType(f, "")
}

func encodeTermInfo(info *spi.TermInfo, f Format) ([]byte, string) {
	if isObjectFormat(f) {
		syn := syntaxFor(f)
		return []byte(fmt.Sprintf("{%s%s%s, %s%s%d, %s%s%v}\n",
			syn.key("term"), syn.kvSep, syn.str(info.Term),
			syn.key("documentCount"), syn.kvSep, info.DocumentCount,
			syn.key("weight"), syn.kvSep, info.Weight,
		)), ContentType(f, "")
	}

	rss := f == FormatRSS
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	if rss {
		writeRSSOpen(&b, nil)
	} else {
		b.WriteString("<termInfo>\n")
	}
	fmt.Fprintf(&b, "  <term>%s</term>\n", EscapeXML(info.Term))
	fmt.Fprintf(&b, "  <documentCount>%d</documentCount>\n", info.DocumentCount)
	fmt.Fprintf(&b, "  <weight>%v</weight>\n", info.Weight)
	if rss {
		b.WriteString("</channel>\n</rss>\n")
	} else {
		b.WriteString("</termInfo>\n")
	}
	return []byte(b.String()), ContentType(f, "")
}

func encodeDocumentInfo(info *spi.DocumentInfo, f Format) ([]byte, string) {
	if isObjectFormat(f) {
		syn := syntaxFor(f)
		return []byte(fmt.Sprintf("{%s%s%s, %s%s%s, %s%s%s, %s%s%d, %s%s[%s]}\n",
			syn.key("documentKey"), syn.kvSep, syn.str(info.Key),
			syn.key("title"), syn.kvSep, syn.str(info.Title),
			syn.key("language"), syn.kvSep, syn.str(info.Language),
			syn.key("ansiDate"), syn.kvSep, info.ANSIDate,
			syn.key("items"), syn.kvSep, joinQuoted(info.ItemNames, syn),
		)), ContentType(f, "")
	}

	rss := f == FormatRSS
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	if rss {
		writeRSSOpen(&b, nil)
	} else {
		b.WriteString("<documentInfo>\n")
	}
	fmt.Fprintf(&b, "  <documentKey>%s</documentKey>\n", EscapeXML(info.Key))
	fmt.Fprintf(&b, "  <title>%s</title>\n", EscapeXML(info.Title))
	fmt.Fprintf(&b, "  <language>%s</language>\n", EscapeXML(info.Language))
	fmt.Fprintf(&b, "  <ansiDate>%d</ansiDate>\n", info.ANSIDate)
	for _, name := range info.ItemNames {
		fmt.Fprintf(&b, "  <itemName>%s</itemName>\n", EscapeXML(name))
	}
	if rss {
		b.WriteString("</channel>\n</rss>\n")
	} else {
		b.WriteString("</documentInfo>\n")
	}
	return []byte(b.String()), ContentType(f, "")
}

func isObjectFormat(f Format) bool {
	return f == FormatJSON || f == FormatRuby || f == FormatPython
}

func joinQuoted(items []string, syn objectSyntax) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = syn.str(s)
	}
	return strings.Join(quoted, ", ")
}
