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

// Package httpcodec implements the text/HTTP request decoder and the
// RSS/XML/object-notation/raw response encoders of the serving core's
// second wire protocol.
package httpcodec

import "strings"

// Values holds decoded query parameters; repeated keys collapse to their
// last occurrence, which is all the recognized paths in §4.4 ever need.
type Values map[string]string

// Get returns the decoded value for key, or "" if absent.
func (v Values) Get(key string) string { return v[key] }

// GetDefault returns the decoded value for key, or def if absent.
func (v Values) GetDefault(key, def string) string {
	if s, ok := v[key]; ok {
		return s
	}
	return def
}

// entities is the fixed set of XML entities query decoding must recognize.
var entities = map[string]byte{
	"&amp;":  '&',
	"&lt;":   '<',
	"&gt;":   '>',
	"&apos;": '\'',
	"&quot;": '"',
}

// DecodeQuery parses a raw query string (the part after '?'): '+' becomes
// space, '%XX' becomes its byte, and the five XML entities are recognized
// in values; any other '&XX;'-shaped text that isn't one of those entities
// is left untouched.
func DecodeQuery(raw string) Values {
	values := Values{}
	if raw == "" {
		return values
	}

	for _, pair := range splitPairs(raw) {
		if pair == "" {
			continue
		}
		key, val, hasVal := strings.Cut(pair, "=")
		key = decodeQueryValue(key)
		if hasVal {
			val = decodeQueryValue(val)
		}
		values[key] = val
	}
	return values
}

// splitPairs splits a query string on '&', but only on '&' that is not the
// start of one of the five recognized entity sequences — an entity's own
// '&' must survive into decodeQueryValue so it can be recognized there.
func splitPairs(raw string) []string {
	var pairs []string
	start := 0
	for i := 0; i < len(raw); i++ {
		if raw[i] != '&' {
			continue
		}
		if entityAt(raw, i) != "" {
			continue
		}
		pairs = append(pairs, raw[start:i])
		start = i + 1
	}
	pairs = append(pairs, raw[start:])
	return pairs
}

// entityAt returns the recognized entity literal starting at raw[i], or ""
// if none matches.
func entityAt(raw string, i int) string {
	for lit := range entities {
		if strings.HasPrefix(raw[i:], lit) {
			return lit
		}
	}
	return ""
}

func decodeQueryValue(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		switch {
		case s[i] == '+':
			b.WriteByte(' ')
			i++
		case s[i] == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]):
			b.WriteByte(hexByte(s[i+1], s[i+2]))
			i += 3
		case s[i] == '&':
			if lit := entityAt(s, i); lit != "" {
				b.WriteByte(entities[lit])
				i += len(lit)
				continue
			}
			b.WriteByte(s[i])
			i++
		default:
			b.WriteByte(s[i])
			i++
		}
	}
	return b.String()
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexVal(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}

func hexByte(hi, lo byte) byte {
	return hexVal(hi)<<4 | hexVal(lo)
}

// SplitList splits a comma/space-separated list value, e.g. an `index`
// query parameter naming several indices.
func SplitList(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' '
	})
	return fields
}
