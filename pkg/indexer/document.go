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

// Package indexer is the peripheral CLI-facing half of the system: it
// reads a stream of documents and feeds them to a provider's index
// build, rather than serving search/retrieval traffic. It depends on
// pkg/spi only through the narrow Sink interface below, so it carries
// no dependency on the serving core.
package indexer

// Item mirrors spi.DocumentItem's shape for the subset an indexer
// controls at build time: name, MIME type, and raw bytes.
type Item struct {
	Name string `json:"name"`
	Mime string `json:"mime"`
	Data []byte `json:"data"`
}

// Document is one newline-delimited-JSON record on the index stream.
type Document struct {
	Key      string `json:"key"`
	Title    string `json:"title"`
	Language string `json:"language"`
	ANSIDate string `json:"ansiDate"`
	Text     string `json:"text"`
	Items    []Item `json:"items,omitempty"`
}

// approxSize estimates the in-memory footprint of a Document for the
// purposes of --maximum-memory budgeting: exact accounting isn't the
// point. Build only compares the running total against the ceiling to
// log one warning; it does not stop or spill the build.
func (d Document) approxSize() int64 {
	n := int64(len(d.Key) + len(d.Title) + len(d.Language) + len(d.ANSIDate) + len(d.Text))
	for _, it := range d.Items {
		n += int64(len(it.Name) + len(it.Mime) + len(it.Data))
	}
	return n
}
