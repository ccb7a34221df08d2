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

package memprovider

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fschiettecatte/mps/pkg/indexer"
)

// onDiskIndex is the JSON-on-disk shape an IndexWriter serializes: a
// direct mirror of Index/Document, with the filtered term list carried
// alongside each document so a Provider reopening the directory does not
// need to re-tokenize at load time.
type onDiskIndex struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Documents   []indexedDoc `json:"documents"`
}

type indexedDoc struct {
	Key      string         `json:"key"`
	Title    string         `json:"title"`
	Language string         `json:"language"`
	ANSIDate int            `json:"ansiDate"`
	Text     string         `json:"text"`
	Terms    []string       `json:"terms"`
	Items    []indexer.Item `json:"items,omitempty"`
}

// IndexWriter implements indexer.Sink by accumulating documents in
// memory and, on EndIndex, writing a single JSON file named
// "<index>.idx" under Dir — the in-memory provider's own index-directory
// format, loaded back by OpenDir. This is the reference provider's build
// path; a real storage engine would implement indexer.Sink against its
// own on-disk structures instead.
type IndexWriter struct {
	Dir string

	current *onDiskIndex
}

// BeginIndex starts accumulating documents for name.
func (w *IndexWriter) BeginIndex(ctx context.Context, name, description string) error {
	w.current = &onDiskIndex{Name: name, Description: description}
	return nil
}

// AddDocument appends one document, carrying through the already
// tokenized/filtered terms computed by indexer.Build.
func (w *IndexWriter) AddDocument(ctx context.Context, doc indexer.Document, terms []string) error {
	if w.current == nil {
		return fmt.Errorf("memprovider: AddDocument called before BeginIndex")
	}
	w.current.Documents = append(w.current.Documents, indexedDoc{
		Key:      doc.Key,
		Title:    doc.Title,
		Language: doc.Language,
		ANSIDate: parseANSIDate(doc.ANSIDate),
		Text:     doc.Text,
		Terms:    terms,
		Items:    doc.Items,
	})
	return nil
}

// EndIndex writes the accumulated index to Dir/<name>.idx as JSON.
func (w *IndexWriter) EndIndex(ctx context.Context) error {
	if w.current == nil {
		return fmt.Errorf("memprovider: EndIndex called before BeginIndex")
	}
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(w.current, "", "  ")
	if err != nil {
		return err
	}

	path := filepath.Join(w.Dir, w.current.Name+".idx")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	w.current = nil
	return nil
}

func parseANSIDate(s string) int {
	var n int
	_, _ = fmt.Sscanf(s, "%d", &n)
	return n
}
