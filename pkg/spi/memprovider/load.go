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
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/fschiettecatte/mps/pkg/spi"
)

// OpenDir builds a Provider by loading every "*.idx" file written by
// IndexWriter out of dir — the directory mpsd's --index-directory points
// at when fronted by the reference provider rather than a real storage
// engine.
func OpenDir(dir string) (*Provider, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var indices []Index
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".idx") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}

		var onDisk onDiskIndex
		if err := json.Unmarshal(data, &onDisk); err != nil {
			return nil, err
		}

		idx := Index{Name: onDisk.Name}
		for _, d := range onDisk.Documents {
			items := make([]spi.DocumentItem, 0, len(d.Items))
			for _, it := range d.Items {
				items = append(items, spi.DocumentItem{
					Name:   it.Name,
					Mime:   it.Mime,
					Length: int64(len(it.Data)),
					Data:   it.Data,
				})
			}
			idx.Docs = append(idx.Docs, Document{
				Key:      d.Key,
				Title:    d.Title,
				Language: d.Language,
				ANSIDate: d.ANSIDate,
				Text:     d.Text,
				Items:    items,
			})
		}
		indices = append(indices, idx)
	}

	return New(indices...), nil
}
