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

package indexer

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"strings"

	liberr "github.com/fschiettecatte/mps/pkg/errors"
	"github.com/fschiettecatte/mps/pkg/logger"
)

// Options bounds one Build run: which index is being written, what
// stoplist/stemmer/term-length filters apply per term, and the
// in-memory budget before a warning is logged (spec.md §6,
// --maximum-memory; real spilling-to-disk is the Sink's concern, not
// this package's — the indexer only tracks and reports the estimate).
type Options struct {
	IndexName         string
	Description       string
	StopList          StopList
	Stemmer           Stemmer
	MinimumTermLength int
	MaximumTermLength int
	MaximumMemoryMB   int
	Suppress          bool
}

// Stats summarizes one Build run for the indexer CLI's closing log line.
type Stats struct {
	Documents int
	Terms     int
	Bytes     int64
}

func (o Options) passesLength(term string) bool {
	if o.MinimumTermLength > 0 && len(term) < o.MinimumTermLength {
		return false
	}
	if o.MaximumTermLength > 0 && len(term) > o.MaximumTermLength {
		return false
	}
	return true
}

// Build reads newline-delimited JSON Documents from r (spec.md §6,
// --stream, default stdin), tokenizes and filters each one's text, and
// feeds the result to sink. One malformed line aborts the whole run —
// partial indices are not a supported outcome.
func Build(ctx context.Context, r io.Reader, sink Sink, opt Options, log logger.Logger) (Stats, liberr.Error) {
	var stats Stats

	if err := sink.BeginIndex(ctx, opt.IndexName, opt.Description); err != nil {
		return stats, CodeSinkFailed.Error(err)
	}

	budget := int64(opt.MaximumMemoryMB) * 1024 * 1024
	warned := false

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(bytesTrimSpace(line)) == 0 {
			continue
		}

		var doc Document
		if err := json.Unmarshal(line, &doc); err != nil {
			return stats, CodeMalformedDocument.Error(err)
		}

		stats.Bytes += doc.approxSize()
		if budget > 0 && !warned && stats.Bytes > budget {
			warned = true
			if log != nil {
				log.Warning("index build exceeded maximum-memory estimate", logger.Fields{
					"limitMB": opt.MaximumMemoryMB,
					"bytes":   stats.Bytes,
				})
			}
		}

		tokens := Tokenize(doc.Text)
		terms := FilterTerms(tokens, opt.StopList, opt.Stemmer)
		kept := terms[:0]
		for _, t := range terms {
			if opt.passesLength(t) {
				kept = append(kept, t)
			}
		}

		if err := sink.AddDocument(ctx, doc, kept); err != nil {
			return stats, CodeSinkFailed.Error(err)
		}

		stats.Documents++
		stats.Terms += len(kept)

		if !opt.Suppress && log != nil && stats.Documents%1000 == 0 {
			log.Info("indexing in progress", logger.Fields{"documents": stats.Documents})
		}
	}
	if err := scanner.Err(); err != nil {
		return stats, CodeStreamReadFailed.Error(err)
	}

	if err := sink.EndIndex(ctx); err != nil {
		return stats, CodeSinkFailed.Error(err)
	}

	if !opt.Suppress && log != nil {
		log.Info("index build complete", logger.Fields{
			"index":     opt.IndexName,
			"documents": stats.Documents,
			"terms":     stats.Terms,
		})
	}

	return stats, nil
}

func bytesTrimSpace(b []byte) []byte {
	return []byte(strings.TrimSpace(string(b)))
}
