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

// Package postproc implements the serving core's result post-processing
// (spec.md §4.9): trimming a provider's search results to the requested
// window, sorting by the response's sort key, and merging per-index
// search-report text into one human-readable block.
package postproc

import "github.com/fschiettecatte/mps/pkg/spi"

// hasSearchReport reports whether r carries the well-known search-report
// document item, making it exempt from window trimming.
func hasSearchReport(r spi.SearchResult) bool {
	for _, it := range r.Items {
		if it.IsSearchReport() {
			return true
		}
	}
	return false
}

// Splice trims results to the inclusive window [start, end], preserving
// any search-report-bearing entry regardless of where it falls relative
// to the window by shifting it into the retained prefix. An empty window
// (end < start) frees the entire array, report entries included.
//
// start and end are absolute offsets into results, the same contract the
// original iSpiSpliceSearchResults implements against the full result
// array it is handed: calling Splice exactly once per search response,
// against the provider's full result set, is the supported use. Calling
// Splice again on its own output with the same (start, end) is not a
// no-op in general — a preserved report entry shifts the retained
// window's length, so the second call's absolute indices address a
// different logical position than the first call's did. Only start == 0
// windows that already retain the whole array are stable under repeated
// application.
func Splice(results []spi.SearchResult, start, end int) []spi.SearchResult {
	if len(results) == 0 {
		return results
	}
	if start < 0 {
		start = 0
	}
	if end >= len(results) {
		end = len(results) - 1
	}
	if end < start {
		return nil
	}

	kept := make([]spi.SearchResult, end-start+1, end-start+1+len(results)-(end-start+1))
	copy(kept, results[start:end+1])

	for i, r := range results {
		if i >= start && i <= end {
			continue
		}
		if hasSearchReport(r) {
			kept = append(kept, r)
		}
	}
	return kept
}
