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

package postproc

import (
	"testing"

	"github.com/fschiettecatte/mps/pkg/spi"
)

func mkResults(n int) []spi.SearchResult {
	out := make([]spi.SearchResult, n)
	for i := range out {
		out[i] = spi.SearchResult{Key: string(rune('a' + i))}
	}
	return out
}

func TestSpliceWindow(t *testing.T) {
	results := mkResults(5)
	spliced := Splice(results, 1, 3)
	if len(spliced) != 3 {
		t.Fatalf("expected 3 results, got %d", len(spliced))
	}
	if spliced[0].Key != "b" || spliced[2].Key != "d" {
		t.Fatalf("unexpected window contents: %+v", spliced)
	}
}

func TestSpliceReapplyAtZeroIsStable(t *testing.T) {
	// Splice is meant to run once, against the full result set; a window
	// starting at 0 that already retains the whole array is the one case
	// where reapplying it with the same bounds is still a no-op, since
	// there's nothing left outside the window for the second call to trim.
	results := mkResults(5)
	first := Splice(results, 0, 2)
	second := Splice(first, 0, 2)
	if len(first) != len(second) {
		t.Fatalf("expected stable length, got %d then %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Key != second[i].Key {
			t.Fatalf("result %d changed identity across repeated splice", i)
		}
	}
}

func TestSpliceReapplyWithOffsetWindowIsNotIdempotent(t *testing.T) {
	// Splice consumes start/end as absolute offsets into the array it is
	// given. Reapplying the same (start, end) to its own output is not
	// guaranteed to be a no-op once a preserved report entry has shifted
	// the retained window's length — the second call's absolute indices
	// no longer address the same logical page the first call saw. Splice
	// is meant to be invoked once per response, not chained.
	results := mkResults(20)
	results[15].Items = []spi.DocumentItem{{Name: "document", Mime: "application/x-mps-search-report"}}
	first := Splice(results, 2, 10)
	second := Splice(first, 2, 10)
	if len(first) == len(second) {
		t.Fatalf("expected reapplying an offset window to change length (single-invocation contract), got stable %d", len(first))
	}
}

func TestSpliceEmptyWindowFreesArray(t *testing.T) {
	results := mkResults(3)
	spliced := Splice(results, 2, 1)
	if len(spliced) != 0 {
		t.Fatalf("expected empty window to free the whole array, got %d", len(spliced))
	}
}

func TestSplicePreservesSearchReport(t *testing.T) {
	results := mkResults(4)
	results[3].Items = []spi.DocumentItem{{Name: "document", Mime: "application/x-mps-search-report"}}
	spliced := Splice(results, 0, 1)
	if len(spliced) != 3 {
		t.Fatalf("expected window plus preserved report entry, got %d", len(spliced))
	}
	if !hasSearchReport(spliced[2]) {
		t.Fatalf("expected the search-report entry to be shifted into the retained prefix")
	}
}

func TestSortDoubleDesc(t *testing.T) {
	results := []spi.SearchResult{
		{Key: "a", SortKey: spi.SortKey{Type: spi.SortDoubleDesc, Double: 0.2}},
		{Key: "b", SortKey: spi.SortKey{Type: spi.SortDoubleDesc, Double: 0.9}},
		{Key: "c", SortKey: spi.SortKey{Type: spi.SortDoubleDesc, Double: 0.5}},
	}
	Sort(results, spi.SortDoubleDesc, "en_US.UTF-8")
	if results[0].Key != "b" || results[1].Key != "c" || results[2].Key != "a" {
		t.Fatalf("unexpected order after descending sort: %+v", results)
	}
}

func TestSortNoneIsIdentity(t *testing.T) {
	results := []spi.SearchResult{{Key: "z"}, {Key: "a"}, {Key: "m"}}
	before := append([]spi.SearchResult(nil), results...)
	Sort(results, spi.SortNone, "en_US.UTF-8")
	for i := range results {
		if results[i].Key != before[i].Key {
			t.Fatalf("SortNone must leave order untouched")
		}
	}
}

func TestSortStringAscCollation(t *testing.T) {
	results := []spi.SearchResult{
		{Key: "c", SortKey: spi.SortKey{Type: spi.SortStringAsc, String: "charlie"}},
		{Key: "a", SortKey: spi.SortKey{Type: spi.SortStringAsc, String: "alpha"}},
		{Key: "b", SortKey: spi.SortKey{Type: spi.SortStringAsc, String: "bravo"}},
	}
	Sort(results, spi.SortStringAsc, "en_US.UTF-8")
	if results[0].Key != "a" || results[1].Key != "b" || results[2].Key != "c" {
		t.Fatalf("unexpected collation order: %+v", results)
	}
}

func TestMergeAndFormatSearchReports(t *testing.T) {
	merged := MergeAndFormatSearchReports([]string{"idx1", "idx2"}, map[string]string{
		"idx1": "3 documents matched",
		"idx2": "",
	})
	if merged == "" {
		t.Fatal("expected non-empty merged report")
	}
	if want := "[idx1]"; !containsSubstring(merged, want) {
		t.Fatalf("expected merged report to contain %q, got %q", want, merged)
	}
	if containsSubstring(merged, "[idx2]") {
		t.Fatalf("expected empty-report index to be skipped, got %q", merged)
	}
}

func containsSubstring(s, sub string) bool {
	return len(s) >= len(sub) && (func() bool {
		for i := 0; i+len(sub) <= len(s); i++ {
			if s[i:i+len(sub)] == sub {
				return true
			}
		}
		return false
	})()
}
