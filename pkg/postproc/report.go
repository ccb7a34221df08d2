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

import "strings"

// ReportMerger is the shape of a function that folds one provider's raw
// per-index search-report text (retrieved as the
// "document"/"application/x-mps-search-report" item) for several indices
// into one human-readable block. The spi.Provider interface has no merge
// operation, so no provider-supplied merger is called: pkg/dispatch always
// uses MergeAndFormatSearchReports below.
type ReportMerger func(reports map[string]string) string

// MergeAndFormatSearchReports is the merger this package ships: one
// section per index, in the order names appears, skipping indices with no
// report text at all.
func MergeAndFormatSearchReports(names []string, reports map[string]string) string {
	var b strings.Builder
	for _, name := range names {
		text, ok := reports[name]
		if !ok || text == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("[")
		b.WriteString(name)
		b.WriteString("]\n")
		b.WriteString(strings.TrimRight(text, "\n"))
		b.WriteString("\n")
	}
	return b.String()
}
