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
	"sort"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/fschiettecatte/mps/pkg/spi"
)

var (
	collatorsMu sync.Mutex
	collators   = make(map[string]*collate.Collator)
)

// collatorFor returns a cached *collate.Collator for locale, falling back
// to language.Und (root collation) for an unrecognized tag.
func collatorFor(locale string) *collate.Collator {
	collatorsMu.Lock()
	defer collatorsMu.Unlock()

	if c, ok := collators[locale]; ok {
		return c
	}
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Und
	}
	c := collate.New(tag)
	collators[locale] = c
	return c
}

// Sort orders results in place by the sort-key variant sortType names,
// ascending or descending per the variant's own Asc/Desc tag. SortNone
// leaves the order untouched. String variants compare via locale-sensitive
// collation rather than a byte-wise comparison.
func Sort(results []spi.SearchResult, sortType spi.SortType, locale string) {
	switch sortType {
	case spi.SortNone:
		return
	case spi.SortDoubleAsc:
		sort.Slice(results, func(i, j int) bool { return results[i].SortKey.Double < results[j].SortKey.Double })
	case spi.SortDoubleDesc:
		sort.Slice(results, func(i, j int) bool { return results[i].SortKey.Double > results[j].SortKey.Double })
	case spi.SortFloatAsc:
		sort.Slice(results, func(i, j int) bool { return results[i].SortKey.Float < results[j].SortKey.Float })
	case spi.SortFloatDesc:
		sort.Slice(results, func(i, j int) bool { return results[i].SortKey.Float > results[j].SortKey.Float })
	case spi.SortUint32Asc:
		sort.Slice(results, func(i, j int) bool { return results[i].SortKey.Uint32 < results[j].SortKey.Uint32 })
	case spi.SortUint32Desc:
		sort.Slice(results, func(i, j int) bool { return results[i].SortKey.Uint32 > results[j].SortKey.Uint32 })
	case spi.SortUint64Asc:
		sort.Slice(results, func(i, j int) bool { return results[i].SortKey.Uint64 < results[j].SortKey.Uint64 })
	case spi.SortUint64Desc:
		sort.Slice(results, func(i, j int) bool { return results[i].SortKey.Uint64 > results[j].SortKey.Uint64 })
	case spi.SortStringAsc, spi.SortStringDesc:
		col := collatorFor(locale)
		sort.Slice(results, func(i, j int) bool {
			c := col.CompareString(results[i].SortKey.String, results[j].SortKey.String)
			if sortType == spi.SortStringDesc {
				return c > 0
			}
			return c < 0
		})
	}
}
