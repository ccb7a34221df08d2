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

import "strings"

// StopList decides whether a term should be dropped from the index.
// Real stoplists (per-language word lists) are outside this repo's
// scope; NullStopList and the --stop-list/--stop-file flags
// exist so a provider can plug a real one in.
type StopList interface {
	IsStopWord(term string) bool
}

// Stemmer reduces a term to its indexed root form. Real stemmers
// (Porter, Snowball, ...) are outside this repo's scope.
type Stemmer interface {
	Stem(term string) string
}

// NullStopList rejects nothing.
type NullStopList struct{}

func (NullStopList) IsStopWord(string) bool { return false }

// NullStemmer returns terms unchanged.
type NullStemmer struct{}

func (NullStemmer) Stem(term string) string { return term }

// Tokenize splits text into whitespace-delimited terms. Real tokenizers
// handle punctuation, CJK segmentation, etc.; this is the minimal
// splitter the build loop needs to apply StopList/Stemmer per term.
func Tokenize(text string) []string {
	return strings.Fields(text)
}

// FilterTerms applies a StopList and Stemmer to a token list, in that
// order, dropping stopwords before stemming the rest.
func FilterTerms(tokens []string, stop StopList, stem Stemmer) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		lower := strings.ToLower(tok)
		if stop != nil && stop.IsStopWord(lower) {
			continue
		}
		if stem != nil {
			lower = stem.Stem(lower)
		}
		out = append(out, lower)
	}
	return out
}
