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
	"context"
	"strings"
	"testing"
)

type fakeSink struct {
	began     bool
	ended     bool
	name      string
	documents []Document
	terms     [][]string
}

func (f *fakeSink) BeginIndex(_ context.Context, name, _ string) error {
	f.began = true
	f.name = name
	return nil
}

func (f *fakeSink) AddDocument(_ context.Context, doc Document, terms []string) error {
	f.documents = append(f.documents, doc)
	f.terms = append(f.terms, terms)
	return nil
}

func (f *fakeSink) EndIndex(_ context.Context) error {
	f.ended = true
	return nil
}

func TestBuildTokenizesAndFilters(t *testing.T) {
	stream := strings.Join([]string{
		`{"key":"doc-1","title":"First","text":"The Quick Brown Fox"}`,
		`{"key":"doc-2","title":"Second","text":"a bb ccc dddd"}`,
	}, "\n")

	sink := &fakeSink{}
	opt := Options{
		IndexName:         "test-index",
		MinimumTermLength: 2,
		Suppress:          true,
	}

	stats, err := Build(context.Background(), strings.NewReader(stream), sink, opt, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !sink.began || !sink.ended {
		t.Fatal("expected BeginIndex and EndIndex to be called")
	}
	if sink.name != "test-index" {
		t.Fatalf("sink.name = %q, want test-index", sink.name)
	}
	if stats.Documents != 2 {
		t.Fatalf("stats.Documents = %d, want 2", stats.Documents)
	}

	// "a" is shorter than MinimumTermLength and must be dropped.
	if len(sink.terms[1]) != 3 {
		t.Fatalf("doc-2 terms = %v, want 3 terms with length >= 2", sink.terms[1])
	}
	for _, term := range sink.terms[0] {
		if term != strings.ToLower(term) {
			t.Fatalf("term %q was not lowercased", term)
		}
	}
}

func TestBuildRejectsMalformedLine(t *testing.T) {
	sink := &fakeSink{}
	opt := Options{IndexName: "bad", Suppress: true}

	_, err := Build(context.Background(), strings.NewReader("not json"), sink, opt, nil)
	if err == nil {
		t.Fatal("expected an error for a malformed document line")
	}
	if !err.IsCode(CodeMalformedDocument) {
		t.Fatalf("error code = %v, want CodeMalformedDocument", err.GetCode())
	}
}

func TestBuildSkipsBlankLines(t *testing.T) {
	stream := "\n  \n" + `{"key":"doc-1","text":"hello world"}` + "\n\n"

	sink := &fakeSink{}
	opt := Options{IndexName: "blank", Suppress: true}

	stats, err := Build(context.Background(), strings.NewReader(stream), sink, opt, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if stats.Documents != 1 {
		t.Fatalf("stats.Documents = %d, want 1", stats.Documents)
	}
}

func TestFilterTermsAppliesStopListAndStemmer(t *testing.T) {
	stop := stubStopList{"the": true}
	stem := stubStemmer{"foxes": "fox"}

	out := FilterTerms([]string{"The", "Foxes", "ran"}, stop, stem)
	want := []string{"fox", "ran"}
	if len(out) != len(want) {
		t.Fatalf("FilterTerms = %v, want %v", out, want)
	}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("FilterTerms[%d] = %q, want %q", i, out[i], want[i])
		}
	}
}

type stubStopList map[string]bool

func (s stubStopList) IsStopWord(term string) bool { return s[term] }

type stubStemmer map[string]string

func (s stubStemmer) Stem(term string) string {
	if v, ok := s[term]; ok {
		return v
	}
	return term
}
