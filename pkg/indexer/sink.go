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

import "context"

// Sink is the narrow boundary between the indexer's stream-reading loop
// and whatever storage engine actually builds an index. It is the
// indexer-side mirror of pkg/spi.Provider: the indexer never imports
// pkg/spi directly, so mpsindex stays buildable against any SPI
// implementation without a compile-time dependency on the serving core.
type Sink interface {
	// BeginIndex opens name for writing, with description carried through
	// to the provider's info record.
	BeginIndex(ctx context.Context, name, description string) error

	// AddDocument indexes one document's terms (after FilterTerms) and
	// stores its retrievable items.
	AddDocument(ctx context.Context, doc Document, terms []string) error

	// EndIndex flushes and closes the index being built.
	EndIndex(ctx context.Context) error
}
