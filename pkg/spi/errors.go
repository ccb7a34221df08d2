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

package spi

import liberr "github.com/fschiettecatte/mps/pkg/errors"

const (
	CodeInitializeServerFailed liberr.CodeError = liberr.MinPkgSPI + iota
	CodeShutdownServerFailed
	CodeInvalidIndexName
	CodeOpenIndexFailed
	CodeSearchFailed
	CodeRetrieveDocumentFailed
	CodeInfoUnavailable
)

func init() {
	liberr.RegisterMessages(CodeInitializeServerFailed, CodeInfoUnavailable+1, func(code liberr.CodeError) string {
		switch code {
		case CodeInitializeServerFailed:
			return "provider initialization failed"
		case CodeShutdownServerFailed:
			return "provider shutdown failed"
		case CodeInvalidIndexName:
			return "index name is unknown to the provider"
		case CodeOpenIndexFailed:
			return "provider failed to open index"
		case CodeSearchFailed:
			return "provider search failed"
		case CodeRetrieveDocumentFailed:
			return "provider document retrieval failed"
		case CodeInfoUnavailable:
			return "provider introspection is unavailable"
		default:
			return liberr.UnknownMessage
		}
	})
}

// GetErrorText renders a CodeError the way the SPI's GetErrorText
// operation does: a plain human-readable description with no prefix.
func GetErrorText(code liberr.CodeError) string {
	return code.Message()
}
