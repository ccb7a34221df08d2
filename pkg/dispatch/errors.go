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

package dispatch

import liberr "github.com/fschiettecatte/mps/pkg/errors"

const (
	CodeUnrecognizedProtocol liberr.CodeError = liberr.MinPkgDispatch + iota
	CodeRequestLineTooLong
	CodeUnknownLWPSMessage
)

func init() {
	liberr.RegisterMessages(CodeUnrecognizedProtocol, CodeUnknownLWPSMessage+1, func(code liberr.CodeError) string {
		switch code {
		case CodeUnrecognizedProtocol:
			return "connection's first byte matches no registered protocol"
		case CodeRequestLineTooLong:
			return "HTTP request line exceeded the maximum accepted length"
		case CodeUnknownLWPSMessage:
			return "LWPS frame carried an unexpected message ID for its state"
		default:
			return liberr.UnknownMessage
		}
	})
}
