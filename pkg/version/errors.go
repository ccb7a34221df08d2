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

package version

import liberr "github.com/fschiettecatte/mps/pkg/errors"

// version has no reserved block in modules.go: it takes the first codes
// of the available range (MinAvailable upward) since it is used by both
// binaries but never appears on the wire.
const (
	ErrorParamEmpty liberr.CodeError = liberr.MinAvailable + iota
	ErrorGoVersionInit
	ErrorGoVersionRuntime
	ErrorGoVersionConstraint
)

func init() {
	liberr.RegisterMessages(ErrorParamEmpty, ErrorGoVersionConstraint+1, func(code liberr.CodeError) string {
		switch code {
		case ErrorParamEmpty:
			return "required version parameter is empty"
		case ErrorGoVersionInit:
			return "required Go version constraint is malformed"
		case ErrorGoVersionRuntime:
			return "runtime Go version string is malformed"
		case ErrorGoVersionConstraint:
			return "running Go version does not satisfy the required constraint"
		default:
			return liberr.UnknownMessage
		}
	})
}
