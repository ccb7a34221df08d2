/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
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

package errors

// Each package of this repository reserves a block of 100 codes so that a
// wire-level or logged code can be traced back to the component that raised
// it without a lookup table.
const (
	MinPkgTransport  = 100
	MinPkgSPI        = 200
	MinPkgLWPS       = 300
	MinPkgHTTPCodec  = 400
	MinPkgDispatch   = 500
	MinPkgAdmission  = 600
	MinPkgSession    = 700
	MinPkgLifecycle  = 800
	MinPkgPostproc   = 900
	MinPkgIndexer    = 1000
	MinPkgConfig     = 1100
	MinPkgLogger     = 1200

	MinAvailable = 2000
)
