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

import (
	"time"

	"github.com/fschiettecatte/mps/pkg/lwps"
)

// httpLeadByte is the first byte of every request line this server
// understands: GET is the only method the HTTP codec accepts.
const httpLeadByte = 'G'

// BuildTable wires backend into a Table recognizing both wire protocols:
// lwps.Magic routes to the binary LWPS handler, httpLeadByte to the
// text HTTP handler. isTerminating lets the LWPS handler's request loop
// notice a cooperative shutdown between frames.
func BuildTable(backend *SessionBackend, requestTimeout time.Duration, isTerminating func() bool) Table {
	return Table{
		lwps.Magic:   LWPSHandler(backend, requestTimeout, isTerminating),
		httpLeadByte: HTTPHandler(backend, requestTimeout),
	}
}
