/*
 * MIT License
 *
 * Copyright (c) 2021 Nicolas JUHEL
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

package logger

import "github.com/sirupsen/logrus"

// Fields is a set of structured key/value pairs attached to a log entry,
// e.g. the connection's remote address or a session's reference-ID.
type Fields map[string]interface{}

// Add returns a copy of f with key/val set.
func (f Fields) Add(key string, val interface{}) Fields {
	n := f.clone()
	n[key] = val
	return n
}

// Merge returns a copy of f with every key of other set, overwriting on
// collision.
func (f Fields) Merge(other Fields) Fields {
	n := f.clone()
	for k, v := range other {
		n[k] = v
	}
	return n
}

func (f Fields) clone() Fields {
	n := make(Fields, len(f)+1)
	for k, v := range f {
		n[k] = v
	}
	return n
}

func (f Fields) logrus() logrus.Fields {
	return logrus.Fields(f)
}
