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

// Entry is a fluent log record under construction: add fields and errors to
// it, then Log() it once. Building this way lets call sites thread request
// context (remote address, reference-ID) through several layers before the
// entry is finally emitted.
type Entry struct {
	l       *logger
	level   Level
	message string
	fields  Fields
	errs    []error
}

// FieldAdd attaches one key/value pair to the entry.
func (e *Entry) FieldAdd(key string, val interface{}) *Entry {
	e.fields = e.fields.Add(key, val)
	return e
}

// ErrorAdd attaches err to the entry if cond is true and err is non-nil.
func (e *Entry) ErrorAdd(cond bool, err error) *Entry {
	if cond && err != nil {
		e.errs = append(e.errs, err)
	}
	return e
}

// Log emits the entry at its configured level.
func (e *Entry) Log() {
	e.l.write(e.level, e.message, e.fields, e.errs)
}

// Check emits the entry only if it carries at least one error, downgrading
// (or silencing, with okLevel == NilLevel) when it does not. It returns true
// when no error was present.
func (e *Entry) Check(okLevel Level) bool {
	if len(e.errs) == 0 {
		if okLevel != NilLevel {
			e.level = okLevel
			e.Log()
		}
		return true
	}
	e.Log()
	return false
}
