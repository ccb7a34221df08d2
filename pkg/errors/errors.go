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

import (
	"errors"
	"fmt"
	"strings"
)

// Error extends the standard error interface with a numeric code and a
// chain of parent errors, so a single value can carry both "what failed"
// (the code, usable on the wire) and "why" (the underlying cause chain,
// usable in logs).
type Error interface {
	error

	// IsCode reports whether this error's own code equals code.
	IsCode(code CodeError) bool
	// HasCode reports whether this error or any parent has code.
	HasCode(code CodeError) bool
	// GetCode returns this error's own code.
	GetCode() CodeError

	// HasParent reports whether any parent error was attached.
	HasParent() bool
	// AddParentError attaches additional parent errors.
	AddParentError(parents ...error)
	// Unwrap exposes the parent chain to errors.Is/errors.As.
	Unwrap() []error
}

type ers struct {
	code    CodeError
	message string
	parents []error
}

// New builds an Error with the given code, message, and parents.
func New(code CodeError, message string, parents ...error) Error {
	return &ers{
		code:    code,
		message: message,
		parents: compact(parents),
	}
}

// Newf is like New but formats message with args via fmt.Sprintf.
func Newf(code CodeError, message string, args ...interface{}) Error {
	return &ers{
		code:    code,
		message: fmt.Sprintf(message, args...),
	}
}

func compact(in []error) []error {
	out := make([]error, 0, len(in))
	for _, e := range in {
		if e != nil {
			out = append(out, e)
		}
	}
	return out
}

func (e *ers) Error() string {
	if len(e.parents) == 0 {
		return e.message
	}

	parts := make([]string, 0, len(e.parents)+1)
	parts = append(parts, e.message)
	for _, p := range e.parents {
		parts = append(parts, p.Error())
	}
	return strings.Join(parts, ": ")
}

func (e *ers) IsCode(code CodeError) bool {
	return e.code == code
}

func (e *ers) HasCode(code CodeError) bool {
	if e.code == code {
		return true
	}
	for _, p := range e.parents {
		if Has(p, code) {
			return true
		}
	}
	return false
}

func (e *ers) GetCode() CodeError {
	return e.code
}

func (e *ers) HasParent() bool {
	return len(e.parents) > 0
}

func (e *ers) AddParentError(parents ...error) {
	e.parents = append(e.parents, compact(parents)...)
}

func (e *ers) Unwrap() []error {
	return e.parents
}

// Is reports whether target is (or wraps) an Error value.
func Is(target error) bool {
	var e Error
	return errors.As(target, &e)
}

// Get returns target as an Error if it is one, or nil.
func Get(target error) Error {
	var e Error
	if errors.As(target, &e) {
		return e
	}
	return nil
}

// Has reports whether target is, wraps, or has as a parent an Error with
// the given code.
func Has(target error, code CodeError) bool {
	if e := Get(target); e != nil {
		return e.HasCode(code)
	}
	return false
}

// IfError returns a non-nil Error built from code/message only if at least
// one of parents is non-nil; otherwise it returns nil. Useful for
// accumulating optional parent errors into a single conditional result.
func IfError(code CodeError, message string, parents ...error) Error {
	p := compact(parents)
	if len(p) == 0 {
		return nil
	}
	return New(code, message, p...)
}
