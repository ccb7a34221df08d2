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

// Package errors provides the numeric error-code taxonomy used on the wire
// (LWPS error frames, HTTP error bodies) and in logs across this repository.
//
// A CodeError is a uint16 similar in spirit to an HTTP status code: each
// package that can fail registers its own message table over a reserved
// block of codes (see modules.go) so a bare number is still traceable back
// to its origin.
package errors

import (
	"fmt"
	"math"
	"strconv"
)

// Message renders a CodeError to a human-readable string. Packages register
// one of these per reserved block in their init().
type Message func(code CodeError) string

var registry = make(map[CodeError]Message)

// CodeError is a numeric error classification, unique across the repository.
type CodeError uint16

// UnknownError is returned when no more specific code applies.
const UnknownError CodeError = 0

// UnknownMessage is the fallback text for UnknownError and any code without
// a registered message.
const UnknownMessage = "unknown error"

// RegisterMessages associates a Message function with every code in
// [first, last). Called once from each package's init().
func RegisterMessages(first, last CodeError, fn Message) {
	for c := first; c < last; c++ {
		registry[c] = fn
	}
}

// ParseCodeError clamps an arbitrary integer into the CodeError range.
func ParseCodeError(i int64) CodeError {
	switch {
	case i < 0:
		return UnknownError
	case i >= int64(math.MaxUint16):
		return CodeError(math.MaxUint16)
	default:
		return CodeError(i)
	}
}

// Uint16 returns the code as its wire representation.
func (c CodeError) Uint16() uint16 {
	return uint16(c)
}

// String returns the decimal representation of the code.
func (c CodeError) String() string {
	return strconv.Itoa(int(c))
}

// Message returns the registered human-readable text for this code, or
// UnknownMessage if none was registered.
func (c CodeError) Message() string {
	if c == UnknownError {
		return UnknownMessage
	}

	if fn, ok := registry[c]; ok {
		if m := fn(c); m != "" {
			return m
		}
	}

	return UnknownMessage
}

// Error builds an Error value carrying this code, its registered message,
// and the given parents.
func (c CodeError) Error(parents ...error) Error {
	return New(c, c.Message(), parents...)
}

// Errorf is like Error but appends a detail to the registered message: the
// first argument is a fmt.Sprintf format and the rest are its arguments,
// giving "<message>: <detail>".
func (c CodeError) Errorf(args ...interface{}) Error {
	if len(args) == 0 {
		return c.Error()
	}
	format, ok := args[0].(string)
	if !ok {
		format = fmt.Sprint(args[0])
	}
	return New(c, c.Message()+": "+fmt.Sprintf(format, args[1:]...))
}
