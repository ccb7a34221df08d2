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

package config

import liberr "github.com/fschiettecatte/mps/pkg/errors"

const (
	CodeInvalidSocket liberr.CodeError = liberr.MinPkgConfig + iota
	CodeMissingIndexDirectory
	CodeValidationFailed
	CodeUnreadableConfigFile
	CodeConfigWatchFailed
)

func init() {
	liberr.RegisterMessages(CodeInvalidSocket, CodeConfigWatchFailed+1, func(code liberr.CodeError) string {
		switch code {
		case CodeInvalidSocket:
			return "invalid socket specification"
		case CodeMissingIndexDirectory:
			return "index directory is required"
		case CodeValidationFailed:
			return "configuration validation failed"
		case CodeUnreadableConfigFile:
			return "configuration file could not be read"
		case CodeConfigWatchFailed:
			return "failed to watch the configuration directory"
		default:
			return liberr.UnknownMessage
		}
	})
}
