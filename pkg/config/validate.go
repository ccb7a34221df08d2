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

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"

	liberr "github.com/fschiettecatte/mps/pkg/errors"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func instance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

// Validate runs struct-tag validation over a ServerConfig or IndexerConfig
// (or any value carrying `validate` tags), returning a tagged Error
// aggregating every failed field.
func Validate(cfg interface{}) liberr.Error {
	if err := instance().Struct(cfg); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return CodeValidationFailed.Error(err)
		}

		parents := make([]error, 0, len(verrs))
		for _, fe := range verrs {
			parents = append(parents, fmt.Errorf("field %q failed %q", fe.Namespace(), fe.Tag()))
		}
		return CodeValidationFailed.Error(parents...)
	}
	return nil
}

// ValidateServer validates a ServerConfig. An empty socket list is
// accepted: it selects the stdio worker instead of a listening pool.
func ValidateServer(cfg *ServerConfig) liberr.Error {
	return Validate(cfg)
}

// ValidateIndexer validates an IndexerConfig.
func ValidateIndexer(cfg *IndexerConfig) liberr.Error {
	return Validate(cfg)
}
