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

// Package admission implements the load-based admission controller
// (spec.md §4.7): before a search, retrieval, or information operation
// runs, the one-minute load average is checked against a per-class
// ceiling and the operation is rejected outright if it is exceeded,
// without ever consulting the SPI provider.
package admission

import (
	"context"

	"github.com/shirou/gopsutil/v3/load"

	"github.com/fschiettecatte/mps/pkg/config"
	liberr "github.com/fschiettecatte/mps/pkg/errors"
)

// Class names the operation class a request belongs to.
type Class uint8

const (
	ClassConnection Class = iota
	ClassSearch
	ClassRetrieval
	ClassInformation
)

func (c Class) String() string {
	switch c {
	case ClassConnection:
		return "connection"
	case ClassSearch:
		return "search"
	case ClassRetrieval:
		return "retrieval"
	case ClassInformation:
		return "information"
	default:
		return "unknown"
	}
}

// LoadReader returns the current one-minute load average. It is a
// variable on Controller rather than a free function so tests can stub
// it without depending on the host's actual load.
type LoadReader func() (float64, error)

// GopsutilLoadReader reads the one-minute load average through
// gopsutil/v3/load, the same dependency the teacher module carries for
// its own host metrics collection.
func GopsutilLoadReader() (float64, error) {
	avg, err := load.Avg()
	if err != nil {
		return 0, err
	}
	return avg.Load1, nil
}

// Controller enforces the five one-minute load-average ceilings of
// spec.md §4.7. The zero value is not usable; build one with New.
type Controller struct {
	Maxima config.LoadMaxima
	Read   LoadReader
}

// New builds a Controller that reads load through gopsutil.
func New(maxima config.LoadMaxima) *Controller {
	return &Controller{Maxima: maxima, Read: GopsutilLoadReader}
}

func (c *Controller) ceilingFor(class Class) float64 {
	switch class {
	case ClassConnection:
		return c.Maxima.Connection
	case ClassSearch:
		return c.Maxima.Search
	case ClassRetrieval:
		return c.Maxima.Retrieval
	case ClassInformation:
		return c.Maxima.Information
	default:
		return c.Maxima.Overall
	}
}

// Admit checks class's ceiling against the current one-minute load
// average. A ceiling <= 0 disables the class entirely (always admitted).
// A failed load read is treated as "not exceeded", per spec: admission
// control must never itself become a source of outages.
func (c *Controller) Admit(ctx context.Context, class Class) liberr.Error {
	ceiling := c.ceilingFor(class)
	if ceiling <= 0 {
		return nil
	}

	load1, err := c.Read()
	if err != nil {
		return nil
	}

	if load1 > ceiling {
		return CodeExceededLoadMaximum.Errorf(
			"one-minute load average %.2f exceeds the %.2f maximum for %s operations",
			load1, ceiling, class)
	}
	return nil
}
