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

package admission

import (
	"context"
	"errors"
	"testing"

	"github.com/fschiettecatte/mps/pkg/config"
)

func TestAdmitRejectsAboveCeiling(t *testing.T) {
	c := New(config.LoadMaxima{Search: 5.0})
	c.Read = func() (float64, error) { return 10.0, nil }

	err := c.Admit(context.Background(), ClassSearch)
	if err == nil {
		t.Fatal("expected rejection above the ceiling")
	}
	if !err.IsCode(CodeExceededLoadMaximum) {
		t.Fatalf("expected CodeExceededLoadMaximum, got %v", err.GetCode())
	}
}

func TestAdmitAllowsAtOrBelowCeiling(t *testing.T) {
	c := New(config.LoadMaxima{Search: 5.0})
	c.Read = func() (float64, error) { return 4.9, nil }

	if err := c.Admit(context.Background(), ClassSearch); err != nil {
		t.Fatalf("expected admission below ceiling, got %v", err)
	}
}

func TestAdmitDisabledWhenCeilingNonPositive(t *testing.T) {
	c := New(config.LoadMaxima{Search: 0})
	c.Read = func() (float64, error) { return 1000.0, nil }

	if err := c.Admit(context.Background(), ClassSearch); err != nil {
		t.Fatalf("expected class with non-positive ceiling to always admit, got %v", err)
	}
}

func TestAdmitTreatsReadFailureAsNotExceeded(t *testing.T) {
	c := New(config.LoadMaxima{Search: 5.0})
	c.Read = func() (float64, error) { return 0, errors.New("boom") }

	if err := c.Admit(context.Background(), ClassSearch); err != nil {
		t.Fatalf("expected a failed load read to be treated as not exceeded, got %v", err)
	}
}
