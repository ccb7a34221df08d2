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

// Package config holds the process-wide Session (spec.md §3) and the
// CLI-derived ServerConfig/IndexerConfig structures, plus the cobra/viper
// wiring that populates them (spec.md §6).
package config

// Session is the process-wide configuration visible to every request
// handler: immutable after startup, safely shared across worker
// threads/processes without synchronization.
type Session struct {
	// IndexDirectory is the root directory the SPI provider opens indices
	// under ("--index-directory").
	IndexDirectory string `validate:"required"`

	// ConfigurationDirectory holds optional per-install configuration
	// overlays ("--configuration-directory"). Empty disables the overlay.
	ConfigurationDirectory string

	// TemporaryDirectory is scratch space for transient buffers
	// ("--temporary-directory").
	TemporaryDirectory string

	// ProviderState is an opaque pointer the SPI implementation may use to
	// carry its own process-wide state; the core never dereferences it.
	ProviderState interface{}
}
