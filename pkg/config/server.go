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
	"strconv"
	"strings"
	"time"
)

// LoadMaxima holds the five one-minute-load-average ceilings the admission
// controller (spec.md §4.7) enforces. A value <= 0 disables that class.
type LoadMaxima struct {
	Overall     float64
	Connection  float64
	Search      float64
	Retrieval   float64
	Information float64
}

// DefaultLoadMaxima mirrors the CLI defaults: every class at 5.0.
func DefaultLoadMaxima() LoadMaxima {
	return LoadMaxima{Overall: 5.0, Connection: 5.0, Search: 5.0, Retrieval: 5.0, Information: 5.0}
}

// SocketSpec is one parsed `--socket=proto:host:port` occurrence.
type SocketSpec struct {
	Proto string // "tcp" or "udp"
	Host  string // empty means all addresses
	Port  int
}

// ParseSocketSpec parses "proto:host:port", "host:port" (proto defaults to
// tcp), or ":port" (host defaults to all addresses).
func ParseSocketSpec(s string) (SocketSpec, error) {
	parts := strings.Split(s, ":")

	var proto, host, port string
	switch len(parts) {
	case 2:
		proto, host, port = "tcp", parts[0], parts[1]
	case 3:
		proto, host, port = parts[0], parts[1], parts[2]
	default:
		return SocketSpec{}, fmt.Errorf("invalid socket spec %q", s)
	}

	if proto != "tcp" && proto != "udp" {
		return SocketSpec{}, fmt.Errorf("invalid socket protocol %q in %q", proto, s)
	}

	p, err := strconv.Atoi(port)
	if err != nil || p <= 0 {
		return SocketSpec{}, fmt.Errorf("invalid socket port in %q", s)
	}

	return SocketSpec{Proto: proto, Host: host, Port: p}, nil
}

// Addr renders the socket spec as a net.Listen-compatible address.
func (s SocketSpec) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// ServerConfig is the fully parsed set of CLI flags for the `mpsd` binary
// (spec.md §6, "CLI (server)").
type ServerConfig struct {
	Session

	Sockets []SocketSpec
	Timeout time.Duration // 0 = no request timeout

	User string

	Children          int
	Threads           int
	ThreadStackSizeMB int
	Sessions          int // 0 = unbounded
	StartupInterval   time.Duration

	Daemon        bool
	ProcessIDFile string
	Check         bool

	MaxLoad LoadMaxima

	Locale    string
	LogTarget string
	LogLevel  int
}

// DefaultServerConfig mirrors the CLI defaults of spec.md §6.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Timeout:         60 * time.Second,
		Threads:         4,
		Sessions:        200,
		StartupInterval: 250 * time.Millisecond,
		MaxLoad:         DefaultLoadMaxima(),
		Locale:          "en_US.UTF-8",
		LogTarget:       "stderr",
		LogLevel:        4,
	}
}

// IndexerConfig is the fully parsed set of CLI flags for the `mpsindex`
// binary (spec.md §6, "CLI (indexer)").
type IndexerConfig struct {
	Session

	IndexName         string `validate:"required"`
	Description       string
	StopListName      string
	StopFilePath      string
	StemmerName       string
	MinimumTermLength int
	MaximumTermLength int
	StreamPath        string // "" means stdin
	MaximumMemoryMB   int
	Suppress          bool
	Locale            string
	LogTarget         string
	LogLevel          int
}

// DefaultIndexerConfig mirrors the indexer CLI defaults of spec.md §6.
func DefaultIndexerConfig() IndexerConfig {
	return IndexerConfig{
		MinimumTermLength: 1,
		MaximumMemoryMB:   512,
		Locale:            "en_US.UTF-8",
		LogTarget:         "stderr",
		LogLevel:          4,
	}
}
