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
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	liberr "github.com/fschiettecatte/mps/pkg/errors"
)

// RegisterServerFlags binds every `mpsd` CLI flag (spec.md §6, "CLI
// (server)") onto cmd and binds them into v. No environment-variable or
// configuration-file layer is set up here; values come from the flags.
func RegisterServerFlags(cmd *cobra.Command, v *viper.Viper) {
	fs := cmd.Flags()

	fs.StringSlice("socket", nil, "proto:host:port listening socket, repeatable")
	fs.String("index-directory", "", "root directory the search provider opens indices under")
	fs.String("configuration-directory", "", "optional configuration overlay directory")
	fs.String("temporary-directory", "", "scratch directory for transient buffers")
	fs.Duration("timeout", 60*time.Second, "per-request timeout, 0 disables")
	fs.String("user", "", "user to drop privileges to after binding sockets")
	fs.Int("children", 0, "forked worker processes, 0 disables the forked pool")
	fs.Int("threads", 4, "goroutine workers per process")
	fs.Int("thread-stack-size", 0, "advisory worker stack size in MB, 0 uses the runtime default")
	fs.Int("sessions", 200, "connections each worker serves before it exits and is replaced, 0 is unbounded")
	fs.Duration("startup-interval", 250*time.Millisecond, "pacing delay between worker restarts")
	fs.Bool("daemon", false, "detach from the controlling terminal")
	fs.String("process-id-file", "", "path to write the process ID to")
	fs.Bool("check", false, "validate configuration and exit")
	fs.Float64("max-load-overall", 5.0, "one-minute load ceiling for operations outside the connection, search, retrieval, and information classes; those classes use only their own flags")
	fs.Float64("max-load-connection", 5.0, "one-minute load ceiling for connection admission")
	fs.Float64("max-load-search", 5.0, "one-minute load ceiling for search operations")
	fs.Float64("max-load-retrieval", 5.0, "one-minute load ceiling for retrieval operations")
	fs.Float64("max-load-information", 5.0, "one-minute load ceiling for information operations")
	fs.String("locale", "en_US.UTF-8", "collation locale for sort post-processing")
	fs.String("log", "stderr", "log target: stderr, stdout, or a file path")
	fs.Int("level", 4, "log level, 0 (panic) through 4 (info)")
	fs.Int("mps-worker-fd", 0, "inherited listener descriptor of a forked worker")
	_ = fs.MarkHidden("mps-worker-fd")

	_ = v.BindPFlags(fs)
}

// RegisterIndexerFlags binds every `mpsindex` CLI flag (spec.md §6, "CLI
// (indexer)") onto cmd.
func RegisterIndexerFlags(cmd *cobra.Command, v *viper.Viper) {
	fs := cmd.Flags()

	fs.String("index-directory", "", "root directory to write the index under")
	fs.String("configuration-directory", "", "optional configuration overlay directory")
	fs.String("temporary-directory", "", "scratch directory for transient buffers")
	fs.String("index-name", "", "name of the index being built")
	fs.String("description", "", "free-text index description")
	fs.String("stop-list", "", "named built-in stop word list")
	fs.String("stop-file", "", "path to a custom stop word file")
	fs.String("stemmer", "", "named stemming algorithm")
	fs.Int("minimum-term-length", 1, "terms shorter than this are dropped")
	fs.Int("maximum-term-length", 0, "terms longer than this are dropped, 0 disables the ceiling")
	fs.String("stream", "", "input stream path, empty reads stdin")
	fs.Int("maximum-memory", 512, "estimated in-memory build size in MB above which a warning is logged")
	fs.Bool("suppress", false, "suppress progress output")
	fs.String("locale", "en_US.UTF-8", "collation locale")
	fs.String("log", "stderr", "log target: stderr, stdout, or a file path")
	fs.Int("level", 4, "log level, 0 (panic) through 4 (info)")

	_ = v.BindPFlags(fs)
}

// LoadServerConfig renders a bound viper instance into a validated
// ServerConfig.
func LoadServerConfig(v *viper.Viper) (*ServerConfig, liberr.Error) {
	cfg := DefaultServerConfig()

	cfg.IndexDirectory = v.GetString("index-directory")
	cfg.ConfigurationDirectory = v.GetString("configuration-directory")
	cfg.TemporaryDirectory = v.GetString("temporary-directory")
	cfg.Timeout = v.GetDuration("timeout")
	cfg.User = v.GetString("user")
	cfg.Children = v.GetInt("children")
	cfg.Threads = v.GetInt("threads")
	cfg.ThreadStackSizeMB = v.GetInt("thread-stack-size")
	cfg.Sessions = v.GetInt("sessions")
	cfg.StartupInterval = v.GetDuration("startup-interval")
	cfg.Daemon = v.GetBool("daemon")
	cfg.ProcessIDFile = v.GetString("process-id-file")
	cfg.Check = v.GetBool("check")
	cfg.MaxLoad = LoadMaxima{
		Overall:     v.GetFloat64("max-load-overall"),
		Connection:  v.GetFloat64("max-load-connection"),
		Search:      v.GetFloat64("max-load-search"),
		Retrieval:   v.GetFloat64("max-load-retrieval"),
		Information: v.GetFloat64("max-load-information"),
	}
	cfg.Locale = v.GetString("locale")
	cfg.LogTarget = v.GetString("log")
	cfg.LogLevel = v.GetInt("level")

	for _, s := range v.GetStringSlice("socket") {
		spec, err := ParseSocketSpec(s)
		if err != nil {
			return nil, CodeInvalidSocket.Error(err)
		}
		cfg.Sockets = append(cfg.Sockets, spec)
	}

	if err := ValidateServer(&cfg); err != nil && !cfg.Check {
		return &cfg, err
	}

	return &cfg, nil
}

// LoadIndexerConfig renders a bound viper instance into a validated
// IndexerConfig.
func LoadIndexerConfig(v *viper.Viper) (*IndexerConfig, liberr.Error) {
	cfg := DefaultIndexerConfig()

	cfg.IndexDirectory = v.GetString("index-directory")
	cfg.ConfigurationDirectory = v.GetString("configuration-directory")
	cfg.TemporaryDirectory = v.GetString("temporary-directory")
	cfg.IndexName = v.GetString("index-name")
	cfg.Description = v.GetString("description")
	cfg.StopListName = v.GetString("stop-list")
	cfg.StopFilePath = v.GetString("stop-file")
	cfg.StemmerName = v.GetString("stemmer")
	cfg.MinimumTermLength = v.GetInt("minimum-term-length")
	cfg.MaximumTermLength = v.GetInt("maximum-term-length")
	cfg.StreamPath = v.GetString("stream")
	cfg.MaximumMemoryMB = v.GetInt("maximum-memory")
	cfg.Suppress = v.GetBool("suppress")
	cfg.Locale = v.GetString("locale")
	cfg.LogTarget = v.GetString("log")
	cfg.LogLevel = v.GetInt("level")

	if err := ValidateIndexer(&cfg); err != nil {
		return &cfg, err
	}

	return &cfg, nil
}
