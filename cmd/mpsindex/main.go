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

// Command mpsindex is the MPS indexer (spec.md §6, "CLI (indexer)"): it
// reads newline-delimited JSON documents from --stream (or stdin),
// tokenizes and filters their text, and writes the result to
// --index-directory through the reference in-memory provider's sink.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fschiettecatte/mps/pkg/config"
	"github.com/fschiettecatte/mps/pkg/indexer"
	"github.com/fschiettecatte/mps/pkg/logger"
	"github.com/fschiettecatte/mps/pkg/spi/memprovider"
	"github.com/fschiettecatte/mps/pkg/version"
)

var (
	release = "dev"
	commit  = "none"
	date    = "unknown"
)

type mainMarker struct{}

func buildVersion() version.Version {
	return version.NewVersion(version.License_MIT, "mpsindex",
		"MPS index builder", date, commit, release, "fschiettecatte", "mpsindex", mainMarker{}, 0)
}

func main() {
	v := buildVersion()

	root := &cobra.Command{
		Use:     "mpsindex",
		Short:   v.GetDescription(),
		Version: release,
		RunE:    run,
	}
	root.SetVersionTemplate(v.GetInfo() + "\n")

	vpr := viper.New()
	config.RegisterIndexerFlags(root, vpr)
	root.Flags().SortFlags = false

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	vpr := viper.New()
	_ = vpr.BindPFlags(cmd.Flags())

	cfg, cerr := config.LoadIndexerConfig(vpr)
	if cerr != nil {
		return cerr
	}

	lvl := logger.ParseLevel(fmt.Sprint(cfg.LogLevel))
	log, lerr := logger.Open(cfg.LogTarget, lvl)
	if lerr != nil {
		return lerr
	}
	defer log.Close()

	in, closeIn, ierr := openStream(cfg.StreamPath)
	if ierr != nil {
		return ierr
	}
	defer closeIn()

	sink := &memprovider.IndexWriter{Dir: cfg.IndexDirectory}

	opt := indexer.Options{
		IndexName:         cfg.IndexName,
		Description:       cfg.Description,
		StopList:          resolveStopList(cfg),
		Stemmer:           resolveStemmer(cfg),
		MinimumTermLength: cfg.MinimumTermLength,
		MaximumTermLength: cfg.MaximumTermLength,
		MaximumMemoryMB:   cfg.MaximumMemoryMB,
		Suppress:          cfg.Suppress,
	}

	stats, berr := indexer.Build(context.Background(), in, sink, opt, log)
	if berr != nil {
		return berr
	}

	if cfg.Suppress {
		return nil
	}
	fmt.Printf("%s: %d documents, %d terms, %d bytes\n", cfg.IndexName, stats.Documents, stats.Terms, stats.Bytes)
	return nil
}

// openStream opens --stream, or falls back to stdin when it is blank.
// Stdin's own Close is left to the runtime, so its closer is a no-op.
func openStream(path string) (io.Reader, func(), error) {
	if path == "" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, func() {}, err
	}
	return f, func() { f.Close() }, nil
}

// resolveStopList honors --stop-list/--stop-file once a real named
// stoplist or stop-file loader exists; until then every name resolves to
// NullStopList, matching spec.md §1's note that stoplists are a
// provider concern this reference build does not implement.
func resolveStopList(cfg *config.IndexerConfig) indexer.StopList {
	if cfg.StopListName == "" && cfg.StopFilePath == "" {
		return nil
	}
	return indexer.NullStopList{}
}

// resolveStemmer mirrors resolveStopList: --stemmer names a real
// stemming algorithm to plug in later, and falls back to NullStemmer
// until one exists.
func resolveStemmer(cfg *config.IndexerConfig) indexer.Stemmer {
	if cfg.StemmerName == "" {
		return nil
	}
	return indexer.NullStemmer{}
}
