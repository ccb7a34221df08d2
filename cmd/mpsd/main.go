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

// Command mpsd is the MPS search server (spec.md §6, "CLI (server)"): it
// parses the daemon's flags, builds whichever worker strategy the flags
// ask for (stdio, forked pool, or threaded pool), and serves LWPS and
// HTTP traffic over the configured sockets until a termination signal
// is handled.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fschiettecatte/mps/pkg/admission"
	"github.com/fschiettecatte/mps/pkg/config"
	"github.com/fschiettecatte/mps/pkg/dispatch"
	liberr "github.com/fschiettecatte/mps/pkg/errors"
	"github.com/fschiettecatte/mps/pkg/lifecycle"
	"github.com/fschiettecatte/mps/pkg/logger"
	"github.com/fschiettecatte/mps/pkg/spi"
	"github.com/fschiettecatte/mps/pkg/spi/memprovider"
	"github.com/fschiettecatte/mps/pkg/transport"
	"github.com/fschiettecatte/mps/pkg/version"
)

// Build-time identity, stamped via -ldflags "-X main.release=... -X main.commit=... -X main.date=...".
var (
	release = "dev"
	commit  = "none"
	date    = "unknown"
)

func buildVersion() version.Version {
	return version.NewVersion(version.License_MIT, "mpsd",
		"MPS search server", date, commit, release, "fschiettecatte", "mpsd", mainMarker{}, 0)
}

type mainMarker struct{}

func main() {
	v := buildVersion()

	root := &cobra.Command{
		Use:     "mpsd",
		Short:   v.GetDescription(),
		Version: release,
		RunE:    run,
	}
	root.SetVersionTemplate(v.GetInfo() + "\n")

	vpr := viper.New()
	config.RegisterServerFlags(root, vpr)
	root.Flags().SortFlags = false

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	vpr := viper.New()
	_ = vpr.BindPFlags(cmd.Flags())

	cfg, cerr := config.LoadServerConfig(vpr)
	if cerr != nil {
		return cerr
	}

	if cfg.Check {
		fmt.Println("configuration OK")
		return nil
	}

	lvl := logger.ParseLevel(fmt.Sprint(cfg.LogLevel))
	log, lerr := logger.Open(cfg.LogTarget, lvl)
	if lerr != nil {
		return lerr
	}
	defer log.Close()

	if workerFD, ok := lifecycle.ParseWorkerFD(os.Args); ok {
		return runForkedChild(cfg, workerFD, log)
	}

	if cfg.Daemon && !lifecycle.IsDaemonized() {
		if err := lifecycle.Daemonize(); err != nil {
			return err
		}
	}

	if cfg.Children > 0 {
		return runForkedParent(cfg, log)
	}

	return runInProcess(cfg, log)
}

// runInProcess covers both the stdio worker (no --socket configured) and
// the threaded pool over directly-bound sockets — the two shapes that
// need no re-exec.
func runInProcess(cfg *config.ServerConfig, log logger.Logger) error {
	if len(cfg.Sockets) == 0 {
		provider, perr := buildProvider(cfg)
		if perr != nil {
			return perr
		}
		table, backend, berr := buildTableOverNewSession(cfg, provider, log, func() bool { return false })
		if berr != nil {
			return berr
		}
		_ = backend
		return lifecycle.RunStdio(context.Background(), provider, table, log)
	}

	listener, lnerr := buildListener(cfg.Sockets)
	if lnerr != nil {
		return lnerr
	}
	defer listener.Close()

	return serveOnListener(cfg, listener, log)
}

// runForkedParent forks Children copies of this binary, each sharing one
// pre-bound listening socket. Supporting exactly one shared socket keeps
// the os.File-duplication plumbing in pkg/lifecycle simple; a
// multi-socket forked deployment is better served by running one mpsd
// process per socket behind an external load balancer.
func runForkedParent(cfg *config.ServerConfig, log logger.Logger) error {
	if len(cfg.Sockets) != 1 || cfg.Sockets[0].Proto != "tcp" {
		return liberr.New(config.CodeInvalidSocket, "--children requires exactly one tcp --socket")
	}

	if err := lifecycle.WritePIDFile(cfg.ProcessIDFile); err != nil {
		return err
	}
	defer lifecycle.RemovePIDFile(cfg.ProcessIDFile)

	listenerFile, err := lifecycle.OpenSharedListener(cfg.Sockets[0].Addr())
	if err != nil {
		return err
	}
	defer listenerFile.Close()

	registry := lifecycle.NewRegistry()
	pool := &lifecycle.ForkedPool{
		Children:        cfg.Children,
		StartupInterval: cfg.StartupInterval,
		Registry:        registry,
		Log:             log,
		ListenerFile:    listenerFile,
		BaseArgs:        os.Args[1:],
	}

	policy := &lifecycle.SignalPolicy{
		Registry: registry,
		Log:      log,
		PoolMode: true,
	}
	stop := policy.Install()
	defer stop()

	return pool.Run()
}

// runForkedChild is the re-exec'd worker process body: it rebuilds its
// listener from the inherited descriptor and behaves exactly like
// runInProcess's socket path from there, except it never writes its own
// PID file (the parent's PID file names the pool, not any one child).
func runForkedChild(cfg *config.ServerConfig, fd int, log logger.Logger) error {
	ln, err := lifecycle.ListenerFromWorkerFD(fd)
	if err != nil {
		return err
	}
	listener := transport.WrapTCPListener(ln)
	defer listener.Close()

	return serveOnListener(cfg, listener, log)
}

func serveOnListener(cfg *config.ServerConfig, listener transport.Listener, log logger.Logger) error {
	if err := lifecycle.DropPrivileges(cfg.User); err != nil {
		return err
	}
	if cfg.Children == 0 {
		if err := lifecycle.WritePIDFile(cfg.ProcessIDFile); err != nil {
			return err
		}
		defer lifecycle.RemovePIDFile(cfg.ProcessIDFile)
	}

	provider, perr := buildProvider(cfg)
	if perr != nil {
		return perr
	}

	ctx := context.Background()
	if err := provider.InitializeServer(ctx); err != nil {
		return err
	}
	defer func() {
		if err := provider.ShutdownServer(ctx); err != nil {
			log.Warning("provider shutdown failed", logger.Fields{"error": err.Error()})
		}
	}()

	watcher, werr := config.WatchDirectory(cfg.ConfigurationDirectory, log, nil)
	if werr != nil {
		return werr
	}
	defer watcher.Close()

	registry := lifecycle.NewRegistry()
	policy := &lifecycle.SignalPolicy{
		Registry: registry,
		Log:      log,
		PoolMode: false,
		Shutdown: func() {
			if err := provider.ShutdownServer(ctx); err != nil {
				log.Warning("provider shutdown on fatal signal failed", logger.Fields{"error": err.Error()})
			}
		},
	}
	stop := policy.Install()
	defer stop()

	table, _, terr := buildTableOverNewSession(cfg, provider, log, registry.IsTerminating)
	if terr != nil {
		return terr
	}

	threads := cfg.Threads
	if threads < 1 {
		threads = 1
	}

	pool := &lifecycle.ThreadedPool{
		Listener:        listener,
		Table:           table,
		Log:             log,
		Registry:        registry,
		Threads:         threads,
		StartupInterval: cfg.StartupInterval,
		MaxSessions:     cfg.Sessions,
		AcceptTimeout:   cfg.Timeout,
	}

	return pool.Run(ctx)
}

// buildTableOverNewSession opens a fresh provider session and wires it
// into the protocol dispatch table every worker thread shares: all
// workers call into the same SessionBackend, and with it the same
// session and the same cache of open index handles.
func buildTableOverNewSession(cfg *config.ServerConfig, provider spi.Provider, log logger.Logger, isTerminating func() bool) (dispatch.Table, *dispatch.SessionBackend, liberr.Error) {
	ctx := context.Background()
	sess, serr := provider.NewSession(ctx)
	if serr != nil {
		return nil, nil, serr
	}

	ctl := admission.New(cfg.MaxLoad)
	backend := dispatch.NewSessionBackend(sess, ctl, cfg.Locale)
	table := dispatch.BuildTable(backend, cfg.Timeout, isTerminating)
	return table, backend, nil
}

// buildProvider opens the reference in-memory provider over
// --index-directory. A real deployment replaces this with whatever
// storage engine implements pkg/spi.Provider; memprovider.OpenDir exists
// so mpsd is runnable end to end against indices mpsindex itself wrote.
func buildProvider(cfg *config.ServerConfig) (spi.Provider, liberr.Error) {
	p, err := memprovider.OpenDir(cfg.IndexDirectory)
	if err != nil {
		return memprovider.New(), nil
	}
	return p, nil
}

// buildListener binds every configured socket, grouping by protocol and
// combining a TCP and a UDP listener (if both are present) behind
// transport.MultiListener.
func buildListener(sockets []config.SocketSpec) (transport.Listener, liberr.Error) {
	var tcpListener, udpListener transport.Listener

	for _, s := range sockets {
		switch s.Proto {
		case "tcp":
			if tcpListener == nil {
				tcpListener = transport.NewTCPListener()
			}
			if err := tcpListener.AddEndpoint(transport.Endpoint{Protocol: transport.ProtoTCP, Host: s.Host, Port: s.Port}); err != nil {
				return nil, err
			}
		case "udp":
			if udpListener == nil {
				udpListener = transport.NewUDPListener()
			}
			if err := udpListener.AddEndpoint(transport.Endpoint{Protocol: transport.ProtoUDP, Host: s.Host, Port: s.Port}); err != nil {
				return nil, err
			}
		}
	}

	switch {
	case tcpListener != nil && udpListener != nil:
		return transport.NewMultiListener(tcpListener, udpListener), nil
	case tcpListener != nil:
		return tcpListener, nil
	case udpListener != nil:
		return udpListener, nil
	default:
		return nil, config.CodeInvalidSocket.Errorf("no sockets configured")
	}
}
