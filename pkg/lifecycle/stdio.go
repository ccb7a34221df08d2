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

package lifecycle

import (
	"context"
	"os"

	"github.com/fschiettecatte/mps/pkg/dispatch"
	liberr "github.com/fschiettecatte/mps/pkg/errors"
	"github.com/fschiettecatte/mps/pkg/logger"
	"github.com/fschiettecatte/mps/pkg/spi"
	"github.com/fschiettecatte/mps/pkg/transport"
)

// RunStdio is the no-socket shape: initialize the provider once, serve
// exactly one client over stdin/stdout, then shut the provider down.
// There is no accept loop and no worker pool — this is meant for
// inetd-style invocation or manual debugging.
func RunStdio(ctx context.Context, provider spi.Provider, table dispatch.Table, log logger.Logger) liberr.Error {
	if err := provider.InitializeServer(ctx); err != nil {
		return err
	}
	defer func() {
		if err := provider.ShutdownServer(ctx); err != nil && log != nil {
			log.Warning("provider shutdown failed", logger.Fields{"error": err.Error()})
		}
	}()

	conn := transport.NewStdioConn(os.Stdin, os.Stdout)
	defer func() {
		if err := conn.Close(); err != nil && log != nil {
			log.Warning("stdio connection close failed", logger.Fields{"error": err.Error()})
		}
	}()

	return dispatch.Dispatch(ctx, conn, table, log)
}
