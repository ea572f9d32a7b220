/*
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/deca-be/ml-scheduler/internal/config"
	"github.com/deca-be/ml-scheduler/internal/httpapi"
	"github.com/deca-be/ml-scheduler/internal/runner"
	"github.com/deca-be/ml-scheduler/internal/store"
	"github.com/deca-be/ml-scheduler/internal/telemetry"
)

func main() {
	port := flag.Int("port", 8080, "The port the HTTP endpoints bind to.")
	flag.Parse()

	logger, err := telemetry.NewProduction()
	if err != nil {
		panic(fmt.Sprintf("building production logger: %v", err))
	}
	defer logger.Sync() //nolint:errcheck

	telemetry.MustRegister()
	settings := config.FromEnvironment()

	// No MongoDB/FileMaker adapter ships in this module (see DESIGN.md);
	// a real deployment replaces this with one that satisfies
	// store.Store. The in-memory fake keeps this binary runnable on its
	// own for local exercise of the HTTP surface.
	s := store.NewFake()
	r := runner.New(s, settings)
	srv := httpapi.NewServer(r)

	mux := http.NewServeMux()
	srv.Routes(mux)

	httpServer := &http.Server{Addr: fmt.Sprintf(":%d", *port), Handler: mux}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Infow("http server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Errorw("http server exited", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Infow("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), settings.MaxSolveDuration)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Errorw("http server shutdown failed", "error", err)
	}
	if err := srv.Wait(); err != nil {
		logger.Errorw("background runs did not finish cleanly", "error", err)
	}
}
