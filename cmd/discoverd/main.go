/*
 * Copyright 2026 Nile Network Navigator Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jaswanthk93/nile-network-navigator-sub001/pkg/api"
	"github.com/jaswanthk93/nile-network-navigator-sub001/pkg/config"
	"github.com/jaswanthk93/nile-network-navigator-sub001/pkg/discovery"
	"github.com/jaswanthk93/nile-network-navigator-sub001/pkg/logger"
	"github.com/jaswanthk93/nile-network-navigator-sub001/pkg/session"
	"github.com/jaswanthk93/nile-network-navigator-sub001/pkg/snmp"
)

const shutdownGrace = 10 * time.Second

var errFailedToLoadConfig = fmt.Errorf("failed to load discoverd configuration")

// Config is the discoverd service configuration file.
type Config struct {
	ListenAddr string           `json:"listen_addr"`
	Logging    logger.Config    `json:"logging"`
	Discovery  discovery.Config `json:"discovery"`
	Session    session.Config   `json:"session"`
}

// Validate applies listen-address defaulting.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		c.ListenAddr = ":8090"
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configFile := flag.String("config", "/etc/discoverd/discoverd.json", "Path to discoverd config file")
	listenAddr := flag.String("listen", "", "Override the configured listen address")

	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfgLoader := config.NewConfig()

	var cfg Config

	if err := cfgLoader.LoadAndValidate(ctx, *configFile, &cfg); err != nil {
		return fmt.Errorf("%w: %w", errFailedToLoadConfig, err)
	}

	if *listenAddr != "" {
		cfg.ListenAddr = *listenAddr
	}

	logr, err := logger.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	factory := &snmp.Dialer{Logger: logr}

	registry := session.NewRegistry(cfg.Session, factory, logr)
	registry.Start(ctx)
	defer registry.Stop()

	engine, err := discovery.NewEngine(cfg.Discovery, factory, registry, logr)
	if err != nil {
		return fmt.Errorf("failed to initialize discovery engine: %w", err)
	}

	apiServer := api.NewServer(engine, registry, logr)

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)

	go func() {
		logr.Info().Str("addr", cfg.ListenAddr).Msg("Starting discoverd")

		serveErr <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logr.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http shutdown: %w", err)
	}

	return nil
}
