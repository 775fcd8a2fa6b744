// Copyright (c) 2026 John Earle
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// UK Power Monitor: Outage Ingestion Command
//
// Standalone CLI that runs one ingestion pass over every configured
// distribution network operator feed and loads the results into
// Postgres. Intended for local runs and cron-style scheduling; the
// Lambda deployment wraps the same runner.
//
// Usage:
//
//	go run ./cmd/ingest/ [--timeout 30s]
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/ukpowermonitor/ingestion/internal/config"
	"github.com/ukpowermonitor/ingestion/internal/dedup"
	"github.com/ukpowermonitor/ingestion/internal/orchestrator"
	"github.com/ukpowermonitor/ingestion/internal/secrets"
	"github.com/ukpowermonitor/ingestion/internal/store"
)

func main() {
	// Structured JSON logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	timeoutFlag := flag.Duration("timeout", 0, "Fetch timeout applied to every feed (overrides per-feed settings)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *timeoutFlag > 0 {
		cfg.FetchTimeout = *timeoutFlag
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- Connect to Postgres ---
	dsn, err := secrets.ResolveDSN(ctx, cfg)
	if err != nil {
		slog.Error("failed to resolve database credentials", "error", err)
		os.Exit(1)
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		slog.Error("failed to create connection pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	st, err := store.New(ctx, pool)
	if err != nil {
		slog.Error("failed to initialise outage store", "error", err)
		os.Exit(1)
	}

	// --- Optional Redis seen-filter ---
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			slog.Error("invalid REDIS_URL", "error", err)
			os.Exit(1)
		}
		rdb := redis.NewClient(opt)
		defer rdb.Close()

		filter := dedup.NewFilter(rdb)
		if err := filter.Ping(ctx); err != nil {
			slog.Warn("Redis unreachable, running without seen-filter", "error", err)
		} else {
			st.WithSeenFilter(filter)
			slog.Info("connected to Redis seen-filter")
		}
	}

	// --- Run ---
	runner := orchestrator.NewRunner(cfg.Adapters(), st)
	summary := runner.Run(ctx)

	fmt.Println(summary.Body())
	if summary.Failed() {
		os.Exit(1)
	}
}
