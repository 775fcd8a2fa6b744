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

// UK Power Monitor: Power Cuts Ingestion Lambda
//
// Scheduled Lambda that pulls every distribution network operator feed
// and loads new outages into Postgres. Connections are built fresh per
// invocation: the schedule is minutes apart, which is far beyond any
// container reuse guarantee.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/ukpowermonitor/ingestion/internal/config"
	"github.com/ukpowermonitor/ingestion/internal/dedup"
	"github.com/ukpowermonitor/ingestion/internal/orchestrator"
	"github.com/ukpowermonitor/ingestion/internal/secrets"
	"github.com/ukpowermonitor/ingestion/internal/store"
)

// Response is the conventional scheduled-Lambda result shape.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

func handler(ctx context.Context) (Response, error) {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		return Response{StatusCode: 500, Body: fmt.Sprintf("configuration failed: %v", err)}, nil
	}

	dsn, err := secrets.ResolveDSN(ctx, cfg)
	if err != nil {
		slog.Error("failed to resolve database credentials", "error", err)
		return Response{StatusCode: 500, Body: fmt.Sprintf("database credentials failed: %v", err)}, nil
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		slog.Error("failed to create connection pool", "error", err)
		return Response{StatusCode: 500, Body: fmt.Sprintf("database connection failed: %v", err)}, nil
	}
	defer pool.Close()

	st, err := store.New(ctx, pool)
	if err != nil {
		slog.Error("failed to initialise outage store", "error", err)
		return Response{StatusCode: 500, Body: fmt.Sprintf("store init failed: %v", err)}, nil
	}

	if cfg.RedisURL != "" {
		if opt, err := redis.ParseURL(cfg.RedisURL); err != nil {
			slog.Warn("invalid REDIS_URL, running without seen-filter", "error", err)
		} else {
			rdb := redis.NewClient(opt)
			defer rdb.Close()

			filter := dedup.NewFilter(rdb)
			if err := filter.Ping(ctx); err != nil {
				slog.Warn("Redis unreachable, running without seen-filter", "error", err)
			} else {
				st.WithSeenFilter(filter)
			}
		}
	}

	summary := orchestrator.NewRunner(cfg.Adapters(), st).Run(ctx)
	return Response{StatusCode: summary.StatusCode(), Body: summary.Body()}, nil
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	lambda.Start(handler)
}
