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

// UK Power Monitor: Alert Dispatch Command
//
// Standalone CLI that finds every (customer, outage) pairing not yet
// notified and sends the alert emails through SES. Safe to run
// repeatedly: delivered pairs are logged and never re-sent.
//
// Usage:
//
//	go run ./cmd/alerts/ [--dry-run]
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ukpowermonitor/ingestion/internal/alerts"
	"github.com/ukpowermonitor/ingestion/internal/config"
	"github.com/ukpowermonitor/ingestion/internal/email"
	"github.com/ukpowermonitor/ingestion/internal/models"
	"github.com/ukpowermonitor/ingestion/internal/secrets"
	"github.com/ukpowermonitor/ingestion/internal/store"
)

// dryRunSender prints what would be sent instead of calling SES. The
// notification log is still skipped because Run only logs after a send,
// and a dry-run send never confirms.
type dryRunSender struct{}

func (dryRunSender) Send(_ context.Context, alert models.PendingAlert) error {
	subject, _ := email.Compose(alert)
	fmt.Printf("would send to %s: %s\n", alert.Email, subject)
	return fmt.Errorf("dry run")
}

func main() {
	// Structured JSON logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	dryRun := flag.Bool("dry-run", false, "List pending alerts without sending or logging")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
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

	// --- Build the sender ---
	var sender alerts.Sender
	if *dryRun {
		sender = dryRunSender{}
	} else {
		if cfg.EmailSource == "" {
			slog.Error("SES_SOURCE not configured")
			os.Exit(1)
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			slog.Error("failed to load AWS config", "error", err)
			os.Exit(1)
		}
		sender = email.NewSender(sesv2.NewFromConfig(awsCfg), cfg.EmailSource)
	}

	// --- Run ---
	stats, err := alerts.NewEngine(st, sender).Run(ctx)
	if err != nil {
		slog.Error("notification run failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("pending=%d sent=%d failed=%d\n", stats.Total, stats.Sent, stats.Failed)
	if !*dryRun && stats.Failed > 0 {
		os.Exit(1)
	}
}
