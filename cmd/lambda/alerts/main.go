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

// UK Power Monitor: Alert Dispatch Lambda
//
// Scheduled Lambda that emails every customer subscribed to a postcode
// hit by an outage they have not been notified about yet. Runs after
// each ingestion pass.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ukpowermonitor/ingestion/internal/alerts"
	"github.com/ukpowermonitor/ingestion/internal/config"
	"github.com/ukpowermonitor/ingestion/internal/email"
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
	if cfg.EmailSource == "" {
		slog.Error("SES_SOURCE not configured")
		return Response{StatusCode: 500, Body: "SES source address not configured"}, nil
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

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		slog.Error("failed to load AWS config", "error", err)
		return Response{StatusCode: 500, Body: fmt.Sprintf("AWS config failed: %v", err)}, nil
	}
	sender := email.NewSender(sesv2.NewFromConfig(awsCfg), cfg.EmailSource)

	stats, err := alerts.NewEngine(st, sender).Run(ctx)
	if err != nil {
		slog.Error("notification run failed", "error", err)
		return Response{StatusCode: 500, Body: fmt.Sprintf("notification run failed: %v", err)}, nil
	}

	body := fmt.Sprintf("pending=%d sent=%d failed=%d", stats.Total, stats.Sent, stats.Failed)
	status := 200
	if stats.Failed > 0 {
		status = 500
	}
	return Response{StatusCode: status, Body: body}, nil
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	lambda.Start(handler)
}
