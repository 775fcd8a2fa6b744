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

// Package alerts delivers outage notifications to subscribed customers.
// The engine sends one email per (customer, outage) pair and records a
// notification log row only after the send is confirmed, so a crashed
// or failed send is retried on the next run while a logged pair is
// never notified twice.
package alerts

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ukpowermonitor/ingestion/internal/models"
)

// Source supplies pending notifications and records delivered ones. The
// production implementation is *store.Store.
type Source interface {
	PendingAlerts(ctx context.Context) ([]models.PendingAlert, error)
	LogNotification(ctx context.Context, customerID, outageID int64) error
}

// Sender delivers a single alert. The production implementation is
// *email.Sender.
type Sender interface {
	Send(ctx context.Context, alert models.PendingAlert) error
}

// Stats summarises one notification run.
type Stats struct {
	Total  int
	Sent   int
	Failed int
}

// Engine wires the pending-alert source to the delivery channel.
type Engine struct {
	source Source
	sender Sender
}

// NewEngine creates a notification engine.
func NewEngine(source Source, sender Sender) *Engine {
	return &Engine{source: source, sender: sender}
}

// Run fetches every pending (customer, outage) pair and works through
// them in order. Failures are per-alert: a bounced send or a failed log
// write counts against the run but never stops the remaining alerts.
// A pair whose log write fails stays pending and will be re-sent next
// run; that duplicate is preferred over silently dropping the pair.
func (e *Engine) Run(ctx context.Context) (Stats, error) {
	start := time.Now()
	log := slog.With("run_id", uuid.NewString())

	pending, err := e.source.PendingAlerts(ctx)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{Total: len(pending)}
	log.Info("starting notification run", "pending", stats.Total)

	for _, alert := range pending {
		if err := e.deliver(ctx, log, alert); err != nil {
			stats.Failed++
			continue
		}
		stats.Sent++
	}

	log.Info("notification run complete",
		"total", stats.Total,
		"sent", stats.Sent,
		"failed", stats.Failed,
		"elapsed", time.Since(start),
	)
	return stats, nil
}

// deliver sends one alert and, only on confirmed send, writes its log
// row.
func (e *Engine) deliver(ctx context.Context, log *slog.Logger, alert models.PendingAlert) error {
	if err := e.sender.Send(ctx, alert); err != nil {
		log.Error("alert send failed",
			"customer_id", alert.CustomerID,
			"outage_id", alert.OutageID,
			"error", err,
		)
		return err
	}

	if err := e.source.LogNotification(ctx, alert.CustomerID, alert.OutageID); err != nil {
		log.Error("notification log write failed after send",
			"customer_id", alert.CustomerID,
			"outage_id", alert.OutageID,
			"error", err,
		)
		return err
	}

	log.Info("alert delivered",
		"customer_id", alert.CustomerID,
		"outage_id", alert.OutageID,
		"postcodes", alert.Postcodes,
	)
	return nil
}
