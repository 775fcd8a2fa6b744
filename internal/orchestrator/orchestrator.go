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

// Package orchestrator drives the provider adapters in sequence and
// loads whatever they produce into the outage store. One run covers
// every configured provider; a provider failing never stops the rest.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ukpowermonitor/ingestion/internal/models"
	"github.com/ukpowermonitor/ingestion/internal/provider"
)

// Loader receives the canonical records of one provider run. The
// production implementation is *store.Store.
type Loader interface {
	InsertOutages(ctx context.Context, records []models.OutageRecord) (int, error)
}

// ProviderResult tracks the outcome for one adapter.
type ProviderResult struct {
	Provider string
	Fetched  int
	Inserted int
	Err      error
}

// Summary describes a completed ingestion run across all providers.
type Summary struct {
	RunID         string
	Results       []ProviderResult
	TotalFetched  int
	TotalInserted int
	Elapsed       time.Duration
}

// Failed reports whether any provider in the run ended in error.
func (s *Summary) Failed() bool {
	for _, r := range s.Results {
		if r.Err != nil {
			return true
		}
	}
	return false
}

// StatusCode maps the run outcome onto an HTTP-style code: 200 when
// every provider loaded cleanly, 500 when at least one failed.
func (s *Summary) StatusCode() int {
	if s.Failed() {
		return 500
	}
	return 200
}

// Body renders the one-line run report used as the invocation response,
// naming any providers whose load failed.
func (s *Summary) Body() string {
	line := fmt.Sprintf("ingestion complete: providers=%d fetched=%d inserted=%d failed=%d",
		len(s.Results), s.TotalFetched, s.TotalInserted, s.failedCount())
	if !s.Failed() {
		return line
	}

	var failed []string
	for _, r := range s.Results {
		if r.Err != nil {
			failed = append(failed, r.Provider)
		}
	}
	return line + " (" + strings.Join(failed, ", ") + ")"
}

func (s *Summary) failedCount() int {
	n := 0
	for _, r := range s.Results {
		if r.Err != nil {
			n++
		}
	}
	return n
}

// Runner executes one ingestion pass over a fixed adapter order.
type Runner struct {
	adapters []provider.Adapter
	loader   Loader
}

// NewRunner creates a runner over the given adapters. The adapter slice
// order is the execution order.
func NewRunner(adapters []provider.Adapter, loader Loader) *Runner {
	return &Runner{adapters: adapters, loader: loader}
}

// Run drives every adapter in turn: fetch, parse, transform, load.
// Adapter-level failures are absorbed inside provider.Run; only a load
// failure marks the provider as failed in the summary.
func (r *Runner) Run(ctx context.Context) *Summary {
	start := time.Now()
	summary := &Summary{RunID: uuid.NewString()}

	log := slog.With("run_id", summary.RunID)
	log.Info("starting ingestion run", "providers", len(r.adapters))

	for _, a := range r.adapters {
		res := ProviderResult{Provider: a.Name()}

		records := provider.Run(ctx, a)
		res.Fetched = len(records)

		if len(records) > 0 {
			inserted, err := r.loader.InsertOutages(ctx, records)
			if err != nil {
				log.Error("load failed for provider",
					"provider", a.Name(),
					"error", err,
				)
				res.Err = err
			}
			res.Inserted = inserted
		}

		summary.Results = append(summary.Results, res)
		summary.TotalFetched += res.Fetched
		summary.TotalInserted += res.Inserted
	}

	summary.Elapsed = time.Since(start)

	log.Info("ingestion run complete",
		"fetched", summary.TotalFetched,
		"inserted", summary.TotalInserted,
		"failed_providers", summary.failedCount(),
		"elapsed", summary.Elapsed,
	)

	return summary
}
