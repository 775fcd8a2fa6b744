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

// Package models defines the data structures shared across the power
// outage ingestion pipeline.
package models

// Outage status values. Every provider's native status vocabulary is
// mapped onto these three by its adapter.
const (
	StatusPlanned   = "planned"
	StatusUnplanned = "unplanned"
	StatusUnknown   = "unknown"
)

// OutageRecord is the canonical outage shape every provider adapter
// converges to before loading.
//
// This struct's JSON serialisation is the adapter→loader contract:
// postcodes are normalized (uppercase, single internal space) and the
// list is never empty once a record passes validation. Timestamps are
// ISO-8601 strings at second precision.
type OutageRecord struct {
	SourceProvider    string   `json:"source_provider"`
	OutageDate        string   `json:"outage_date"`
	Status            string   `json:"status"`
	RecordingTime     string   `json:"recording_time"`
	AffectedPostcodes []string `json:"affected_postcodes"`
}

// PendingAlert is one (customer, outage) pair the notification engine
// has not yet emailed, with the customer's matching postcodes already
// aggregated into a single comma-joined string.
type PendingAlert struct {
	CustomerID int64
	FirstName  string
	Email      string
	OutageID   int64
	OutageDate string
	Postcodes  string
}
