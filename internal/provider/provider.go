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

// Package provider implements one adapter per UK distribution network
// operator. Each adapter owns its operator's wire format: endpoint,
// auth, field names, postcode delimiter, and status vocabulary. The
// shared Run pipeline drives fetch → parse → validate → transform and
// contains every failure to the provider that caused it.
package provider

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ukpowermonitor/ingestion/internal/models"
)

// Intermediate is the loosely typed record each adapter parses its raw
// payload into, before validation and canonical transformation. Raw
// fields carry the operator's values untouched; postcode tokens are
// pre-split only for operators whose feed is already a list.
type Intermediate struct {
	RawStatus     string
	RawOutageDate string

	// Exactly one of these is populated, depending on the operator's
	// postcode convention.
	RawPostcodes    string
	RawPostcodeList []string
}

// Adapter is the capability every provider implements.
type Adapter interface {
	// Name returns the fixed human-readable operator name used as half
	// of the dedup key in the store.
	Name() string

	// Fetch retrieves the raw feed payload. Non-2xx responses and
	// transport failures return a *FetchError; they never panic and the
	// caller treats them as an empty fetch.
	Fetch(ctx context.Context) ([]byte, error)

	// Parse extracts intermediate records from a raw payload. A missing
	// or malformed payload yields an empty slice, not an error.
	Parse(payload []byte) []Intermediate

	// Transform maps one validated intermediate record to the canonical
	// shape. ok is false when the record must be dropped (no usable
	// postcodes or outage date after normalization).
	Transform(rec Intermediate) (models.OutageRecord, bool)
}

// FetchError reports a failed feed fetch. StatusCode is zero for
// transport-level failures (timeout, connection refused).
type FetchError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: feed returned HTTP %d", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s: feed request failed: %v", e.Provider, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsValid reports whether an intermediate record carries both a usable
// postcode field and a usable primary timestamp. Records failing this
// check are dropped and counted, never raised as errors.
func IsValid(rec Intermediate) bool {
	if strings.TrimSpace(rec.RawOutageDate) == "" {
		return false
	}

	if len(rec.RawPostcodeList) > 0 {
		for _, pc := range rec.RawPostcodeList {
			if strings.TrimSpace(pc) != "" {
				return true
			}
		}
		return false
	}
	return strings.TrimSpace(rec.RawPostcodes) != ""
}

// Run drives one provider through the full extraction pipeline and
// returns its canonical records. Fetch failures, invalid records and
// empty transforms are logged and absorbed here; nothing a provider
// does can abort the caller's run.
func Run(ctx context.Context, a Adapter) []models.OutageRecord {
	payload, err := a.Fetch(ctx)
	if err != nil {
		slog.Error("feed fetch failed", "provider", a.Name(), "error", err)
		return nil
	}

	records := a.Parse(payload)
	slog.Info("fetched records from feed", "provider", a.Name(), "count", len(records))

	var valid []Intermediate
	for _, rec := range records {
		if IsValid(rec) {
			valid = append(valid, rec)
		}
	}
	if dropped := len(records) - len(valid); dropped > 0 {
		slog.Info("filtered out invalid records", "provider", a.Name(), "count", dropped)
	}

	var out []models.OutageRecord
	for _, rec := range valid {
		canonical, ok := a.Transform(rec)
		if !ok {
			slog.Warn("dropping record with no usable postcodes or outage date",
				"provider", a.Name(),
			)
			continue
		}
		out = append(out, canonical)
	}

	slog.Info("extraction complete", "provider", a.Name(), "records", len(out))
	return out
}

// fetchBytes performs a GET with the adapter's timeout-scoped client and
// returns the body for 2xx responses, or a *FetchError otherwise. All
// seven adapters funnel their outbound HTTP through here.
func fetchBytes(ctx context.Context, client *http.Client, provider, url string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{Provider: provider, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &FetchError{Provider: provider, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{Provider: provider, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Provider: provider, Err: err}
	}
	return body, nil
}
