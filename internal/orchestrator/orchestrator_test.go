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

package orchestrator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ukpowermonitor/ingestion/internal/models"
	"github.com/ukpowermonitor/ingestion/internal/provider"
)

// --- Fake adapter ---

type fakeAdapter struct {
	name     string
	records  []models.OutageRecord
	fetchErr error
}

func (a *fakeAdapter) Name() string { return a.name }

func (a *fakeAdapter) Fetch(_ context.Context) ([]byte, error) {
	if a.fetchErr != nil {
		return nil, a.fetchErr
	}
	return []byte("ok"), nil
}

func (a *fakeAdapter) Parse(_ []byte) []provider.Intermediate {
	out := make([]provider.Intermediate, len(a.records))
	for i := range a.records {
		out[i] = provider.Intermediate{
			RawStatus:       "fault",
			RawOutageDate:   a.records[i].OutageDate,
			RawPostcodeList: a.records[i].AffectedPostcodes,
		}
	}
	return out
}

func (a *fakeAdapter) Transform(rec provider.Intermediate) (models.OutageRecord, bool) {
	return models.OutageRecord{
		SourceProvider:    a.name,
		OutageDate:        rec.RawOutageDate,
		Status:            models.StatusUnplanned,
		RecordingTime:     "2025-11-20T10:00:00",
		AffectedPostcodes: rec.RawPostcodeList,
	}, true
}

// --- Fake loader ---

type fakeLoader struct {
	loaded  []models.OutageRecord
	failFor map[string]error // provider name -> error
}

func (l *fakeLoader) InsertOutages(_ context.Context, records []models.OutageRecord) (int, error) {
	if len(records) > 0 {
		if err, ok := l.failFor[records[0].SourceProvider]; ok {
			return 0, err
		}
	}
	l.loaded = append(l.loaded, records...)
	return len(records), nil
}

func record(provider, date string, postcodes ...string) models.OutageRecord {
	return models.OutageRecord{
		SourceProvider:    provider,
		OutageDate:        date,
		AffectedPostcodes: postcodes,
	}
}

func TestRunAllProvidersSucceed(t *testing.T) {
	loader := &fakeLoader{}
	r := NewRunner([]provider.Adapter{
		&fakeAdapter{name: "Alpha", records: []models.OutageRecord{
			record("Alpha", "2025-11-20T10:13:00", "SA34 0TH"),
			record("Alpha", "2025-11-20T11:00:00", "SA34 0UY"),
		}},
		&fakeAdapter{name: "Beta", records: []models.OutageRecord{
			record("Beta", "2025-11-20T12:00:00", "BT1 1AA"),
		}},
	}, loader)

	summary := r.Run(context.Background())

	if summary.Failed() {
		t.Fatal("expected clean run")
	}
	if summary.StatusCode() != 200 {
		t.Errorf("StatusCode = %d, want 200", summary.StatusCode())
	}
	if summary.TotalFetched != 3 || summary.TotalInserted != 3 {
		t.Errorf("totals = (%d, %d), want (3, 3)",
			summary.TotalFetched, summary.TotalInserted)
	}
	if len(loader.loaded) != 3 {
		t.Errorf("loader got %d records, want 3", len(loader.loaded))
	}
	if summary.RunID == "" {
		t.Error("expected non-empty run ID")
	}
}

func TestRunProviderFetchFailureIsolated(t *testing.T) {
	loader := &fakeLoader{}
	r := NewRunner([]provider.Adapter{
		&fakeAdapter{name: "Broken", fetchErr: errors.New("connection refused")},
		&fakeAdapter{name: "Healthy", records: []models.OutageRecord{
			record("Healthy", "2025-11-20T12:00:00", "BT1 1AA"),
		}},
	}, loader)

	summary := r.Run(context.Background())

	// Fetch failures are absorbed at adapter level: the provider simply
	// contributes zero records and the run still succeeds.
	if summary.Failed() {
		t.Fatal("fetch failure should not fail the run")
	}
	if summary.TotalInserted != 1 {
		t.Errorf("TotalInserted = %d, want 1", summary.TotalInserted)
	}
	if got := summary.Results[0]; got.Fetched != 0 || got.Err != nil {
		t.Errorf("broken provider result = %+v, want zero records and no error", got)
	}
}

func TestRunLoadFailureMarksRunFailed(t *testing.T) {
	loader := &fakeLoader{failFor: map[string]error{"Alpha": errors.New("db down")}}
	r := NewRunner([]provider.Adapter{
		&fakeAdapter{name: "Alpha", records: []models.OutageRecord{
			record("Alpha", "2025-11-20T10:13:00", "SA34 0TH"),
		}},
		&fakeAdapter{name: "Beta", records: []models.OutageRecord{
			record("Beta", "2025-11-20T12:00:00", "BT1 1AA"),
		}},
	}, loader)

	summary := r.Run(context.Background())

	if !summary.Failed() {
		t.Fatal("expected failed run")
	}
	if summary.StatusCode() != 500 {
		t.Errorf("StatusCode = %d, want 500", summary.StatusCode())
	}
	// Beta still loads after Alpha's failure.
	if len(loader.loaded) != 1 || loader.loaded[0].SourceProvider != "Beta" {
		t.Errorf("loaded = %+v, want only Beta's record", loader.loaded)
	}
	if !strings.Contains(summary.Body(), "failed=1") {
		t.Errorf("Body() = %q, want failed=1", summary.Body())
	}
}

func TestRunEmptyProviderSkipsLoader(t *testing.T) {
	loader := &fakeLoader{failFor: map[string]error{"": errors.New("should not be called")}}
	r := NewRunner([]provider.Adapter{
		&fakeAdapter{name: "Quiet"},
	}, loader)

	summary := r.Run(context.Background())

	if summary.Failed() {
		t.Fatal("empty provider should not fail the run")
	}
	if summary.TotalFetched != 0 || summary.TotalInserted != 0 {
		t.Errorf("totals = (%d, %d), want (0, 0)",
			summary.TotalFetched, summary.TotalInserted)
	}
}
