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

package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/ukpowermonitor/ingestion/internal/models"
)

func TestNationalGridFetchQuery(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"success": true, "result": {"records": []}}`))
	}))
	t.Cleanup(srv.Close)

	g := NewNationalGrid(srv.URL, "292f788f-4339-455b-8cc0-153e14509d4d", time.Second)
	if _, err := g.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if got := gotQuery["resource_id"]; len(got) != 1 || got[0] != "292f788f-4339-455b-8cc0-153e14509d4d" {
		t.Errorf("resource_id = %v", got)
	}
	if got := gotQuery["limit"]; len(got) != 1 || got[0] != "1000" {
		t.Errorf("limit = %v", got)
	}
}

func TestNationalGridParse(t *testing.T) {
	payload := `{"success": true, "result": {"records": [
		{"Postcodes": "SA34 0TH, SA34 0UY", "Start Time": "2025-11-20T10:13:00", "Planned": "false"},
		{"Postcodes": "CF10 1AA", "Start Time": "2025-11-21T08:00:00", "Planned": "true"}
	]}}`

	g := NewNationalGrid("", "", time.Second)
	recs := g.Parse([]byte(payload))

	if len(recs) != 2 {
		t.Fatalf("Parse returned %d records, want 2", len(recs))
	}
	want := Intermediate{
		RawStatus:     "false",
		RawOutageDate: "2025-11-20T10:13:00",
		RawPostcodes:  "SA34 0TH, SA34 0UY",
	}
	if !reflect.DeepEqual(recs[0], want) {
		t.Errorf("recs[0] = %+v, want %+v", recs[0], want)
	}
}

func TestNationalGridParseRejectsFailureEnvelope(t *testing.T) {
	g := NewNationalGrid("", "", time.Second)

	if recs := g.Parse([]byte(`{"success": false, "result": {"records": [{}]}}`)); recs != nil {
		t.Errorf("Parse = %v, want nil for success=false", recs)
	}
	if recs := g.Parse([]byte("not json")); recs != nil {
		t.Errorf("Parse = %v, want nil for malformed payload", recs)
	}
}

func TestNationalGridTransform(t *testing.T) {
	g := NewNationalGrid("", "", time.Second)

	rec, ok := g.Transform(Intermediate{
		RawStatus:     "false",
		RawOutageDate: "2025-11-20T10:13:00",
		RawPostcodes:  "SA34 0TH, SA34 0UY",
	})
	if !ok {
		t.Fatal("Transform dropped a good record")
	}

	if rec.SourceProvider != "National Grid" {
		t.Errorf("SourceProvider = %q", rec.SourceProvider)
	}
	if rec.OutageDate != "2025-11-20T10:13:00" {
		t.Errorf("OutageDate = %q", rec.OutageDate)
	}
	if rec.Status != models.StatusUnplanned {
		t.Errorf("Status = %q, want unplanned", rec.Status)
	}
	if want := []string{"SA34 0TH", "SA34 0UY"}; !reflect.DeepEqual(rec.AffectedPostcodes, want) {
		t.Errorf("AffectedPostcodes = %v, want %v", rec.AffectedPostcodes, want)
	}
	if rec.RecordingTime == "" {
		t.Error("RecordingTime should be stamped")
	}
}

func TestNationalGridStatus(t *testing.T) {
	tests := []struct {
		planned string
		want    string
	}{
		{"true", models.StatusPlanned},
		{"TRUE", models.StatusPlanned},
		{"false", models.StatusUnplanned},
		{"", models.StatusUnplanned},
		{"maybe", models.StatusUnplanned},
	}
	for _, tt := range tests {
		if got := nationalGridStatus(tt.planned); got != tt.want {
			t.Errorf("nationalGridStatus(%q) = %q, want %q", tt.planned, got, tt.want)
		}
	}
}

func TestNationalGridTransformDropsEmptyPostcodes(t *testing.T) {
	g := NewNationalGrid("", "", time.Second)

	if _, ok := g.Transform(Intermediate{
		RawStatus:     "false",
		RawOutageDate: "2025-11-20T10:13:00",
		RawPostcodes:  " , ,",
	}); ok {
		t.Error("Transform should drop records whose postcodes normalize away")
	}
}
