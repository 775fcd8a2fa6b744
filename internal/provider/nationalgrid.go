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
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ukpowermonitor/ingestion/internal/models"
	"github.com/ukpowermonitor/ingestion/internal/normalize"
)

// NationalGridName is the fixed source_provider constant for this feed.
const NationalGridName = "National Grid"

// nationalGridLimit covers the feed comfortably: the dataset averages
// ~170 live records.
const nationalGridLimit = 1000

// NationalGrid reads the public CKAN datastore_search dataset. No API
// key is required; postcodes arrive comma-delimited in a single string
// and the planned flag is the string "true"/"false".
type NationalGrid struct {
	endpoint   string
	resourceID string
	client     *http.Client
}

// NewNationalGrid creates the National Grid adapter.
func NewNationalGrid(endpoint, resourceID string, timeout time.Duration) *NationalGrid {
	return &NationalGrid{
		endpoint:   endpoint,
		resourceID: resourceID,
		client:     &http.Client{Timeout: timeout},
	}
}

// Name implements Adapter.
func (g *NationalGrid) Name() string { return NationalGridName }

// Fetch implements Adapter.
func (g *NationalGrid) Fetch(ctx context.Context) ([]byte, error) {
	params := url.Values{}
	params.Set("resource_id", g.resourceID)
	params.Set("limit", fmt.Sprint(nationalGridLimit))

	return fetchBytes(ctx, g.client, NationalGridName, g.endpoint+"?"+params.Encode(), nil)
}

// nationalGridResponse mirrors the CKAN datastore_search envelope; the
// records sit under result.records alongside metadata we ignore.
type nationalGridResponse struct {
	Success bool `json:"success"`
	Result  struct {
		Records []struct {
			Postcodes string `json:"Postcodes"`
			StartTime string `json:"Start Time"`
			Planned   string `json:"Planned"`
		} `json:"records"`
	} `json:"result"`
}

// Parse implements Adapter.
func (g *NationalGrid) Parse(payload []byte) []Intermediate {
	var resp nationalGridResponse
	if err := json.Unmarshal(payload, &resp); err != nil || !resp.Success {
		return nil
	}

	out := make([]Intermediate, 0, len(resp.Result.Records))
	for _, rec := range resp.Result.Records {
		out = append(out, Intermediate{
			RawStatus:     rec.Planned,
			RawOutageDate: rec.StartTime,
			RawPostcodes:  rec.Postcodes,
		})
	}
	return out
}

// Transform implements Adapter.
func (g *NationalGrid) Transform(rec Intermediate) (models.OutageRecord, bool) {
	postcodes := normalize.Postcodes(rec.RawPostcodes, ",")
	outageDate := normalize.DateTime(rec.RawOutageDate)
	if len(postcodes) == 0 || outageDate == "" {
		return models.OutageRecord{}, false
	}

	return models.OutageRecord{
		SourceProvider:    NationalGridName,
		OutageDate:        outageDate,
		Status:            nationalGridStatus(rec.RawStatus),
		RecordingTime:     normalize.Now(),
		AffectedPostcodes: postcodes,
	}, true
}

// nationalGridStatus maps the feed's Planned flag: the string "true"
// means a planned outage, anything else (including empty) is unplanned.
func nationalGridStatus(planned string) string {
	if strings.EqualFold(strings.TrimSpace(planned), "true") {
		return models.StatusPlanned
	}
	return models.StatusUnplanned
}
