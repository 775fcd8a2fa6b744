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
	"net/http"
	"strings"
	"time"

	"github.com/ukpowermonitor/ingestion/internal/models"
	"github.com/ukpowermonitor/ingestion/internal/normalize"
)

// SSENName is the fixed source_provider constant for this feed.
const SSENName = "Scottish and Southern Electricity Networks"

// SSEN reads the PowerTrack live faults endpoint. Affected areas arrive
// as a JSON list of postcodes; the type field is a code where "PSI"
// (planned supply interruption) is the only planned value.
type SSEN struct {
	endpoint string
	client   *http.Client
}

// NewSSEN creates the SSEN adapter.
func NewSSEN(endpoint string, timeout time.Duration) *SSEN {
	return &SSEN{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// Name implements Adapter.
func (s *SSEN) Name() string { return SSENName }

// Fetch implements Adapter.
func (s *SSEN) Fetch(ctx context.Context) ([]byte, error) {
	return fetchBytes(ctx, s.client, SSENName, s.endpoint, nil)
}

type ssenResponse struct {
	Faults []struct {
		Type          string   `json:"type"`
		LoggedAt      string   `json:"loggedAt"`
		AffectedAreas []string `json:"affectedAreas"`
	} `json:"Faults"`
}

// Parse implements Adapter.
func (s *SSEN) Parse(payload []byte) []Intermediate {
	var resp ssenResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil
	}

	out := make([]Intermediate, 0, len(resp.Faults))
	for _, fault := range resp.Faults {
		out = append(out, Intermediate{
			RawStatus:       fault.Type,
			RawOutageDate:   fault.LoggedAt,
			RawPostcodeList: fault.AffectedAreas,
		})
	}
	return out
}

// Transform implements Adapter.
func (s *SSEN) Transform(rec Intermediate) (models.OutageRecord, bool) {
	postcodes := normalize.PostcodeList(rec.RawPostcodeList)
	outageDate := normalize.DateTime(rec.RawOutageDate)
	if len(postcodes) == 0 || outageDate == "" {
		return models.OutageRecord{}, false
	}

	return models.OutageRecord{
		SourceProvider:    SSENName,
		OutageDate:        outageDate,
		Status:            ssenStatus(rec.RawStatus),
		RecordingTime:     normalize.Now(),
		AffectedPostcodes: postcodes,
	}, true
}

// ssenStatus maps the PowerTrack fault code: "PSI" is a planned supply
// interruption, every other code is a live fault.
func ssenStatus(code string) string {
	if strings.EqualFold(strings.TrimSpace(code), "PSI") {
		return models.StatusPlanned
	}
	return models.StatusUnplanned
}
