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
	"time"

	"github.com/ukpowermonitor/ingestion/internal/models"
	"github.com/ukpowermonitor/ingestion/internal/normalize"
)

// SPNorthwestName is the fixed source_provider constant for this feed.
const SPNorthwestName = "SP Electricity North West"

// SPNorthwest reads the Electricity North West outage search endpoint.
// Affected postcodes arrive as a JSON list per fault.
type SPNorthwest struct {
	endpoint string
	client   *http.Client
}

// NewSPNorthwest creates the SP Electricity North West adapter.
func NewSPNorthwest(endpoint string, timeout time.Duration) *SPNorthwest {
	return &SPNorthwest{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// Name implements Adapter.
func (s *SPNorthwest) Name() string { return SPNorthwestName }

// Fetch implements Adapter.
func (s *SPNorthwest) Fetch(ctx context.Context) ([]byte, error) {
	return fetchBytes(ctx, s.client, SPNorthwestName, s.endpoint, nil)
}

type spNorthwestResponse struct {
	Items []struct {
		FaultType         string   `json:"faultType"`
		Date              string   `json:"date"`
		AffectedPostcodes []string `json:"AffectedPostcodes"`
	} `json:"Items"`
}

// Parse implements Adapter.
func (s *SPNorthwest) Parse(payload []byte) []Intermediate {
	var resp spNorthwestResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil
	}

	out := make([]Intermediate, 0, len(resp.Items))
	for _, fault := range resp.Items {
		out = append(out, Intermediate{
			RawStatus:       fault.FaultType,
			RawOutageDate:   fault.Date,
			RawPostcodeList: fault.AffectedPostcodes,
		})
	}
	return out
}

// Transform implements Adapter.
func (s *SPNorthwest) Transform(rec Intermediate) (models.OutageRecord, bool) {
	postcodes := normalize.PostcodeList(rec.RawPostcodeList)
	outageDate := normalize.DateTime(rec.RawOutageDate)
	if len(postcodes) == 0 || outageDate == "" {
		return models.OutageRecord{}, false
	}

	return models.OutageRecord{
		SourceProvider:    SPNorthwestName,
		OutageDate:        outageDate,
		Status:            substringStatus(rec.RawStatus),
		RecordingTime:     normalize.Now(),
		AffectedPostcodes: postcodes,
	}, true
}
