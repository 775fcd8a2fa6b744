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

// NIEName is the fixed source_provider constant for this feed.
const NIEName = "Northern Ireland Electricity Networks"

// NIE reads the NIE Networks PowerChecker faults endpoint. Postcodes
// arrive semicolon-delimited; the start time is a bare clock string
// ("10:13 AM, 20 Nov") without a year.
type NIE struct {
	endpoint string
	client   *http.Client
}

// NewNIE creates the NIE Networks adapter.
func NewNIE(endpoint string, timeout time.Duration) *NIE {
	return &NIE{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// Name implements Adapter.
func (n *NIE) Name() string { return NIEName }

// Fetch implements Adapter.
func (n *NIE) Fetch(ctx context.Context) ([]byte, error) {
	return fetchBytes(ctx, n.client, NIEName, n.endpoint, nil)
}

type nieResponse struct {
	OutageMessage []struct {
		OutageType    string `json:"outageType"`
		StartTime     string `json:"startTime"`
		FullPostCodes string `json:"fullPostCodes"`
	} `json:"outageMessage"`
}

// Parse implements Adapter.
func (n *NIE) Parse(payload []byte) []Intermediate {
	var resp nieResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil
	}

	out := make([]Intermediate, 0, len(resp.OutageMessage))
	for _, fault := range resp.OutageMessage {
		out = append(out, Intermediate{
			RawStatus:     fault.OutageType,
			RawOutageDate: fault.StartTime,
			RawPostcodes:  fault.FullPostCodes,
		})
	}
	return out
}

// Transform implements Adapter.
func (n *NIE) Transform(rec Intermediate) (models.OutageRecord, bool) {
	postcodes := normalize.Postcodes(rec.RawPostcodes, ";")
	outageDate := normalize.NIEDateTime(rec.RawOutageDate)
	if len(postcodes) == 0 || outageDate == "" {
		return models.OutageRecord{}, false
	}

	return models.OutageRecord{
		SourceProvider:    NIEName,
		OutageDate:        outageDate,
		Status:            substringStatus(rec.RawStatus),
		RecordingTime:     normalize.Now(),
		AffectedPostcodes: postcodes,
	}, true
}
