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

// NorthernPowergridName is the fixed source_provider constant for this feed.
const NorthernPowergridName = "Northern Powergrid"

// NorthernPowergrid reads the Powercut_API getall endpoint, which
// returns a bare JSON array of faults. Each fault names exactly one
// postcode, so the adapter carries it as a one-element list.
type NorthernPowergrid struct {
	endpoint string
	client   *http.Client
}

// NewNorthernPowergrid creates the Northern Powergrid adapter.
func NewNorthernPowergrid(endpoint string, timeout time.Duration) *NorthernPowergrid {
	return &NorthernPowergrid{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// Name implements Adapter.
func (p *NorthernPowergrid) Name() string { return NorthernPowergridName }

// Fetch implements Adapter.
func (p *NorthernPowergrid) Fetch(ctx context.Context) ([]byte, error) {
	return fetchBytes(ctx, p.client, NorthernPowergridName, p.endpoint, nil)
}

type northernPowergridFault struct {
	NatureOfOutage string `json:"NatureOfOutage"`
	LoggedTime     string `json:"LoggedTime"`
	Postcode       string `json:"Postcode"`
}

// Parse implements Adapter.
func (p *NorthernPowergrid) Parse(payload []byte) []Intermediate {
	var faults []northernPowergridFault
	if err := json.Unmarshal(payload, &faults); err != nil {
		return nil
	}

	out := make([]Intermediate, 0, len(faults))
	for _, fault := range faults {
		out = append(out, Intermediate{
			RawStatus:       fault.NatureOfOutage,
			RawOutageDate:   fault.LoggedTime,
			RawPostcodeList: []string{fault.Postcode},
		})
	}
	return out
}

// Transform implements Adapter.
func (p *NorthernPowergrid) Transform(rec Intermediate) (models.OutageRecord, bool) {
	postcodes := normalize.PostcodeList(rec.RawPostcodeList)
	outageDate := normalize.DateTime(rec.RawOutageDate)
	if len(postcodes) == 0 || outageDate == "" {
		return models.OutageRecord{}, false
	}

	return models.OutageRecord{
		SourceProvider:    NorthernPowergridName,
		OutageDate:        outageDate,
		Status:            substringStatus(rec.RawStatus),
		RecordingTime:     normalize.Now(),
		AffectedPostcodes: postcodes,
	}, true
}
