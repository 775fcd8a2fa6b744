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
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ukpowermonitor/ingestion/internal/models"
	"github.com/ukpowermonitor/ingestion/internal/normalize"
)

// SPEnergyName is the fixed source_provider constant for this feed.
const SPEnergyName = "SP Energy Networks"

const opendatasoftLimit = 100

// SPEnergy reads the live-outages dataset on SP Energy Networks'
// Opendatasoft portal. The portal requires an API key; postcode sectors
// arrive as a JSON list and the planned flag is a real boolean.
type SPEnergy struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewSPEnergy creates the SP Energy Networks adapter.
func NewSPEnergy(endpoint, apiKey string, timeout time.Duration) *SPEnergy {
	return &SPEnergy{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
	}
}

// Name implements Adapter.
func (s *SPEnergy) Name() string { return SPEnergyName }

// Fetch implements Adapter. The portal rejects anonymous requests, so a
// missing key fails fast without a round trip.
func (s *SPEnergy) Fetch(ctx context.Context) ([]byte, error) {
	if s.apiKey == "" {
		return nil, &FetchError{Provider: SPEnergyName, Err: fmt.Errorf("API key not configured")}
	}

	params := url.Values{}
	params.Set("limit", fmt.Sprint(opendatasoftLimit))
	params.Set("timezone", "Europe/London")

	headers := map[string]string{"Authorization": "Apikey " + s.apiKey}
	return fetchBytes(ctx, s.client, SPEnergyName, s.endpoint+"?"+params.Encode(), headers)
}

// Parse implements Adapter. The outage date prefers the planned start
// over the fault report time when both are present.
func (s *SPEnergy) Parse(payload []byte) []Intermediate {
	fields := decodeOpendatasoft(payload)

	out := make([]Intermediate, 0, len(fields))
	for _, rec := range fields {
		outageDate := fieldString(rec, "planned_outage_start_date")
		if outageDate == "" {
			outageDate = fieldString(rec, "date_of_reported_fault")
		}

		out = append(out, Intermediate{
			RawStatus:       fieldString(rec, "planned"),
			RawOutageDate:   outageDate,
			RawPostcodeList: fieldStrings(rec, "postcode_sector"),
		})
	}
	return out
}

// Transform implements Adapter.
func (s *SPEnergy) Transform(rec Intermediate) (models.OutageRecord, bool) {
	postcodes := normalize.PostcodeList(rec.RawPostcodeList)
	outageDate := normalize.DateTime(rec.RawOutageDate)
	if len(postcodes) == 0 || outageDate == "" {
		return models.OutageRecord{}, false
	}

	return models.OutageRecord{
		SourceProvider:    SPEnergyName,
		OutageDate:        outageDate,
		Status:            spEnergyStatus(rec.RawStatus),
		RecordingTime:     normalize.Now(),
		AffectedPostcodes: postcodes,
	}, true
}

// spEnergyStatus maps the portal's planned flag, which arrives as a
// boolean but is kept tolerant of string renderings.
func spEnergyStatus(planned string) string {
	switch strings.ToLower(strings.TrimSpace(planned)) {
	case "true", "1", "yes":
		return models.StatusPlanned
	}
	return models.StatusUnplanned
}
