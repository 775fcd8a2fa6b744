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

// UKPNName is the fixed source_provider constant for this feed.
const UKPNName = "UK Power Networks"

// UKPN reads the ukpn-live-faults dataset on UK Power Networks'
// Opendatasoft portal. The dataset is public; an API key is sent only
// when configured. Postcodes arrive semicolon-delimited.
type UKPN struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewUKPN creates the UK Power Networks adapter.
func NewUKPN(endpoint, apiKey string, timeout time.Duration) *UKPN {
	return &UKPN{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
	}
}

// Name implements Adapter.
func (u *UKPN) Name() string { return UKPNName }

// Fetch implements Adapter.
func (u *UKPN) Fetch(ctx context.Context) ([]byte, error) {
	params := url.Values{}
	params.Set("limit", fmt.Sprint(opendatasoftLimit))
	params.Set("timezone", "Europe/London")

	var headers map[string]string
	if u.apiKey != "" {
		headers = map[string]string{"Authorization": "Apikey " + u.apiKey}
	}
	return fetchBytes(ctx, u.client, UKPNName, u.endpoint+"?"+params.Encode(), headers)
}

// Parse implements Adapter.
func (u *UKPN) Parse(payload []byte) []Intermediate {
	fields := decodeOpendatasoft(payload)

	out := make([]Intermediate, 0, len(fields))
	for _, rec := range fields {
		out = append(out, Intermediate{
			RawStatus:     strings.TrimSpace(fieldString(rec, "powercuttype")),
			RawOutageDate: fieldString(rec, "creationdatetime"),
			RawPostcodes:  strings.TrimSpace(fieldString(rec, "postcodesaffected")),
		})
	}
	return out
}

// Transform implements Adapter.
func (u *UKPN) Transform(rec Intermediate) (models.OutageRecord, bool) {
	postcodes := normalize.Postcodes(rec.RawPostcodes, ";")
	outageDate := normalize.DateTime(rec.RawOutageDate)
	if len(postcodes) == 0 || outageDate == "" {
		return models.OutageRecord{}, false
	}

	return models.OutageRecord{
		SourceProvider:    UKPNName,
		OutageDate:        outageDate,
		Status:            ukpnStatus(rec.RawStatus),
		RecordingTime:     normalize.Now(),
		AffectedPostcodes: postcodes,
	}, true
}

// ukpnStatus maps the feed's exact powercuttype vocabulary. A substring
// match would misread "Unplanned" as planned, so this one is an exact
// comparison; "Restored" and "Multiple" can mix both kinds and stay
// unknown.
func ukpnStatus(powercuttype string) string {
	switch strings.ToLower(strings.TrimSpace(powercuttype)) {
	case "planned":
		return models.StatusPlanned
	case "unplanned":
		return models.StatusUnplanned
	}
	return models.StatusUnknown
}
