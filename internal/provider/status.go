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
	"strings"

	"github.com/ukpowermonitor/ingestion/internal/models"
)

// substringStatus is the rule family shared by NIE, Northern Powergrid
// and SP Electricity North West: their feeds describe outages in prose
// ("Fault", "Planned Work") so a case-insensitive substring match is
// enough. "fault" is checked first because it is the unambiguous token.
//
// National Grid, SP Energy (boolean flags), SSEN ("PSI" code) and UK
// Power Networks (exact vocabulary) each keep their own rule in their
// adapter; the vocabularies genuinely differ and must not be merged.
func substringStatus(raw string) string {
	lower := strings.ToLower(raw)
	if strings.Contains(lower, "fault") {
		return models.StatusUnplanned
	}
	if strings.Contains(lower, "planned") {
		return models.StatusPlanned
	}
	return models.StatusUnknown
}
