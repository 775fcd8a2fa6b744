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
	"encoding/json"
	"strconv"
)

// SP Energy Networks and UK Power Networks both publish through
// Opendatasoft portals, which nest each record's fields one of three
// ways depending on the portal version: under "fields", under
// "record.fields", or flat in the result itself.

type opendatasoftResponse struct {
	Results []json.RawMessage `json:"results"`
}

// decodeOpendatasoft unwraps an Opendatasoft explore-API response into
// one flat field map per record. Malformed payloads yield nil.
func decodeOpendatasoft(payload []byte) []map[string]any {
	var resp opendatasoftResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil
	}

	records := make([]map[string]any, 0, len(resp.Results))
	for _, raw := range resp.Results {
		var result map[string]any
		if err := json.Unmarshal(raw, &result); err != nil {
			continue
		}

		if fields, ok := result["fields"].(map[string]any); ok {
			records = append(records, fields)
			continue
		}
		if rec, ok := result["record"].(map[string]any); ok {
			if fields, ok := rec["fields"].(map[string]any); ok {
				records = append(records, fields)
				continue
			}
		}
		records = append(records, result)
	}
	return records
}

// fieldString renders a field that may arrive as a string, bool or
// number into its string form; absent or null fields become "".
func fieldString(fields map[string]any, key string) string {
	switch v := fields[key].(type) {
	case string:
		return v
	case bool:
		if v {
			return "true"
		}
		return "false"
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

// fieldStrings renders a field that arrives as a JSON array of strings.
func fieldStrings(fields map[string]any, key string) []string {
	list, ok := fields[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
