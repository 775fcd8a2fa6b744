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

// Package normalize holds the pure field normalizers shared across the
// provider adapters: postcode casing/splitting and ISO-8601 datetime
// cleanup. Status mapping is deliberately NOT here: each provider's
// status vocabulary is its own business rule and lives in its adapter.
package normalize

import "strings"

// Postcodes splits a raw postcode string on the provider's delimiter and
// normalizes each token: internal whitespace runs collapsed to a single
// space, uppercased, empties dropped. Empty or whitespace-only input
// yields nil; this function never fails.
func Postcodes(raw, sep string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var out []string
	for _, tok := range strings.Split(raw, sep) {
		if pc := Postcode(tok); pc != "" {
			out = append(out, pc)
		}
	}
	return out
}

// PostcodeList normalizes each element of an already-split postcode list
// (the Northern Powergrid / SP Northwest / SSEN convention), dropping
// tokens that are empty after cleanup.
func PostcodeList(raw []string) []string {
	var out []string
	for _, tok := range raw {
		if pc := Postcode(tok); pc != "" {
			out = append(out, pc)
		}
	}
	return out
}

// Postcode normalizes a single postcode token: whitespace runs collapse
// to one space, result is uppercased. Returns "" for blank input.
func Postcode(raw string) string {
	return strings.ToUpper(strings.Join(strings.Fields(raw), " "))
}
