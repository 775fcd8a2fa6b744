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

package normalize

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// isoLayouts are the ISO-8601 shapes the DNO feeds actually emit:
// with/without sub-second precision, with/without a UTC offset. Offset
// layouts come first so a trailing 'Z' binds as a zone, not a literal.
var isoLayouts = []struct {
	layout    string
	hasOffset bool
}{
	{"2006-01-02T15:04:05.999999999Z07:00", true},
	{"2006-01-02T15:04:05Z07:00", true},
	{"2006-01-02T15:04:05.999999999", false},
	{"2006-01-02T15:04:05", false},
	{"2006-01-02", false},
}

// DateTime normalizes an ISO-8601 timestamp to second precision,
// accepting a trailing 'Z' as a UTC offset and stripping microseconds.
//
// Empty input returns "". Unparseable input is logged and passed through
// UNCHANGED. A record is never dropped for a bad timestamp; downstream
// consumers must tolerate the occasional non-normalized value.
func DateTime(raw string) string {
	if raw == "" {
		return ""
	}

	for _, l := range isoLayouts {
		t, err := time.Parse(l.layout, raw)
		if err != nil {
			continue
		}
		if l.hasOffset {
			return t.Truncate(time.Second).Format("2006-01-02T15:04:05Z07:00")
		}
		return t.Truncate(time.Second).Format("2006-01-02T15:04:05")
	}

	slog.Warn("failed to normalize datetime, passing through", "value", raw)
	return raw
}

// NIEDateTime parses NIE Networks' clock-only outage start format
// ("3:04 PM, 2 Jan") by pinning it to the current year, returning an
// ISO-8601 string. Unlike DateTime this returns "" on failure: a clock
// string that doesn't parse carries no usable instant at all.
func NIEDateTime(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	withYear := fmt.Sprintf("%s %d", raw, time.Now().Year())
	t, err := time.Parse("3:04 PM, 2 Jan 2006", withYear)
	if err != nil {
		slog.Warn("failed to parse NIE outage time", "value", raw, "error", err)
		return ""
	}
	return t.Format("2006-01-02T15:04:05")
}

// Now renders the current UTC instant in the pipeline's canonical
// second-precision ISO-8601 form, used for recording_time stamps.
func Now() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05")
}
