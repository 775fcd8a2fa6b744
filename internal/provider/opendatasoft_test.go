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
	"reflect"
	"testing"
)

func TestDecodeOpendatasoftMalformed(t *testing.T) {
	if got := decodeOpendatasoft([]byte("not json")); got != nil {
		t.Errorf("decodeOpendatasoft = %v, want nil", got)
	}
	if got := decodeOpendatasoft([]byte(`{"results": ["bad", {"a": 1}]}`)); len(got) != 1 {
		t.Errorf("decodeOpendatasoft kept %d records, want 1", len(got))
	}
}

func TestFieldString(t *testing.T) {
	fields := map[string]any{
		"str":  "value",
		"yes":  true,
		"no":   false,
		"num":  float64(42),
		"frac": float64(1.5),
		"null": nil,
	}

	tests := []struct {
		key  string
		want string
	}{
		{"str", "value"},
		{"yes", "true"},
		{"no", "false"},
		{"num", "42"},
		{"frac", "1.5"},
		{"null", ""},
		{"absent", ""},
	}
	for _, tt := range tests {
		if got := fieldString(fields, tt.key); got != tt.want {
			t.Errorf("fieldString(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestFieldStrings(t *testing.T) {
	fields := map[string]any{
		"list":  []any{"a", "b", float64(3)},
		"plain": "not a list",
	}

	if got, want := fieldStrings(fields, "list"), []string{"a", "b"}; !reflect.DeepEqual(got, want) {
		t.Errorf("fieldStrings(list) = %v, want %v", got, want)
	}
	if got := fieldStrings(fields, "plain"); got != nil {
		t.Errorf("fieldStrings(plain) = %v, want nil", got)
	}
}
