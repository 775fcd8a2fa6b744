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
	"reflect"
	"testing"
)

// TestPostcodes verifies delimiter splitting, casing and whitespace
// collapsing across both delimiter conventions.
func TestPostcodes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		sep  string
		want []string
	}{
		{
			name: "single postcode with padding and double space",
			raw:  " sw1a  1aa ",
			sep:  ",",
			want: []string{"SW1A 1AA"},
		},
		{
			name: "comma delimited",
			raw:  "SA34 0TH, SA34 0UY",
			sep:  ",",
			want: []string{"SA34 0TH", "SA34 0UY"},
		},
		{
			name: "semicolon delimited",
			raw:  "bt1 1aa;bt2 2bb",
			sep:  ";",
			want: []string{"BT1 1AA", "BT2 2BB"},
		},
		{
			name: "empty input",
			raw:  "",
			sep:  ",",
			want: nil,
		},
		{
			name: "whitespace only",
			raw:  "   ",
			sep:  ";",
			want: nil,
		},
		{
			name: "empty tokens dropped",
			raw:  "BR8 7RE,, ,CH7 6",
			sep:  ",",
			want: []string{"BR8 7RE", "CH7 6"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Postcodes(tt.raw, tt.sep)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Postcodes(%q, %q) = %v, want %v", tt.raw, tt.sep, got, tt.want)
			}
		})
	}
}

// TestPostcodeList verifies normalization of already-split lists.
func TestPostcodeList(t *testing.T) {
	got := PostcodeList([]string{" ab10  1aa ", "", "iv2 3bb"})
	want := []string{"AB10 1AA", "IV2 3BB"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("PostcodeList = %v, want %v", got, want)
	}

	if got := PostcodeList(nil); got != nil {
		t.Errorf("PostcodeList(nil) = %v, want nil", got)
	}
}

// TestPostcode verifies single-token cleanup.
func TestPostcode(t *testing.T) {
	if got := Postcode("  ne1   4lp "); got != "NE1 4LP" {
		t.Errorf("Postcode = %q, want NE1 4LP", got)
	}
	if got := Postcode("   "); got != "" {
		t.Errorf("Postcode(blank) = %q, want empty", got)
	}
}
