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

// Package dedup provides a Redis-backed seen-filter over the natural
// outage key (source_provider, outage_date). Live DNO feeds republish
// the same outages every few minutes, so most records in a run are
// duplicates the database would reject anyway; the filter skips them
// before they cost a round trip.
//
// The filter is advisory only: keys are marked after a record commits,
// and a missed key merely means one extra ON CONFLICT no-op in the
// store. The unique constraint stays the sole correctness mechanism.
package dedup

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// DefaultTTL is how long a loaded outage key is remembered. Feeds
	// drop resolved outages within hours, so a day is comfortably past
	// any republish window.
	DefaultTTL = 24 * time.Hour

	// keyPrefix namespaces seen-outage keys in Redis.
	keyPrefix = "outages:seen:"
)

// Filter tracks which outage keys have already been loaded.
type Filter struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewFilter creates a seen-filter backed by Redis.
func NewFilter(rdb *redis.Client) *Filter {
	return &Filter{
		rdb: rdb,
		ttl: DefaultTTL,
	}
}

// Key builds the Redis key for one outage's natural identity.
func Key(sourceProvider, outageDate string) string {
	return fmt.Sprintf("%s%s|%s", keyPrefix, sourceProvider, outageDate)
}

// Seen reports whether the outage key was marked by a previous
// successful load. Errors surface so the caller can fall through to the
// store rather than silently dropping records.
func (f *Filter) Seen(ctx context.Context, sourceProvider, outageDate string) (bool, error) {
	n, err := f.rdb.Exists(ctx, Key(sourceProvider, outageDate)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup EXISTS: %w", err)
	}
	return n > 0, nil
}

// MarkSeen remembers an outage key after its record has committed.
func (f *Filter) MarkSeen(ctx context.Context, sourceProvider, outageDate string) error {
	if err := f.rdb.Set(ctx, Key(sourceProvider, outageDate), 1, f.ttl).Err(); err != nil {
		return fmt.Errorf("dedup SET: %w", err)
	}
	return nil
}

// Ping checks the Redis connection.
func (f *Filter) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return f.rdb.Ping(ctx).Err()
}
