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

// Package store provides the Postgres-backed fact/dimension model for
// outages and the queries the notification engine runs against it.
//
// Outage and affected-postcode rows are only ever created here, never
// updated or deleted; duplicate operator events are absorbed by the
// unique constraint on (source_provider, outage_date).
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ukpowermonitor/ingestion/internal/models"
)

// SeenFilter is the optional pre-insert duplicate filter (Redis-backed
// in production). A nil filter, or a filter error, simply means every
// record goes to the database, where the unique constraint decides.
type SeenFilter interface {
	Seen(ctx context.Context, sourceProvider, outageDate string) (bool, error)
	MarkSeen(ctx context.Context, sourceProvider, outageDate string) error
}

// Store wraps the shared Postgres pool used by both pipeline halves.
type Store struct {
	pool   *pgxpool.Pool
	filter SeenFilter
}

// New creates a store backed by the given pool and ensures the schema
// exists.
func New(ctx context.Context, pool *pgxpool.Pool) (*Store, error) {
	s := &Store{pool: pool}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure outage schema: %w", err)
	}
	slog.Info("outage store initialised")
	return s, nil
}

// WithSeenFilter attaches a duplicate pre-filter. Keys are checked
// before each insert and marked only after a record's transaction
// commits, so a failed insert is never remembered as loaded.
func (s *Store) WithSeenFilter(f SeenFilter) *Store {
	s.filter = f
	return s
}

func (s *Store) ensureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS FACT_outage (
			outage_id       BIGSERIAL PRIMARY KEY,
			source_provider TEXT NOT NULL,
			outage_date     TEXT NOT NULL,
			recording_time  TEXT NOT NULL,
			status          TEXT NOT NULL,
			UNIQUE(source_provider, outage_date)
		);
		CREATE TABLE IF NOT EXISTS BRIDGE_affected_postcodes (
			affected_id       BIGSERIAL PRIMARY KEY,
			outage_id         BIGINT NOT NULL REFERENCES FACT_outage(outage_id),
			postcode_affected TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS DIM_customer (
			customer_id BIGSERIAL PRIMARY KEY,
			first_name  TEXT NOT NULL,
			last_name   TEXT NOT NULL,
			email       TEXT NOT NULL UNIQUE
		);
		CREATE TABLE IF NOT EXISTS BRIDGE_subscribed_postcodes (
			customer_id BIGINT NOT NULL REFERENCES DIM_customer(customer_id),
			postcode    TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS FACT_notification_log (
			notification_id BIGSERIAL PRIMARY KEY,
			customer_id     BIGINT NOT NULL REFERENCES DIM_customer(customer_id),
			outage_id       BIGINT NOT NULL REFERENCES FACT_outage(outage_id)
		);
		CREATE INDEX IF NOT EXISTS idx_bridge_affected_outage
			ON BRIDGE_affected_postcodes(outage_id);
		CREATE INDEX IF NOT EXISTS idx_bridge_subscribed_postcode
			ON BRIDGE_subscribed_postcodes(postcode);
		CREATE INDEX IF NOT EXISTS idx_notification_log_pair
			ON FACT_notification_log(customer_id, outage_id);
	`)
	return err
}

// InsertOutages writes canonical records into FACT_outage and
// BRIDGE_affected_postcodes with duplicate-safe inserts, returning the
// number of NEW outages created. Each record commits in its own
// transaction: a failure partway through a batch never rolls back
// records already committed. Bridge rows are only written when the fact
// insert actually created a row; the bridge table is populated once per
// outage, at first sight.
func (s *Store) InsertOutages(ctx context.Context, records []models.OutageRecord) (int, error) {
	inserted := 0

	for _, rec := range records {
		if s.skipSeen(ctx, rec) {
			continue
		}
		created, err := s.insertOne(ctx, rec)
		if err != nil {
			// Record-level containment: log and move to the next record.
			slog.Error("failed to insert outage record",
				"provider", rec.SourceProvider,
				"outage_date", rec.OutageDate,
				"error", err,
			)
			continue
		}
		if created {
			inserted++
		}
		s.markSeen(ctx, rec)
	}

	slog.Info("outage load complete",
		"inserted", inserted,
		"duplicates_skipped", len(records)-inserted,
	)
	return inserted, nil
}

// skipSeen consults the pre-filter when one is attached. Filter errors
// are advisory: the record falls through to the database insert.
func (s *Store) skipSeen(ctx context.Context, rec models.OutageRecord) bool {
	if s.filter == nil {
		return false
	}
	seen, err := s.filter.Seen(ctx, rec.SourceProvider, rec.OutageDate)
	if err != nil {
		slog.Warn("seen-filter check failed, falling through to insert",
			"provider", rec.SourceProvider,
			"error", err,
		)
		return false
	}
	return seen
}

func (s *Store) markSeen(ctx context.Context, rec models.OutageRecord) {
	if s.filter == nil {
		return
	}
	if err := s.filter.MarkSeen(ctx, rec.SourceProvider, rec.OutageDate); err != nil {
		slog.Warn("seen-filter mark failed",
			"provider", rec.SourceProvider,
			"error", err,
		)
	}
}

// insertOne inserts a single canonical record inside one transaction.
// Returns false when the (source_provider, outage_date) conflict fired
// and the record was a duplicate.
func (s *Store) insertOne(ctx context.Context, rec models.OutageRecord) (bool, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var outageID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO FACT_outage (source_provider, outage_date, recording_time, status)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (source_provider, outage_date) DO NOTHING
		RETURNING outage_id
	`, rec.SourceProvider, rec.OutageDate, rec.RecordingTime, rec.Status).Scan(&outageID)

	if errors.Is(err, pgx.ErrNoRows) {
		// Conflict fired: the outage is already known and its bridge
		// rows were written at first sight. Nothing to do.
		return false, tx.Commit(ctx)
	}
	if err != nil {
		return false, fmt.Errorf("insert FACT_outage: %w", err)
	}

	batch := &pgx.Batch{}
	for _, pc := range rec.AffectedPostcodes {
		batch.Queue(`
			INSERT INTO BRIDGE_affected_postcodes (outage_id, postcode_affected)
			VALUES ($1, $2)
		`, outageID, pc)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return false, fmt.Errorf("insert BRIDGE_affected_postcodes: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}
	return true, nil
}
