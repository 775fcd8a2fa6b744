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

package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ukpowermonitor/ingestion/internal/models"
)

// PendingAlerts finds every (customer, outage) pair that has not been
// notified yet: outages joined to subscriptions through the affected
// postcodes, anti-joined against the notification log. Postcodes are
// aggregated per pair so a customer subscribed to several postcodes hit
// by the same outage yields exactly one row, and so at most one email.
func (s *Store) PendingAlerts(ctx context.Context) ([]models.PendingAlert, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT
			c.customer_id,
			c.first_name,
			c.email,
			o.outage_id,
			o.outage_date,
			STRING_AGG(DISTINCT bsp.postcode, ', ') AS postcodes
		FROM FACT_outage o
		JOIN BRIDGE_affected_postcodes AS bap
			ON o.outage_id = bap.outage_id
		JOIN BRIDGE_subscribed_postcodes AS bsp
			ON bap.postcode_affected = bsp.postcode
		JOIN DIM_customer AS c
			ON bsp.customer_id = c.customer_id
		LEFT JOIN FACT_notification_log AS log
			ON c.customer_id = log.customer_id
			AND o.outage_id = log.outage_id
		WHERE
			log.notification_id IS NULL
		GROUP BY
			c.customer_id, c.first_name, c.email, o.outage_id, o.outage_date
	`)
	if err != nil {
		return nil, fmt.Errorf("query pending alerts: %w", err)
	}
	defer rows.Close()

	var alerts []models.PendingAlert
	for rows.Next() {
		var a models.PendingAlert
		if err := rows.Scan(
			&a.CustomerID, &a.FirstName, &a.Email,
			&a.OutageID, &a.OutageDate, &a.Postcodes,
		); err != nil {
			return nil, fmt.Errorf("scan pending alert: %w", err)
		}
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	slog.Info("found pending notifications", "count", len(alerts))
	return alerts, nil
}

// LogNotification durably records that a customer has been emailed
// about an outage. The row is the sole guard against resending: it is
// written only after a confirmed successful send, and never deleted.
func (s *Store) LogNotification(ctx context.Context, customerID, outageID int64) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO FACT_notification_log (customer_id, outage_id)
		VALUES ($1, $2)
	`, customerID, outageID)
	if err != nil {
		return fmt.Errorf("insert notification log: %w", err)
	}
	return nil
}
