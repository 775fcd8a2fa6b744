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

package alerts

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/ukpowermonitor/ingestion/internal/models"
)

// --- Fake source ---

type logKey struct {
	customerID int64
	outageID   int64
}

type fakeSource struct {
	pending    []models.PendingAlert
	pendingErr error
	logErr     error
	logged     []logKey
}

func (s *fakeSource) PendingAlerts(_ context.Context) ([]models.PendingAlert, error) {
	if s.pendingErr != nil {
		return nil, s.pendingErr
	}
	return s.pending, nil
}

func (s *fakeSource) LogNotification(_ context.Context, customerID, outageID int64) error {
	if s.logErr != nil {
		return s.logErr
	}
	s.logged = append(s.logged, logKey{customerID, outageID})
	return nil
}

// --- Fake sender ---

type fakeSender struct {
	sent    []models.PendingAlert
	failFor int64 // customer ID whose sends bounce
}

func (s *fakeSender) Send(_ context.Context, alert models.PendingAlert) error {
	if alert.CustomerID == s.failFor {
		return fmt.Errorf("bounce for customer %d", alert.CustomerID)
	}
	s.sent = append(s.sent, alert)
	return nil
}

func pendingAlert(customerID, outageID int64) models.PendingAlert {
	return models.PendingAlert{
		CustomerID: customerID,
		FirstName:  "Alex",
		Email:      fmt.Sprintf("customer%d@example.com", customerID),
		OutageID:   outageID,
		OutageDate: "2025-11-20T10:13:00",
		Postcodes:  "SA34 0TH, SA34 0UY",
	}
}

func TestRunSendsAndLogsEachPending(t *testing.T) {
	source := &fakeSource{pending: []models.PendingAlert{
		pendingAlert(1, 10),
		pendingAlert(2, 10),
		pendingAlert(1, 11),
	}}
	sender := &fakeSender{failFor: -1}

	stats, err := NewEngine(source, sender).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if stats != (Stats{Total: 3, Sent: 3, Failed: 0}) {
		t.Errorf("stats = %+v, want 3 sent", stats)
	}
	if len(sender.sent) != 3 {
		t.Fatalf("sender got %d alerts, want 3", len(sender.sent))
	}
	want := []logKey{{1, 10}, {2, 10}, {1, 11}}
	for i, k := range want {
		if source.logged[i] != k {
			t.Errorf("logged[%d] = %+v, want %+v", i, source.logged[i], k)
		}
	}
}

func TestRunSendFailureSkipsLog(t *testing.T) {
	source := &fakeSource{pending: []models.PendingAlert{
		pendingAlert(1, 10),
		pendingAlert(2, 10),
	}}
	sender := &fakeSender{failFor: 1}

	stats, err := NewEngine(source, sender).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if stats != (Stats{Total: 2, Sent: 1, Failed: 1}) {
		t.Errorf("stats = %+v, want 1 sent 1 failed", stats)
	}
	// The bounced pair must not be logged: it stays pending for the
	// next run.
	if len(source.logged) != 1 || source.logged[0] != (logKey{2, 10}) {
		t.Errorf("logged = %+v, want only customer 2", source.logged)
	}
}

func TestRunLogFailureCountsAsFailed(t *testing.T) {
	source := &fakeSource{
		pending: []models.PendingAlert{pendingAlert(1, 10)},
		logErr:  errors.New("db down"),
	}
	sender := &fakeSender{failFor: -1}

	stats, err := NewEngine(source, sender).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if stats != (Stats{Total: 1, Sent: 0, Failed: 1}) {
		t.Errorf("stats = %+v, want 1 failed", stats)
	}
	// The email did go out even though the log write failed.
	if len(sender.sent) != 1 {
		t.Errorf("sender got %d alerts, want 1", len(sender.sent))
	}
}

func TestRunPendingQueryErrorAborts(t *testing.T) {
	source := &fakeSource{pendingErr: errors.New("connection refused")}
	sender := &fakeSender{failFor: -1}

	_, err := NewEngine(source, sender).Run(context.Background())
	if err == nil {
		t.Fatal("expected error when pending query fails")
	}
	if len(sender.sent) != 0 {
		t.Errorf("sender got %d alerts, want 0", len(sender.sent))
	}
}
