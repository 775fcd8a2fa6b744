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

// Package email delivers outage alerts through Amazon SES.
package email

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/ukpowermonitor/ingestion/internal/models"
)

// API is the slice of the SES v2 client the sender needs.
type API interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// Sender sends plain-text alert emails from a fixed verified address.
type Sender struct {
	client API
	source string
}

// NewSender creates an SES-backed sender. source must be an address
// verified in the SES account.
func NewSender(client API, source string) *Sender {
	return &Sender{client: client, source: source}
}

// Send delivers one alert email. The SES message ID is discarded; the
// caller only needs to know whether the send was accepted.
func (s *Sender) Send(ctx context.Context, alert models.PendingAlert) error {
	subject, body := Compose(alert)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.source),
		Destination: &types.Destination{
			ToAddresses: []string{alert.Email},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(body)},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("send alert to %s: %w", alert.Email, err)
	}
	return nil
}

// Compose renders the alert subject and plain-text body.
func Compose(alert models.PendingAlert) (subject, body string) {
	subject = fmt.Sprintf("Power Outage Alert for %s", alert.Postcodes)
	body = fmt.Sprintf(
		"Hi %s\n\n"+
			"There are power outages for the following postcodes you are subscribed to: %s.\n\n"+
			"Occured at: %s\n\n"+
			"Regards,\nUK Power Monitor Team",
		alert.FirstName, alert.Postcodes, alert.OutageDate,
	)
	return subject, body
}
