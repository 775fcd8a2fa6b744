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

// Package secrets resolves database credentials from AWS Secrets
// Manager. The secret is a JSON object using the DB_* key convention
// shared with the provisioning stack.
package secrets

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"

	"github.com/ukpowermonitor/ingestion/internal/config"
)

// API is the slice of the Secrets Manager client this package needs.
type API interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// Credentials hold everything needed to open the outage database.
type Credentials struct {
	Host     string `json:"DB_HOST"`
	Port     string `json:"DB_PORT"`
	Name     string `json:"DB_NAME"`
	User     string `json:"DB_USER"`
	Password string `json:"DB_PASSWORD"`
}

// DSN renders the credentials as a postgres connection URL suitable
// for pgxpool.New.
func (c Credentials) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   c.Host + ":" + c.Port,
		Path:   "/" + c.Name,
	}
	return u.String()
}

// ResolveDSN returns the database connection string for the loaded
// configuration: a direct URL when one is set, otherwise a Secrets
// Manager lookup using the ambient AWS credentials.
func ResolveDSN(ctx context.Context, cfg *config.Config) (string, error) {
	if cfg.DatabaseURL != "" {
		return cfg.DatabaseURL, nil
	}
	if cfg.DBSecretARN == "" {
		return "", fmt.Errorf("neither database URL nor secret ARN configured")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return "", fmt.Errorf("load AWS config: %w", err)
	}

	creds, err := Fetch(ctx, secretsmanager.NewFromConfig(awsCfg), cfg.DBSecretARN)
	if err != nil {
		return "", err
	}
	return creds.DSN(), nil
}

// Fetch retrieves and decodes the database secret.
func Fetch(ctx context.Context, client API, secretID string) (Credentials, error) {
	out, err := client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretID),
	})
	if err != nil {
		return Credentials{}, fmt.Errorf("get secret value: %w", err)
	}
	if out.SecretString == nil {
		return Credentials{}, fmt.Errorf("secret %s has no string payload", secretID)
	}

	var creds Credentials
	if err := json.Unmarshal([]byte(*out.SecretString), &creds); err != nil {
		return Credentials{}, fmt.Errorf("decode secret %s: %w", secretID, err)
	}
	if creds.Host == "" || creds.Name == "" || creds.User == "" {
		return Credentials{}, fmt.Errorf("secret %s missing required DB fields", secretID)
	}
	if creds.Port == "" {
		creds.Port = "5432"
	}
	return creds, nil
}
