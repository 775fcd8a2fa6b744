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

// Package config loads configuration from config.yaml and environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ukpowermonitor/ingestion/internal/provider"
)

// Default feed endpoints. Every one can be overridden in config.yaml,
// which is how the test and staging environments point at stubs.
const (
	defaultNationalGridEndpoint = "https://connecteddata.nationalgrid.co.uk/api/3/action/datastore_search"
	defaultNationalGridResource = "292f788f-4339-455b-8cc0-153e14509d4d"
	defaultNIEEndpoint          = "https://powercheck.nienetworks.co.uk/NIEPowerCheckerWebAPI/api/faults"
	defaultNPGEndpoint          = "https://power.northernpowergrid.com/Powercut_API/rest/powercuts/getall"
	defaultSPEnergyEndpoint     = "https://spenergynetworks.opendatasoft.com/api/explore/v2.1/catalog/datasets/distribution-network-live-outages/records"
	defaultSPNorthwestEndpoint  = "https://www.enwl.co.uk/api/power-outages/search?pageSize=1000&pageNumber=1&includeCurrent=true&includeResolved=false&includeTodaysPlanned=true&includeFuturePlanned=true&includeCancelledPlanned=false"
	defaultSSENEndpoint         = "https://ssen-powertrack-api.opcld.com/gridiview/reporter/info/livefaults"
	defaultUKPNEndpoint         = "https://ukpowernetworks.opendatasoft.com/api/explore/v2.1/catalog/datasets/ukpn-live-faults/records"
)

// ProviderConfig holds the per-operator feed settings.
type ProviderConfig struct {
	Endpoint   string        `yaml:"endpoint"`
	ResourceID string        `yaml:"resource_id"` // National Grid CKAN only
	APIKey     string        `yaml:"api_key"`     // Opendatasoft operators only
	Timeout    time.Duration `yaml:"timeout"`
}

// Providers groups the seven operator feeds.
type Providers struct {
	NationalGrid      ProviderConfig `yaml:"national_grid"`
	NIE               ProviderConfig `yaml:"nie"`
	NorthernPowergrid ProviderConfig `yaml:"northern_powergrid"`
	SPEnergy          ProviderConfig `yaml:"sp_energy"`
	SPNorthwest       ProviderConfig `yaml:"sp_northwest"`
	SSEN              ProviderConfig `yaml:"ssen"`
	UKPN              ProviderConfig `yaml:"ukpn"`
}

// Config holds all configuration for both pipeline halves.
type Config struct {
	Providers Providers

	// FetchTimeout, when non-zero, overrides every feed's own timeout.
	FetchTimeout time.Duration

	// Database: either a direct URL or the ARN of a Secrets Manager
	// secret holding DB_* credentials. The URL wins when both are set.
	DatabaseURL string
	DBSecretARN string

	// Redis seen-filter. Empty disables the pre-filter; the database
	// unique constraint still deduplicates.
	RedisURL string

	// SES sender address for alert emails. Must be verified in SES.
	EmailSource string
}

// rawConfig mirrors the YAML structure for unmarshalling.
type rawConfig struct {
	Providers Providers `yaml:"providers"`
	Database  struct {
		URL       string `yaml:"url"`
		SecretARN string `yaml:"secret_arn"`
	} `yaml:"database"`
	Redis struct {
		URL string `yaml:"url"`
	} `yaml:"redis"`
	Email struct {
		Source string `yaml:"source"`
	} `yaml:"email"`
}

// Load reads configuration from config.yaml (with env var expansion)
// and environment variables for non-YAML settings. A missing config
// file is not an error: the built-in endpoints plus environment
// variables are a complete configuration, which is how the Lambda
// deployments run.
func Load() (*Config, error) {
	configPath := envOrDefault("CONFIG_PATH", "/app/config/config.yaml")

	var raw rawConfig
	data, err := os.ReadFile(configPath)
	switch {
	case os.IsNotExist(err):
		// Fall through to defaults.
	case err != nil:
		return nil, fmt.Errorf("read config file %s: %w", configPath, err)
	default:
		// Expand ${VAR} references in the YAML
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
			return nil, fmt.Errorf("parse config YAML: %w", err)
		}
	}

	cfg := &Config{
		Providers:    raw.Providers,
		FetchTimeout: envOrDefaultDuration("FETCH_TIMEOUT", 0),
		DatabaseURL:  firstNonEmpty(raw.Database.URL, os.Getenv("DATABASE_URL")),
		DBSecretARN:  firstNonEmpty(raw.Database.SecretARN, os.Getenv("DB_SECRET_ARN")),
		RedisURL:     firstNonEmpty(raw.Redis.URL, os.Getenv("REDIS_URL")),
		EmailSource:  firstNonEmpty(raw.Email.Source, os.Getenv("SES_SOURCE")),
	}

	applyProviderDefaults(&cfg.Providers)

	if cfg.Providers.SPEnergy.APIKey == "" {
		cfg.Providers.SPEnergy.APIKey = os.Getenv("SP_ENERGY_API_KEY")
	}
	if cfg.Providers.UKPN.APIKey == "" {
		cfg.Providers.UKPN.APIKey = os.Getenv("UKPN_API_KEY")
	}

	return cfg, nil
}

// applyProviderDefaults fills in the production endpoints and timeouts
// for every feed the YAML leaves unset. The CKAN and Opendatasoft
// portals are slow under load and get a generous timeout; the rest
// answer in well under ten seconds.
func applyProviderDefaults(p *Providers) {
	defaultStr(&p.NationalGrid.Endpoint, defaultNationalGridEndpoint)
	defaultStr(&p.NationalGrid.ResourceID, defaultNationalGridResource)
	defaultStr(&p.NIE.Endpoint, defaultNIEEndpoint)
	defaultStr(&p.NorthernPowergrid.Endpoint, defaultNPGEndpoint)
	defaultStr(&p.SPEnergy.Endpoint, defaultSPEnergyEndpoint)
	defaultStr(&p.SPNorthwest.Endpoint, defaultSPNorthwestEndpoint)
	defaultStr(&p.SSEN.Endpoint, defaultSSENEndpoint)
	defaultStr(&p.UKPN.Endpoint, defaultUKPNEndpoint)

	defaultDur(&p.NationalGrid.Timeout, 30*time.Second)
	defaultDur(&p.SPEnergy.Timeout, 30*time.Second)
	defaultDur(&p.UKPN.Timeout, 30*time.Second)
	defaultDur(&p.NIE.Timeout, 10*time.Second)
	defaultDur(&p.NorthernPowergrid.Timeout, 10*time.Second)
	defaultDur(&p.SPNorthwest.Timeout, 10*time.Second)
	defaultDur(&p.SSEN.Timeout, 10*time.Second)
}

// Adapters builds the full adapter set in the fixed ingestion order.
func (c *Config) Adapters() []provider.Adapter {
	p := c.Providers
	return []provider.Adapter{
		provider.NewNationalGrid(p.NationalGrid.Endpoint, p.NationalGrid.ResourceID, c.timeout(p.NationalGrid)),
		provider.NewNIE(p.NIE.Endpoint, c.timeout(p.NIE)),
		provider.NewNorthernPowergrid(p.NorthernPowergrid.Endpoint, c.timeout(p.NorthernPowergrid)),
		provider.NewSPEnergy(p.SPEnergy.Endpoint, p.SPEnergy.APIKey, c.timeout(p.SPEnergy)),
		provider.NewSPNorthwest(p.SPNorthwest.Endpoint, c.timeout(p.SPNorthwest)),
		provider.NewSSEN(p.SSEN.Endpoint, c.timeout(p.SSEN)),
		provider.NewUKPN(p.UKPN.Endpoint, p.UKPN.APIKey, c.timeout(p.UKPN)),
	}
}

func (c *Config) timeout(p ProviderConfig) time.Duration {
	if c.FetchTimeout > 0 {
		return c.FetchTimeout
	}
	return p.Timeout
}

func defaultDur(target *time.Duration, fallback time.Duration) {
	if *target == 0 {
		*target = fallback
	}
}

func defaultStr(target *string, fallback string) {
	if strings.TrimSpace(*target) == "" {
		*target = fallback
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrDefaultDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
