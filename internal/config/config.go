// Package config loads configuration from environment variables.
package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Env holds the configuration values shared by the claim Lambdas.
type Env struct {
	Region string `envconfig:"AWS_REGION" default:"us-east-1"`

	// Record store tables.
	CustomersTable string `envconfig:"CUSTOMERS_TABLE" default:"autosettled-customers"`
	PoliciesTable  string `envconfig:"POLICIES_TABLE" default:"autosettled-policies"`
	VehiclesTable  string `envconfig:"VEHICLES_TABLE" default:"autosettled-vehicles"`
	ClaimsTable    string `envconfig:"CLAIMS_TABLE" default:"autosettled-claims"`

	// Object store for evidence uploads and settlement reports.
	Bucket string `envconfig:"S3_BUCKET_NAME"`

	// Reasoning model used for damage, document and settlement analysis.
	ModelID string `envconfig:"BEDROCK_MODEL_ID" default:"us.anthropic.claude-3-7-sonnet-20250219-v1:0"`

	// Agent runtime identifiers for the front door.
	AgentID      string `envconfig:"BEDROCK_AGENT_ID"`
	AgentAliasID string `envconfig:"BEDROCK_AGENT_ALIAS_ID"`

	// Agent turns can run for minutes; the read timeout must outlast them.
	AgentReadTimeout time.Duration `envconfig:"AGENT_READ_TIMEOUT" default:"10m"`
	AgentMaxAttempts int           `envconfig:"AGENT_MAX_ATTEMPTS" default:"3"`

	ReportLinkTTL time.Duration `envconfig:"REPORT_LINK_TTL" default:"168h"` // 7 days

	// Local development server only.
	ListenAddr string `envconfig:"LISTEN_ADDR" default:":8080"`

	Debug bool `envconfig:"DEBUG" default:"false"`
}

// MustLoad reads the environment and returns an Env, panicking on bad values.
func MustLoad() Env {
	var e Env
	envconfig.MustProcess("", &e)
	return e
}
