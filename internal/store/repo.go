// Package store is the DynamoDB repository for customer, policy, vehicle and
// claim records. All records are owned by the external store; this system
// holds nothing in memory between invocations.
package store

import (
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// Tables names the four record-store tables.
type Tables struct {
	Customers string
	Policies  string
	Vehicles  string
	Claims    string
}

// Repo wraps a DynamoDB client and the claim table set.
type Repo struct {
	DB     *dynamodb.Client
	Tables Tables
}

// New returns a Repo bound to the given client and tables.
func New(db *dynamodb.Client, t Tables) *Repo {
	return &Repo{DB: db, Tables: t}
}

// awsStr is a helper to get a pointer to a string literal.
func awsStr(s string) *string { return &s }

// NowISO returns the current time in ISO8601 format.
func NowISO() string { return time.Now().UTC().Format(time.RFC3339) }
