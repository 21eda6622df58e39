// Package verify implements the customer and policy verification steps:
// record-store lookups plus business-rule checks, returning a verified flag
// with supporting data. Business negatives (not found, expired, mismatched)
// are normal results, never errors.
package verify

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/autosettled/claims-agent/internal/models"
)

// CustomerStore is the record access customer verification needs.
type CustomerStore interface {
	FindCustomer(ctx context.Context, firstName, lastName, email string) (*models.Customer, error)
	ActivePolicies(ctx context.Context, customerID string) ([]models.Policy, error)
	VehicleForPolicy(ctx context.Context, policyID string) (*models.Vehicle, error)
}

// CustomerResult is the customer verification outcome.
type CustomerResult struct {
	Verified     bool                   `json:"verified"`
	CustomerID   string                 `json:"customer_id,omitempty"`
	CustomerData *models.Customer       `json:"customer_data,omitempty"`
	Policies     []models.PolicySummary `json:"policies,omitempty"`
	Message      string                 `json:"message,omitempty"`
	Error        string                 `json:"error,omitempty"`
}

// Customer verifies a caller's identity against the record store.
type Customer struct {
	Store CustomerStore
}

// Verify looks up a customer by exact match on name and email. Zero matches
// is a not-verified result; multiple matches take the first record the store
// returns (scan order is unspecified; natural keys are seeded unique). A
// verified customer is enriched with every Active policy and its vehicle;
// enrichment failures are logged and swallowed.
func (v *Customer) Verify(ctx context.Context, firstName, lastName, email string) CustomerResult {
	customer, err := v.Store.FindCustomer(ctx, firstName, lastName, email)
	if err != nil {
		log.Error().Err(err).Msg("customer lookup failed")
		return CustomerResult{Verified: false, Error: err.Error()}
	}
	if customer == nil {
		return CustomerResult{Verified: false, Message: "Customer not found in our records"}
	}

	policies := v.enrichPolicies(ctx, customer.CustomerID)
	return CustomerResult{
		Verified:     true,
		CustomerID:   customer.CustomerID,
		CustomerData: customer,
		Policies:     policies,
		Message: fmt.Sprintf("Customer %s %s verified successfully. Found %d active policy(ies)",
			firstName, lastName, len(policies)),
	}
}

func (v *Customer) enrichPolicies(ctx context.Context, customerID string) []models.PolicySummary {
	policies, err := v.Store.ActivePolicies(ctx, customerID)
	if err != nil {
		log.Warn().Err(err).Str("customer_id", customerID).Msg("policy enrichment failed")
		return nil
	}

	summaries := make([]models.PolicySummary, 0, len(policies))
	for _, p := range policies {
		summary := models.PolicySummary{
			PolicyID:         p.PolicyID,
			PolicyNumber:     p.PolicyNumber,
			PolicyType:       p.PolicyType,
			PremiumAmount:    p.PremiumAmount,
			CoverageAmount:   p.CoverageAmount,
			DeductibleAmount: p.DeductibleAmount,
		}
		vehicle, err := v.Store.VehicleForPolicy(ctx, p.PolicyID)
		if err != nil {
			log.Warn().Err(err).Str("policy_id", p.PolicyID).Msg("vehicle enrichment failed")
		} else if vehicle != nil {
			summary.VehicleYear = strconv.Itoa(vehicle.YearOfManufacture)
			summary.VehicleMake = vehicle.Make
			summary.VehicleModel = vehicle.Model
			summary.VehicleType = vehicle.VehicleType
		}
		summaries = append(summaries, summary)
	}
	return summaries
}
