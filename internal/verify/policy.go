package verify

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/autosettled/claims-agent/internal/models"
)

const dateLayout = "2006-01-02"

// PolicyStore is the record access policy verification needs.
type PolicyStore interface {
	GetPolicy(ctx context.Context, policyID string) (*models.Policy, error)
	VehicleForPolicy(ctx context.Context, policyID string) (*models.Vehicle, error)
}

// PolicyResult is the policy verification outcome. Each verification failure
// carries its own distinct message.
type PolicyResult struct {
	Verified   bool           `json:"verified"`
	PolicyData *models.Policy `json:"policy_data,omitempty"`
	VehicleVIN string         `json:"vehicle_vin,omitempty"`
	Message    string         `json:"message,omitempty"`
	Error      string         `json:"error,omitempty"`
}

// Policy verifies a policy's ownership, status and validity window.
type Policy struct {
	Store PolicyStore
	Now   func() time.Time
}

func (v *Policy) now() time.Time {
	if v.Now != nil {
		return v.Now()
	}
	return time.Now()
}

// Verify checks a policy by primary key: it must exist, belong to the
// supplied customer, have Active status and an end date not before now. Each
// failure is deterministic with a distinct human-readable reason. On success
// the linked vehicle's VIN is attached; that sub-lookup is nice-to-have and
// its failure is logged and swallowed.
func (v *Policy) Verify(ctx context.Context, policyID, customerID string) PolicyResult {
	policy, err := v.Store.GetPolicy(ctx, policyID)
	if err != nil {
		log.Error().Err(err).Str("policy_id", policyID).Msg("policy lookup failed")
		return PolicyResult{Verified: false, Error: err.Error()}
	}
	if policy == nil {
		return PolicyResult{Verified: false, Message: "Policy not found"}
	}
	if policy.CustomerID != customerID {
		return PolicyResult{Verified: false, Message: "Policy does not belong to this customer"}
	}
	if policy.PolicyStatus != models.PolicyActive {
		return PolicyResult{
			Verified: false,
			Message:  fmt.Sprintf("Policy is %s, not Active", policy.PolicyStatus),
		}
	}

	endDate, err := time.Parse(dateLayout, policy.PolicyEndDate)
	if err != nil {
		log.Error().Err(err).Str("policy_id", policyID).Msg("bad policy end date")
		return PolicyResult{Verified: false, Error: fmt.Sprintf("invalid policy end date: %v", err)}
	}
	if endDate.Before(v.now()) {
		return PolicyResult{Verified: false, Message: "Policy expired"}
	}

	vin := v.lookupVIN(ctx, policyID)

	number := policy.PolicyNumber
	if number == "" {
		number = policy.PolicyID
	}
	msg := fmt.Sprintf("Policy %s verified successfully", number)
	if vin != "" {
		msg += fmt.Sprintf(". Vehicle VIN: %s", vin)
	}
	return PolicyResult{
		Verified:   true,
		PolicyData: policy,
		VehicleVIN: vin,
		Message:    msg,
	}
}

func (v *Policy) lookupVIN(ctx context.Context, policyID string) string {
	vehicle, err := v.Store.VehicleForPolicy(ctx, policyID)
	if err != nil {
		log.Warn().Err(err).Str("policy_id", policyID).Msg("vehicle VIN lookup failed")
		return ""
	}
	if vehicle == nil {
		return ""
	}
	return vehicle.VIN
}
