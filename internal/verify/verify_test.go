package verify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/autosettled/claims-agent/internal/models"
)

type fakeStore struct {
	findCustomerFn     func(ctx context.Context, first, last, email string) (*models.Customer, error)
	activePoliciesFn   func(ctx context.Context, customerID string) ([]models.Policy, error)
	getPolicyFn        func(ctx context.Context, policyID string) (*models.Policy, error)
	vehicleForPolicyFn func(ctx context.Context, policyID string) (*models.Vehicle, error)
}

func (f *fakeStore) FindCustomer(ctx context.Context, first, last, email string) (*models.Customer, error) {
	if f.findCustomerFn != nil {
		return f.findCustomerFn(ctx, first, last, email)
	}
	return nil, nil
}

func (f *fakeStore) ActivePolicies(ctx context.Context, customerID string) ([]models.Policy, error) {
	if f.activePoliciesFn != nil {
		return f.activePoliciesFn(ctx, customerID)
	}
	return nil, nil
}

func (f *fakeStore) GetPolicy(ctx context.Context, policyID string) (*models.Policy, error) {
	if f.getPolicyFn != nil {
		return f.getPolicyFn(ctx, policyID)
	}
	return nil, nil
}

func (f *fakeStore) VehicleForPolicy(ctx context.Context, policyID string) (*models.Vehicle, error) {
	if f.vehicleForPolicyFn != nil {
		return f.vehicleForPolicyFn(ctx, policyID)
	}
	return nil, nil
}

var (
	janeDoe = models.Customer{
		CustomerID:             "C1",
		FirstName:              "Jane",
		LastName:               "Doe",
		Email:                  "jane@example.com",
		PreviousClaimsCount:    1,
		DrivingExperienceYears: 12,
	}
	activePolicy = models.Policy{
		PolicyID:         "P1",
		CustomerID:       "C1",
		PolicyNumber:     "POL-001",
		PolicyType:       "Comprehensive",
		PolicyStatus:     models.PolicyActive,
		PolicyEndDate:    "2030-12-31",
		CoverageAmount:   50000,
		DeductibleAmount: 500,
	}
	camry = models.Vehicle{
		VehicleID:         "V1",
		PolicyID:          "P1",
		VIN:               "4T1BE46K27U123456",
		Make:              "Toyota",
		Model:             "Camry",
		YearOfManufacture: 2019,
		VehicleType:       "Sedan",
	}
)

func TestCustomerVerified(t *testing.T) {
	store := &fakeStore{
		findCustomerFn: func(_ context.Context, first, last, email string) (*models.Customer, error) {
			if first != "Jane" || last != "Doe" || email != "jane@example.com" {
				t.Fatalf("lookup with %q %q %q", first, last, email)
			}
			c := janeDoe
			return &c, nil
		},
		activePoliciesFn: func(_ context.Context, customerID string) ([]models.Policy, error) {
			if customerID != "C1" {
				t.Fatalf("policies looked up for %q", customerID)
			}
			return []models.Policy{activePolicy}, nil
		},
		vehicleForPolicyFn: func(_ context.Context, policyID string) (*models.Vehicle, error) {
			v := camry
			return &v, nil
		},
	}

	v := &Customer{Store: store}
	res := v.Verify(context.Background(), "Jane", "Doe", "jane@example.com")
	if !res.Verified {
		t.Fatalf("not verified: %+v", res)
	}
	if res.CustomerID != "C1" {
		t.Fatalf("customer id = %q", res.CustomerID)
	}
	if res.Message != "Customer Jane Doe verified successfully. Found 1 active policy(ies)" {
		t.Fatalf("message = %q", res.Message)
	}
	if len(res.Policies) != 1 {
		t.Fatalf("policies = %d", len(res.Policies))
	}
	p := res.Policies[0]
	if p.VehicleMake != "Toyota" || p.VehicleModel != "Camry" || p.VehicleYear != "2019" {
		t.Fatalf("vehicle enrichment: %+v", p)
	}
}

func TestCustomerNotFound(t *testing.T) {
	v := &Customer{Store: &fakeStore{}}
	res := v.Verify(context.Background(), "No", "Body", "nobody@example.com")
	if res.Verified {
		t.Fatal("verified an unknown customer")
	}
	if res.Message != "Customer not found in our records" {
		t.Fatalf("message = %q", res.Message)
	}
	if res.Error != "" {
		t.Fatalf("not-found is not an error, got %q", res.Error)
	}
}

func TestCustomerLookupError(t *testing.T) {
	v := &Customer{Store: &fakeStore{
		findCustomerFn: func(context.Context, string, string, string) (*models.Customer, error) {
			return nil, errors.New("table unavailable")
		},
	}}
	res := v.Verify(context.Background(), "Jane", "Doe", "jane@example.com")
	if res.Verified {
		t.Fatal("verified despite lookup error")
	}
	if res.Error != "table unavailable" {
		t.Fatalf("error = %q", res.Error)
	}
}

func TestCustomerEnrichmentFailureIsSwallowed(t *testing.T) {
	v := &Customer{Store: &fakeStore{
		findCustomerFn: func(context.Context, string, string, string) (*models.Customer, error) {
			c := janeDoe
			return &c, nil
		},
		activePoliciesFn: func(context.Context, string) ([]models.Policy, error) {
			return nil, errors.New("scan throttled")
		},
	}}
	res := v.Verify(context.Background(), "Jane", "Doe", "jane@example.com")
	if !res.Verified {
		t.Fatalf("enrichment failure must not block verification: %+v", res)
	}
	if res.Message != "Customer Jane Doe verified successfully. Found 0 active policy(ies)" {
		t.Fatalf("message = %q", res.Message)
	}
}

func fixedNow() time.Time {
	return time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
}

func TestPolicyVerified(t *testing.T) {
	store := &fakeStore{
		getPolicyFn: func(_ context.Context, policyID string) (*models.Policy, error) {
			if policyID != "P1" {
				t.Fatalf("policy looked up by %q", policyID)
			}
			p := activePolicy
			return &p, nil
		},
		vehicleForPolicyFn: func(context.Context, string) (*models.Vehicle, error) {
			v := camry
			return &v, nil
		},
	}

	v := &Policy{Store: store, Now: fixedNow}
	res := v.Verify(context.Background(), "P1", "C1")
	if !res.Verified {
		t.Fatalf("not verified: %+v", res)
	}
	if res.VehicleVIN != camry.VIN {
		t.Fatalf("vin = %q", res.VehicleVIN)
	}
	want := "Policy POL-001 verified successfully. Vehicle VIN: " + camry.VIN
	if res.Message != want {
		t.Fatalf("message = %q", res.Message)
	}
}

func TestPolicyNotFound(t *testing.T) {
	v := &Policy{Store: &fakeStore{}, Now: fixedNow}
	res := v.Verify(context.Background(), "P404", "C1")
	if res.Verified || res.Message != "Policy not found" {
		t.Fatalf("result = %+v", res)
	}
}

func TestPolicyWrongCustomer(t *testing.T) {
	v := &Policy{Store: &fakeStore{
		getPolicyFn: func(context.Context, string) (*models.Policy, error) {
			p := activePolicy
			return &p, nil
		},
	}, Now: fixedNow}
	res := v.Verify(context.Background(), "P1", "C999")
	if res.Verified || res.Message != "Policy does not belong to this customer" {
		t.Fatalf("result = %+v", res)
	}
}

func TestPolicyNotActive(t *testing.T) {
	v := &Policy{Store: &fakeStore{
		getPolicyFn: func(context.Context, string) (*models.Policy, error) {
			p := activePolicy
			p.PolicyStatus = models.PolicyCancelled
			return &p, nil
		},
	}, Now: fixedNow}
	res := v.Verify(context.Background(), "P1", "C1")
	if res.Verified || res.Message != "Policy is Cancelled, not Active" {
		t.Fatalf("result = %+v", res)
	}
}

func TestPolicyExpiredByEndDate(t *testing.T) {
	// End date in the past fails verification even when the status field
	// still says Active.
	v := &Policy{Store: &fakeStore{
		getPolicyFn: func(context.Context, string) (*models.Policy, error) {
			p := activePolicy
			p.PolicyEndDate = "2026-08-28"
			return &p, nil
		},
	}, Now: fixedNow}
	res := v.Verify(context.Background(), "P1", "C1")
	if res.Verified || res.Message != "Policy expired" {
		t.Fatalf("result = %+v", res)
	}
}

func TestPolicyBadEndDate(t *testing.T) {
	v := &Policy{Store: &fakeStore{
		getPolicyFn: func(context.Context, string) (*models.Policy, error) {
			p := activePolicy
			p.PolicyEndDate = "not-a-date"
			return &p, nil
		},
	}, Now: fixedNow}
	res := v.Verify(context.Background(), "P1", "C1")
	if res.Verified {
		t.Fatal("verified with unparseable end date")
	}
	if res.Error == "" {
		t.Fatal("bad end date must surface as an error")
	}
}

func TestPolicyVINLookupFailureIsSwallowed(t *testing.T) {
	v := &Policy{Store: &fakeStore{
		getPolicyFn: func(context.Context, string) (*models.Policy, error) {
			p := activePolicy
			return &p, nil
		},
		vehicleForPolicyFn: func(context.Context, string) (*models.Vehicle, error) {
			return nil, errors.New("scan failed")
		},
	}, Now: fixedNow}
	res := v.Verify(context.Background(), "P1", "C1")
	if !res.Verified {
		t.Fatalf("VIN lookup failure must not block verification: %+v", res)
	}
	if res.VehicleVIN != "" {
		t.Fatalf("vin = %q", res.VehicleVIN)
	}
	if res.Message != "Policy POL-001 verified successfully" {
		t.Fatalf("message = %q", res.Message)
	}
}

func TestPolicyVerifyIsIdempotent(t *testing.T) {
	v := &Policy{Store: &fakeStore{
		getPolicyFn: func(context.Context, string) (*models.Policy, error) {
			p := activePolicy
			return &p, nil
		},
	}, Now: fixedNow}
	first := v.Verify(context.Background(), "P1", "C1")
	second := v.Verify(context.Background(), "P1", "C1")
	if first.Verified != second.Verified || first.Message != second.Message {
		t.Fatalf("results differ: %+v vs %+v", first, second)
	}
}
