// Package models defines the record types exchanged between claim steps.
package models

// PolicyStatus is the lifecycle status of an insurance policy.
type PolicyStatus string

// Possible values for PolicyStatus.
const (
	PolicyActive    PolicyStatus = "Active"
	PolicyExpired   PolicyStatus = "Expired"
	PolicyCancelled PolicyStatus = "Cancelled"
	PolicyLapsed    PolicyStatus = "Lapsed"
)

// Recommendation is the settlement outcome produced for a claim.
type Recommendation string

// Possible values for Recommendation.
const (
	RecommendApprove      Recommendation = "APPROVE"
	RecommendManualReview Recommendation = "MANUAL_REVIEW"
	RecommendDeny         Recommendation = "DENY"
)

// ClaimStatus tracks a claim session through the pipeline.
type ClaimStatus string

// Possible values for ClaimStatus.
const (
	ClaimInProgress ClaimStatus = "IN_PROGRESS"
	ClaimProcessed  ClaimStatus = "processed"
)

// Customer is a pre-seeded identity record. Read-only in this system.
type Customer struct {
	CustomerID             string `dynamodbav:"customer_id" json:"customer_id"`
	FirstName              string `dynamodbav:"first_name" json:"first_name"`
	LastName               string `dynamodbav:"last_name" json:"last_name"`
	Email                  string `dynamodbav:"email" json:"email"`
	PhoneNumber            string `dynamodbav:"phone_number" json:"phone_number,omitempty"`
	PreviousClaimsCount    int    `dynamodbav:"previous_claims_count" json:"previous_claims_count"`
	DrivingExperienceYears int    `dynamodbav:"driving_experience_years" json:"driving_experience_years,omitempty"`
}

// Policy is an insurance policy record keyed by policy_id.
type Policy struct {
	PolicyID         string       `dynamodbav:"policy_id" json:"policy_id"`
	CustomerID       string       `dynamodbav:"customer_id" json:"customer_id"`
	PolicyNumber     string       `dynamodbav:"policy_number" json:"policy_number,omitempty"`
	PolicyType       string       `dynamodbav:"policy_type" json:"policy_type,omitempty"`
	PolicyStatus     PolicyStatus `dynamodbav:"policy_status" json:"policy_status"`
	PolicyStartDate  string       `dynamodbav:"policy_start_date" json:"policy_start_date,omitempty"` // YYYY-MM-DD
	PolicyEndDate    string       `dynamodbav:"policy_end_date" json:"policy_end_date"`               // YYYY-MM-DD
	PremiumAmount    float64      `dynamodbav:"premium_amount" json:"premium_amount,omitempty"`
	CoverageAmount   float64      `dynamodbav:"coverage_amount" json:"coverage_amount"`
	DeductibleAmount float64      `dynamodbav:"deductible_amount" json:"deductible_amount"`
}

// Vehicle is linked to a policy by policy_id.
type Vehicle struct {
	VehicleID         string `dynamodbav:"vehicle_id" json:"vehicle_id"`
	PolicyID          string `dynamodbav:"policy_id" json:"policy_id"`
	VIN               string `dynamodbav:"vin" json:"vin"`
	Make              string `dynamodbav:"make" json:"make"`
	Model             string `dynamodbav:"model" json:"model"`
	YearOfManufacture int    `dynamodbav:"year_of_manufacture" json:"year_of_manufacture"`
	Color             string `dynamodbav:"color" json:"color,omitempty"`
	VehicleType       string `dynamodbav:"vehicle_type" json:"vehicle_type,omitempty"`
}

// PolicySummary is an active policy enriched with its vehicle, returned by
// customer verification so the agent can present coverage options.
type PolicySummary struct {
	PolicyID         string  `json:"policy_id"`
	PolicyNumber     string  `json:"policy_number"`
	PolicyType       string  `json:"policy_type"`
	VehicleYear      string  `json:"vehicle_year"`
	VehicleMake      string  `json:"vehicle_make"`
	VehicleModel     string  `json:"vehicle_model"`
	VehicleType      string  `json:"vehicle_type"`
	PremiumAmount    float64 `json:"premium_amount"`
	CoverageAmount   float64 `json:"coverage_amount"`
	DeductibleAmount float64 `json:"deductible_amount"`
}

// ClaimSession is the bookkeeping record created when a claim starts and
// filled in once a settlement decision is published.
type ClaimSession struct {
	ClaimID   string      `dynamodbav:"claim_id" json:"claim_id"`
	Status    ClaimStatus `dynamodbav:"status" json:"status"`
	CreatedAt string      `dynamodbav:"created_at" json:"created_at"`
	UpdatedAt string      `dynamodbav:"updated_at" json:"updated_at"`

	CustomerData     map[string]any `dynamodbav:"customer_data,omitempty" json:"customer_data,omitempty"`
	PolicyData       map[string]any `dynamodbav:"policy_data,omitempty" json:"policy_data,omitempty"`
	DamageAnalysis   any            `dynamodbav:"damage_analysis,omitempty" json:"damage_analysis,omitempty"`
	DocumentAnalysis any            `dynamodbav:"document_analysis,omitempty" json:"document_analysis,omitempty"`
	Decision         map[string]any `dynamodbav:"decision,omitempty" json:"decision,omitempty"`
	ReportURL        string         `dynamodbav:"pdf_url,omitempty" json:"pdf_url,omitempty"`
}

// ClaimView is the flattened shape the front door returns for GET /claim/{id}.
type ClaimView struct {
	Customer         map[string]any `json:"customer"`
	Policy           map[string]any `json:"policy"`
	DamageAnalysis   any            `json:"damageAnalysis"`
	DocumentAnalysis any            `json:"documentAnalysis"`
	Settlement       map[string]any `json:"settlement"`
}
