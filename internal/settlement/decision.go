// Package settlement synthesizes the final claim decision and publishes it:
// report rendering, object storage, retrieval link and the immutable audit
// record. Computing the decision and publishing it are deliberately separate
// so a publish failure does not discard an already-computed decision.
package settlement

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog/log"

	"github.com/autosettled/claims-agent/internal/models"
	"github.com/autosettled/claims-agent/internal/objectstore"
	"github.com/autosettled/claims-agent/internal/reasoning"
)

// AuditStore persists the settlement audit record.
type AuditStore interface {
	PutAudit(ctx context.Context, record map[string]any) error
}

// ReportStore stores the rendered report and issues retrieval links.
type ReportStore interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// Inputs aggregates every upstream step output. Each arrives from the agent
// runtime as a string parameter that may or may not be JSON.
type Inputs struct {
	Customer map[string]any
	Policy   map[string]any
	Damage   reasoning.Analysis
	Document reasoning.Analysis
}

// ParseInputs builds Inputs from raw string parameters, parsing JSON where
// possible and wrapping anything unparseable as raw text instead of failing.
func ParseInputs(customer, policy, damage, document string) Inputs {
	return Inputs{
		Customer: looseMap(customer),
		Policy:   looseMap(policy),
		Damage:   reasoning.Parse(damage),
		Document: reasoning.Parse(document),
	}
}

// looseMap parses a JSON object, falling back to a raw-text wrapper.
func looseMap(s string) map[string]any {
	if s == "" {
		return map[string]any{}
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return map[string]any{"raw_text": s}
	}
	return m
}

// Decision is a computed settlement decision, not yet published.
type Decision struct {
	ClaimID   string
	Timestamp string
	Fields    map[string]any // structured decision, or raw_decision wrapper
	Text      string         // full model output, for the audit summary
	In        Inputs
}

// Recommendation returns the decision's recommendation, defaulting to
// MANUAL_REVIEW when the model output was unstructured.
func (d *Decision) Recommendation() models.Recommendation {
	if s, ok := d.Fields["recommendation"].(string); ok && s != "" {
		return models.Recommendation(s)
	}
	return models.RecommendManualReview
}

// ApprovedAmount returns the approved amount, 0 when absent or unstructured.
func (d *Decision) ApprovedAmount() float64 {
	if f, ok := d.Fields["approved_amount"].(float64); ok {
		return f
	}
	return 0
}

// Published carries the report location produced by Publish.
type Published struct {
	ReportKey string
	ReportURL string
}

// Engine runs the settlement decision step.
type Engine struct {
	Model      reasoning.Invoker
	Audit      AuditStore
	Reports    ReportStore
	LinkTTL    time.Duration
	Now        func() time.Time
	NewClaimID func() string
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e *Engine) newClaimID() string {
	if e.NewClaimID != nil {
		return e.NewClaimID()
	}
	return ulid.Make().String()
}

func (e *Engine) linkTTL() time.Duration {
	if e.LinkTTL > 0 {
		return e.LinkTTL
	}
	return 7 * 24 * time.Hour
}

// Decide sends all upstream context to the reasoning service in one prompt
// and parses the structured recommendation, falling back to a raw_decision
// wrapper. The reasoning call is not retried.
func (e *Engine) Decide(ctx context.Context, in Inputs) (*Decision, error) {
	text, err := e.Model.Invoke(ctx, reasoning.Request{
		MaxTokens:   2000,
		Temperature: 0.3,
		Blocks:      []reasoning.ContentBlock{reasoning.Text(e.prompt(in))},
	})
	if err != nil {
		return nil, err
	}

	fields := looseMap(text)
	if _, raw := fields["raw_text"]; raw {
		fields = map[string]any{"raw_decision": text}
	}

	return &Decision{
		ClaimID:   e.newClaimID(),
		Timestamp: e.now().Format(time.RFC3339),
		Fields:    fields,
		Text:      text,
		In:        in,
	}, nil
}

// Publish renders the report, stores it, presigns a time-bounded retrieval
// link and persists the audit record with full upstream snapshots. Every
// side effect must succeed for the decision to count as published.
func (e *Engine) Publish(ctx context.Context, d *Decision) (*Published, error) {
	pdf, err := renderReport(d)
	if err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}

	key := objectstore.ReportKey(d.ClaimID)
	if _, err := e.Reports.Put(ctx, key, pdf, "application/pdf"); err != nil {
		return nil, fmt.Errorf("store report: %w", err)
	}
	url, err := e.Reports.PresignGet(ctx, key, e.linkTTL())
	if err != nil {
		return nil, fmt.Errorf("presign report: %w", err)
	}

	summary := d.Text
	if len(summary) > 500 {
		summary = summary[:500]
	}
	record := map[string]any{
		"claim_id":          d.ClaimID,
		"customer_id":       stringField(d.In.Customer, "customer_id", "unknown"),
		"policy_id":         stringField(d.In.Policy, "policy_id", "unknown"),
		"timestamp":         d.Timestamp,
		"recommendation":    string(d.Recommendation()),
		"approved_amount":   d.ApprovedAmount(),
		"decision_summary":  summary,
		"status":            string(models.ClaimProcessed),
		"pdf_url":           url,
		"pdf_s3_key":        key,
		"customer_data":     d.In.Customer,
		"policy_data":       d.In.Policy,
		"damage_analysis":   d.In.Damage.Value(),
		"document_analysis": d.In.Document.Value(),
		"decision":          d.Fields,
	}
	if err := e.Audit.PutAudit(ctx, record); err != nil {
		return nil, fmt.Errorf("persist audit record: %w", err)
	}

	return &Published{ReportKey: key, ReportURL: url}, nil
}

// Result is the step payload returned to the agent runtime.
type Result struct {
	ClaimID      string         `json:"claim_id"`
	Timestamp    string         `json:"timestamp"`
	Decision     map[string]any `json:"decision"`
	ReportURL    string         `json:"pdf_url,omitempty"`
	ReportKey    string         `json:"pdf_s3_key,omitempty"`
	PublishError string         `json:"publish_error,omitempty"`
	Message      string         `json:"message"`
	Status       string         `json:"status"`
}

// Process runs Decide then Publish. A publish failure returns the computed
// decision with a publish_error instead of discarding it; the caller can
// re-drive publication without paying for another reasoning call.
func (e *Engine) Process(ctx context.Context, in Inputs) (Result, error) {
	d, err := e.Decide(ctx, in)
	if err != nil {
		return Result{}, err
	}

	result := Result{
		ClaimID:   d.ClaimID,
		Timestamp: d.Timestamp,
		Decision:  d.Fields,
		Message:   fmt.Sprintf("Claim %s processed successfully", d.ClaimID),
		Status:    "Settlement decision generated",
	}

	pub, err := e.Publish(ctx, d)
	if err != nil {
		log.Error().Err(err).Str("claim_id", d.ClaimID).Msg("publish failed")
		result.PublishError = err.Error()
		return result, nil
	}

	result.ReportURL = pub.ReportURL
	result.ReportKey = pub.ReportKey
	d.Fields["pdf_url"] = pub.ReportURL
	d.Fields["claim_id"] = d.ClaimID
	return result, nil
}

func (e *Engine) prompt(in Inputs) string {
	damageJSON, _ := json.MarshalIndent(in.Damage.Value(), "", "  ")
	documentJSON, _ := json.MarshalIndent(in.Document.Value(), "", "  ")

	return fmt.Sprintf(`Today's date is %s.

You are an expert insurance claims adjuster. Analyze this auto insurance claim comprehensively and provide a detailed settlement decision with full reasoning.

IMPORTANT: Use today's date (%s) for all date comparisons. Do not use your training knowledge cutoff.

CUSTOMER PROFILE:
- Customer ID: %s
- Name: %s %s
- Previous Claims: %s
- Driving Experience: %s years

POLICY DETAILS:
- Policy Type: %s
- Coverage Amount: $%s
- Deductible: $%s
- Policy Status: %s

DAMAGE ANALYSIS FROM IMAGES:
%s

DOCUMENT ANALYSIS (Police Report & Repair Estimate):
%s

Provide a comprehensive JSON response with:
{
    "recommendation": "APPROVE/MANUAL_REVIEW/DENY",
    "approved_amount": numeric value (or 0 if denied),
    "deductible_applies": boolean,
    "customer_pays": numeric value,
    "insurance_pays": numeric value,
    "genuine_factors": ["list of legitimate aspects"],
    "suspicious_factors": ["list of questionable aspects"],
    "risk_assessment": "low/medium/high",
    "detailed_reasoning": "comprehensive explanation of decision",
    "supporting_evidence": ["key points that support the decision"],
    "next_steps": ["what should happen next"]
}

Be thorough, fair, and provide detailed reasoning for your decision.`,
		e.now().Format("January 2, 2006"), e.now().Format("January 2, 2006"),
		stringField(in.Customer, "customer_id", "N/A"),
		stringField(in.Customer, "first_name", ""), stringField(in.Customer, "last_name", ""),
		anyField(in.Customer, "previous_claims_count", "0"),
		anyField(in.Customer, "driving_experience_years", "N/A"),
		stringField(in.Policy, "policy_type", "N/A"),
		anyField(in.Policy, "coverage_amount", "0"),
		anyField(in.Policy, "deductible_amount", "0"),
		stringField(in.Policy, "policy_status", "N/A"),
		damageJSON, documentJSON)
}

func stringField(m map[string]any, key, def string) string {
	if s, ok := m[key].(string); ok && s != "" {
		return s
	}
	return def
}

func anyField(m map[string]any, key, def string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return def
	}
	if f, ok := v.(float64); ok && f == float64(int64(f)) {
		return fmt.Sprint(int64(f))
	}
	return fmt.Sprint(v)
}
