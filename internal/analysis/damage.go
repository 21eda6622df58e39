// Package analysis implements the evidence analysis steps: damage images and
// claim documents, both delegated to the reasoning service. Evidence fetches
// are all-or-nothing; model output is parse-or-raw, never fatal.
package analysis

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/autosettled/claims-agent/internal/models"
	"github.com/autosettled/claims-agent/internal/reasoning"
)

// VehicleStore resolves the vehicle registered for a policy.
type VehicleStore interface {
	VehicleForPolicy(ctx context.Context, policyID string) (*models.Vehicle, error)
}

// Fetcher downloads evidence bytes by s3:// URI.
type Fetcher interface {
	Fetch(ctx context.Context, uri string) ([]byte, string, error)
}

// DamageResult is the damage-analysis outcome.
type DamageResult struct {
	Success     bool                `json:"success"`
	VehicleVIN  string              `json:"vehicle_vin,omitempty"`
	Analysis    *reasoning.Analysis `json:"analysis,omitempty"`
	VehicleData *models.Vehicle     `json:"vehicle_data,omitempty"`
	Message     string              `json:"message,omitempty"`
	Error       string              `json:"error,omitempty"`
}

// Damage analyzes crash images against the vehicle registered for a policy.
type Damage struct {
	Store   VehicleStore
	Objects Fetcher
	Model   reasoning.Invoker
	Now     func() time.Time
}

func (d *Damage) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// ParseURIList accepts the image_uris parameter either as a single URI or a
// bracketed comma-joined list, as the agent runtime sends both.
func ParseURIList(raw string) []string {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "[")
	trimmed = strings.TrimSuffix(trimmed, "]")
	var uris []string
	for _, part := range strings.Split(trimmed, ",") {
		if p := strings.TrimSpace(part); p != "" {
			uris = append(uris, p)
		}
	}
	return uris
}

// Analyze fetches every image, sends them with the registered vehicle's
// description in one multimodal request, and parses the response with a
// raw-text fallback. Any single image fetch failure fails the whole step; a
// partial image set must not drive a damage estimate.
func (d *Damage) Analyze(ctx context.Context, imageURIs []string, policyID string) DamageResult {
	vehicle, err := d.Store.VehicleForPolicy(ctx, policyID)
	if err != nil {
		return DamageResult{Success: false, Error: err.Error()}
	}
	if vehicle == nil {
		return DamageResult{Success: false, Message: "No vehicle found for this policy."}
	}

	blocks := make([]reasoning.ContentBlock, 0, len(imageURIs)+1)
	for _, uri := range imageURIs {
		data, contentType, err := d.Objects.Fetch(ctx, uri)
		if err != nil {
			return DamageResult{Success: false, Error: err.Error()}
		}
		if !strings.HasPrefix(strings.ToLower(contentType), "image/") {
			contentType = "image/jpeg"
		}
		blocks = append(blocks, reasoning.Media(contentType, base64.StdEncoding.EncodeToString(data)))
	}
	blocks = append(blocks, reasoning.Text(d.prompt(vehicle)))

	text, err := d.Model.Invoke(ctx, reasoning.Request{MaxTokens: 1000, Blocks: blocks})
	if err != nil {
		return DamageResult{Success: false, Error: err.Error()}
	}

	parsed := reasoning.Parse(text)
	return DamageResult{
		Success:     true,
		VehicleVIN:  vehicle.VIN,
		Analysis:    &parsed,
		VehicleData: vehicle,
	}
}

func (d *Damage) prompt(vehicle *models.Vehicle) string {
	color := vehicle.Color
	if color == "" {
		color = "Unknown"
	}
	return fmt.Sprintf(`Today's date is %s.

Analyze these car damage images. The vehicle registered in our database is:
Make: %s, Model: %s, Year: %d, Color: %s

IMPORTANT: Compare the car in the images with the database vehicle details above. Only flag if there's an obvious mismatch (different color, completely different vehicle type).

Then provide a detailed analysis in JSON format:
{
    "vehicle_matches_policy": true/false,
    "vehicle_match_notes": "explanation of match/mismatch",
    "damaged_parts": ["list of damaged parts"],
    "damage_summary": "detailed description",
    "estimated_repair_cost_usd": numeric value,
    "likely_crash_reason": "analysis of how this happened",
    "severity": "minor/moderate/severe",
    "suspicious_indicators": ["any red flags or concerns"]
}`,
		d.now().Format("January 2, 2006"),
		vehicle.Make, vehicle.Model, vehicle.YearOfManufacture, color)
}
