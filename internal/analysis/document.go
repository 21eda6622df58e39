package analysis

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/autosettled/claims-agent/internal/reasoning"
)

// Document analyzes the two required claim documents: police report and
// repair estimate.
type Document struct {
	Objects Fetcher
	Model   reasoning.Invoker
	Now     func() time.Time
}

func (d *Document) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// Analyze fetches both documents (either fetch failure fails the step),
// sends them in one request with the prior damage analysis as optional
// cross-verification context, and returns the parse-or-raw result.
func (d *Document) Analyze(ctx context.Context, policeReportURI, repairEstimateURI, damageAnalysis string) (reasoning.Analysis, error) {
	policeData, policeType, err := d.Objects.Fetch(ctx, policeReportURI)
	if err != nil {
		return reasoning.Analysis{}, err
	}
	estimateData, estimateType, err := d.Objects.Fetch(ctx, repairEstimateURI)
	if err != nil {
		return reasoning.Analysis{}, err
	}

	blocks := []reasoning.ContentBlock{
		reasoning.Media(policeType, base64.StdEncoding.EncodeToString(policeData)),
		reasoning.Media(estimateType, base64.StdEncoding.EncodeToString(estimateData)),
		reasoning.Text(d.prompt(damageAnalysis)),
	}

	text, err := d.Model.Invoke(ctx, reasoning.Request{MaxTokens: 2000, Blocks: blocks})
	if err != nil {
		return reasoning.Analysis{}, err
	}
	return reasoning.Parse(text), nil
}

func (d *Document) prompt(damageAnalysis string) string {
	vehicleDetails := ""
	damageContext := ""
	if damageAnalysis != "" {
		damage := reasoning.Parse(damageAnalysis)
		if vin := damage.Field("vehicle_vin"); vin != "" {
			make, model, year := "", "", ""
			if vd, ok := damage.Structured["vehicle_data"].(map[string]any); ok {
				make, _ = vd["make"].(string)
				model, _ = vd["model"].(string)
				year = fmt.Sprint(vd["year_of_manufacture"])
			}
			vehicleDetails = fmt.Sprintf("\nVehicle in our database: %s %s %s, VIN: %s", make, model, year, vin)
		}
		damageContext = fmt.Sprintf("\n\nPREVIOUS DAMAGE ANALYSIS FROM IMAGES:\n%s\n\nIMPORTANT: Cross-verify the repair estimate against the damage seen in images.", damageAnalysis)
	}

	return fmt.Sprintf(`Today's date is %s.%s

Extract and analyze key information from these claim documents (police report and repair estimate).%s

Return a JSON object with:
{
    "incident_date": "date from report",
    "incident_location": "location",
    "police_case_number": "case number",
    "fault_determination": "who was at fault",
    "estimated_repair_cost": numeric value from estimate,
    "repair_items": ["list of items to be repaired"],
    "inconsistencies": ["any discrepancies between documents or with image analysis"],
    "red_flags": ["any suspicious elements"],
    "document_authenticity_assessment": "your assessment"
}`, d.now().Format("January 2, 2006"), vehicleDetails, damageContext)
}

// Payload shapes a document analysis for the response envelope: the parsed
// structure itself, or a raw_analysis wrapper carrying the text unchanged.
func Payload(a reasoning.Analysis) any {
	if a.IsStructured() {
		return a.Structured
	}
	return map[string]any{"raw_analysis": a.Raw}
}
