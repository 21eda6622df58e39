package settlement

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/autosettled/claims-agent/internal/models"
)

// renderReport produces the human-readable settlement report embedding all
// inputs and the decision.
func renderReport(d *Decision) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(25, 25, 25)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetTextColor(26, 54, 93)
	pdf.CellFormat(0, 12, "AutoSettled Insurance", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(45, 55, 72)
	pdf.CellFormat(0, 8, "CLAIM SETTLEMENT DECISION", "", 1, "C", false, 0, "")
	pdf.Ln(6)

	writePairs(pdf, "", [][2]string{
		{"Claim ID:", d.ClaimID},
		{"Date:", d.Timestamp},
		{"Status:", string(d.Recommendation())},
	})

	writePairs(pdf, "Customer Information", [][2]string{
		{"Name:", fmt.Sprintf("%s %s", stringField(d.In.Customer, "first_name", ""), stringField(d.In.Customer, "last_name", ""))},
		{"Email:", stringField(d.In.Customer, "email", "N/A")},
		{"Phone:", stringField(d.In.Customer, "phone_number", "N/A")},
	})

	writePairs(pdf, "Policy Information", [][2]string{
		{"Policy Number:", stringField(d.In.Policy, "policy_number", "N/A")},
		{"Policy Type:", stringField(d.In.Policy, "policy_type", "N/A")},
		{"Coverage Amount:", "$" + anyField(d.In.Policy, "coverage_amount", "0")},
		{"Deductible:", "$" + anyField(d.In.Policy, "deductible_amount", "0")},
	})

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(45, 55, 72)
	pdf.CellFormat(0, 8, "Settlement Decision", "", 1, "L", false, 0, "")
	setDecisionColor(pdf, d.Recommendation())
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 6, string(d.Recommendation()), "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	writePairs(pdf, "", [][2]string{
		{"Approved Amount:", "$" + anyField(d.Fields, "approved_amount", "0")},
		{"Customer Pays:", "$" + anyField(d.Fields, "customer_pays", "0")},
		{"Insurance Pays:", "$" + anyField(d.Fields, "insurance_pays", "0")},
		{"Risk Assessment:", stringField(d.Fields, "risk_assessment", "N/A")},
	})

	if d.In.Damage.IsStructured() {
		if vd, ok := d.In.Damage.Structured["vehicle_data"].(map[string]any); ok {
			writePairs(pdf, "Vehicle Information", [][2]string{
				{"VIN:", d.In.Damage.Field("vehicle_vin")},
				{"Make/Model:", fmt.Sprintf("%v %v", vd["make"], vd["model"])},
				{"Year:", anyField(vd, "year_of_manufacture", "N/A")},
			})
		}
	}

	if d.In.Document.IsStructured() {
		writePairs(pdf, "Incident Information", [][2]string{
			{"Date:", d.In.Document.Field("incident_date")},
			{"Location:", d.In.Document.Field("incident_location")},
			{"Case Number:", d.In.Document.Field("police_case_number")},
			{"Fault:", d.In.Document.Field("fault_determination")},
		})
	}

	reasoning := stringField(d.Fields, "detailed_reasoning", "")
	if reasoning == "" {
		reasoning = stringField(d.Fields, "raw_decision", "")
	}
	if reasoning != "" {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetTextColor(45, 55, 72)
		pdf.CellFormat(0, 8, "Decision Reasoning", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(0, 0, 0)
		pdf.MultiCell(0, 5, reasoning, "", "L", false)
		pdf.Ln(4)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writePairs(pdf *fpdf.Fpdf, heading string, pairs [][2]string) {
	if heading != "" {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetTextColor(45, 55, 72)
		pdf.CellFormat(0, 8, heading, "", 1, "L", false, 0, "")
	}
	pdf.SetTextColor(0, 0, 0)
	for _, pair := range pairs {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(50, 6, pair[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 6, pair[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}

func setDecisionColor(pdf *fpdf.Fpdf, rec models.Recommendation) {
	switch rec {
	case models.RecommendApprove:
		pdf.SetTextColor(72, 187, 120)
	case models.RecommendDeny:
		pdf.SetTextColor(245, 101, 101)
	default:
		pdf.SetTextColor(237, 137, 54)
	}
}
