package reasoning

import "encoding/json"

// Analysis is the struct-or-raw-text variant every analysis step produces.
// The model is asked for JSON but its output is never trusted to be JSON: a
// parse failure keeps the raw text unchanged instead of failing the request,
// and every consumer must handle either shape.
type Analysis struct {
	Structured map[string]any
	Raw        string
}

// Parse interprets model output: a JSON object becomes a structured analysis,
// anything else is kept verbatim as raw text.
func Parse(text string) Analysis {
	var m map[string]any
	if err := json.Unmarshal([]byte(text), &m); err == nil {
		return Analysis{Structured: m}
	}
	return Analysis{Raw: text}
}

// IsStructured reports whether the analysis parsed as a JSON object.
func (a Analysis) IsStructured() bool { return a.Structured != nil }

// Value returns the analysis as a plain value for embedding in prompts and
// audit snapshots: the structured map, or the raw string.
func (a Analysis) Value() any {
	if a.IsStructured() {
		return a.Structured
	}
	return a.Raw
}

// Field returns a string field from a structured analysis, or "" when the
// analysis is raw or the field is absent. Downstream steps degrade gracefully
// when expected fields are missing.
func (a Analysis) Field(name string) string {
	if !a.IsStructured() {
		return ""
	}
	if s, ok := a.Structured[name].(string); ok {
		return s
	}
	return ""
}

// MarshalJSON emits the structured object, or the raw text as a JSON string.
func (a Analysis) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Value())
}

// UnmarshalJSON accepts either shape, so analyses round-trip through the
// string parameters the agent runtime passes between steps.
func (a *Analysis) UnmarshalJSON(b []byte) error {
	var m map[string]any
	if err := json.Unmarshal(b, &m); err == nil {
		a.Structured = m
		a.Raw = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		// The string itself may be a nested JSON object.
		*a = Parse(s)
		return nil
	}
	a.Structured = nil
	a.Raw = string(b)
	return nil
}
