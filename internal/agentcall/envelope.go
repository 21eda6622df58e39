// Package agentcall models the two invocation envelopes the agent runtime
// uses to call claim steps: the legacy action-group shape (apiPath/httpMethod)
// and the tool-use shape (agent/function). Steps see one flat parameter map
// and answer through Respond, which always mirrors the shape received.
package agentcall

// Kind identifies which envelope variant an invocation arrived in. It is
// decided once at the boundary; nothing downstream re-sniffs fields.
type Kind int

// Envelope variants.
const (
	KindActionGroup Kind = iota // legacy REST-style action invocation
	KindToolUse                 // function/tool-use invocation
)

func (k Kind) String() string {
	if k == KindToolUse {
		return "tool-use"
	}
	return "action-group"
}

// Parameter is one name/value pair from the invocation envelope. The agent
// runtime sends every value as a string, including JSON-encoded objects.
type Parameter struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Agent identifies the calling agent in tool-use invocations. Its presence is
// what distinguishes the two envelope shapes.
type Agent struct {
	Name    string `json:"name,omitempty"`
	ID      string `json:"id,omitempty"`
	Alias   string `json:"alias,omitempty"`
	Version string `json:"version,omitempty"`
}

// Event is the inbound invocation envelope, covering both variants.
type Event struct {
	MessageVersion string      `json:"messageVersion,omitempty"`
	Agent          *Agent      `json:"agent,omitempty"`
	SessionID      string      `json:"sessionId,omitempty"`
	ActionGroup    string      `json:"actionGroup"`
	Function       string      `json:"function,omitempty"`
	APIPath        string      `json:"apiPath,omitempty"`
	HTTPMethod     string      `json:"httpMethod,omitempty"`
	Parameters     []Parameter `json:"parameters"`
}

// Kind reports which envelope variant this event is.
func (e *Event) Kind() Kind {
	if e.Agent != nil {
		return KindToolUse
	}
	return KindActionGroup
}

// Params flattens the parameter list into a name→value map. A required
// parameter that is absent simply has no entry; it is never a fatal
// precondition at this layer — step logic answers with a not-found or
// not-verified result instead.
func (e *Event) Params() map[string]string {
	m := make(map[string]string, len(e.Parameters))
	for _, p := range e.Parameters {
		m[p.Name] = p.Value
	}
	return m
}
