package agentcall

import (
	"encoding/json"
	"fmt"
)

const messageVersion = "1.0"

// bodyContent wraps the JSON-encoded step result.
type bodyContent struct {
	Body string `json:"body"`
}

// functionResponse carries the result in tool-use replies.
type functionResponse struct {
	ResponseBody map[string]bodyContent `json:"responseBody"`
}

// responseDetail is the inner response object; which fields are set depends
// on the envelope variant being answered.
type responseDetail struct {
	ActionGroup      string                 `json:"actionGroup"`
	Function         string                 `json:"function,omitempty"`
	APIPath          string                 `json:"apiPath,omitempty"`
	HTTPMethod       string                 `json:"httpMethod,omitempty"`
	HTTPStatusCode   int                    `json:"httpStatusCode,omitempty"`
	ResponseBody     map[string]bodyContent `json:"responseBody,omitempty"`
	FunctionResponse *functionResponse      `json:"functionResponse,omitempty"`
}

// Response is the outbound envelope returned to the agent runtime.
type Response struct {
	MessageVersion string         `json:"messageVersion"`
	Response       responseDetail `json:"response"`
}

// Respond wraps a step result in the same envelope shape the event arrived
// in. Callers key their parsing on which fields are present, so the symmetry
// is a hard requirement: a tool-use invocation gets a functionResponse body
// under TEXT, an action-group invocation gets an httpStatusCode plus an
// application/json body, echoing function/apiPath only when they were sent.
func (e *Event) Respond(result any) (Response, error) {
	b, err := json.Marshal(result)
	if err != nil {
		return Response{}, fmt.Errorf("marshal step result: %w", err)
	}
	body := string(b)

	if e.Kind() == KindToolUse {
		return Response{
			MessageVersion: messageVersion,
			Response: responseDetail{
				ActionGroup: e.ActionGroup,
				Function:    e.Function,
				FunctionResponse: &functionResponse{
					ResponseBody: map[string]bodyContent{
						"TEXT": {Body: body},
					},
				},
			},
		}, nil
	}

	method := e.HTTPMethod
	if method == "" {
		method = "POST"
	}
	return Response{
		MessageVersion: messageVersion,
		Response: responseDetail{
			ActionGroup:    e.ActionGroup,
			Function:       e.Function,
			APIPath:        e.APIPath,
			HTTPMethod:     method,
			HTTPStatusCode: 200,
			ResponseBody: map[string]bodyContent{
				"application/json": {Body: body},
			},
		},
	}, nil
}
