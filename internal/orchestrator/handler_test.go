package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-lambda-go/events"

	"github.com/autosettled/claims-agent/internal/models"
)

type fakeAgent struct {
	reply AgentReply
	err   error

	lastSessionID string
	lastInput     string
	lastTrace     bool
}

func (f *fakeAgent) Invoke(_ context.Context, sessionID, inputText string, enableTrace bool) (AgentReply, error) {
	f.lastSessionID, f.lastInput, f.lastTrace = sessionID, inputText, enableTrace
	if f.err != nil {
		return AgentReply{}, f.err
	}
	return f.reply, nil
}

type fakeSessions struct {
	byID      map[string]models.ClaimSession
	createErr error
	listErr   error

	lastListLimit int32
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{byID: map[string]models.ClaimSession{}}
}

func (f *fakeSessions) CreateSession(_ context.Context, s models.ClaimSession) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.byID[s.ClaimID] = s
	return nil
}

func (f *fakeSessions) GetSession(_ context.Context, claimID string) (*models.ClaimSession, error) {
	s, ok := f.byID[claimID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (f *fakeSessions) ListSessions(_ context.Context, limit int32) ([]models.ClaimSession, error) {
	f.lastListLimit = limit
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.ClaimSession, 0, len(f.byID))
	for _, s := range f.byID {
		out = append(out, s)
	}
	return out, nil
}

func request(method, path, body string) events.APIGatewayV2HTTPRequest {
	return events.APIGatewayV2HTTPRequest{
		RawPath: path,
		Body:    body,
		RequestContext: events.APIGatewayV2HTTPRequestContext{
			HTTP: events.APIGatewayV2HTTPRequestContextHTTPDescription{
				Method: method,
				Path:   path,
			},
		},
	}
}

func testHandler(agent *fakeAgent, sessions *fakeSessions) *Handler {
	return &Handler{
		Agent:        agent,
		Sessions:     sessions,
		NewSessionID: func() string { return "sess-fixed" },
	}
}

func TestPreflight(t *testing.T) {
	h := testHandler(&fakeAgent{}, newFakeSessions())
	resp, err := h.Handle(context.Background(), request("OPTIONS", "/agent/invoke", ""))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if resp.Headers["Access-Control-Allow-Origin"] != "*" {
		t.Fatalf("missing CORS header: %v", resp.Headers)
	}
}

func TestUnknownRoute(t *testing.T) {
	h := testHandler(&fakeAgent{}, newFakeSessions())
	resp, err := h.Handle(context.Background(), request("GET", "/nope", ""))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if resp.StatusCode != 404 {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestInvokeAgentRequiresInputText(t *testing.T) {
	h := testHandler(&fakeAgent{}, newFakeSessions())
	resp, err := h.Handle(context.Background(), request("POST", "/agent/invoke", `{}`))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if resp.StatusCode != 400 {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(resp.Body, "inputText is required") {
		t.Fatalf("body = %s", resp.Body)
	}
}

func TestInvokeAgent(t *testing.T) {
	agent := &fakeAgent{reply: AgentReply{Output: "Your claim is started."}}
	h := testHandler(agent, newFakeSessions())

	resp, err := h.Handle(context.Background(), request("POST", "/agent/invoke", `{"inputText": "start a claim"}`))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, resp.Body)
	}

	var out struct {
		SessionID  string            `json:"sessionId"`
		Output     string            `json:"output"`
		Completion string            `json:"completion"`
		Trace      []json.RawMessage `json:"trace"`
	}
	if err := json.Unmarshal([]byte(resp.Body), &out); err != nil {
		t.Fatalf("body: %v", err)
	}
	if out.SessionID != "sess-fixed" {
		t.Fatalf("sessionId = %q", out.SessionID)
	}
	if out.Output != "Your claim is started." || out.Completion != "COMPLETE" {
		t.Fatalf("out = %+v", out)
	}
	if out.Trace != nil {
		t.Fatal("trace must be omitted when not requested")
	}
	if agent.lastInput != "start a claim" || agent.lastTrace {
		t.Fatalf("agent called with %q trace=%v", agent.lastInput, agent.lastTrace)
	}
}

func TestInvokeAgentReusesSessionID(t *testing.T) {
	agent := &fakeAgent{}
	h := testHandler(agent, newFakeSessions())
	_, err := h.Handle(context.Background(), request("POST", "/agent/invoke", `{"inputText": "hi", "sessionId": "existing"}`))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if agent.lastSessionID != "existing" {
		t.Fatalf("session id = %q", agent.lastSessionID)
	}
}

func TestInvokeAgentFailure(t *testing.T) {
	h := testHandler(&fakeAgent{err: errors.New("stream reset")}, newFakeSessions())
	resp, err := h.Handle(context.Background(), request("POST", "/agent/invoke", `{"inputText": "hi"}`))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if resp.StatusCode != 500 {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(resp.Body, "Failed to invoke agent") {
		t.Fatalf("body = %s", resp.Body)
	}
}

func TestStartAndGetClaim(t *testing.T) {
	sessions := newFakeSessions()
	h := testHandler(&fakeAgent{}, sessions)

	resp, err := h.Handle(context.Background(), request("POST", "/claim/start", ""))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	created := sessions.byID["sess-fixed"]
	if created.Status != models.ClaimInProgress {
		t.Fatalf("status = %q", created.Status)
	}

	resp, err = h.Handle(context.Background(), request("GET", "/claim/sess-fixed", ""))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, resp.Body)
	}
	var view map[string]any
	if err := json.Unmarshal([]byte(resp.Body), &view); err != nil {
		t.Fatalf("body: %v", err)
	}
	if view["settlement"] != nil {
		t.Fatalf("fresh claim must have null settlement, got %v", view["settlement"])
	}
}

func TestStartClaimStoreFailureStillReturnsID(t *testing.T) {
	sessions := newFakeSessions()
	sessions.createErr = errors.New("table gone")
	h := testHandler(&fakeAgent{}, sessions)

	resp, err := h.Handle(context.Background(), request("POST", "/claim/start", ""))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if resp.StatusCode != 200 || !strings.Contains(resp.Body, "sess-fixed") {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, resp.Body)
	}
}

func TestGetClaimNotFound(t *testing.T) {
	h := testHandler(&fakeAgent{}, newFakeSessions())
	resp, err := h.Handle(context.Background(), request("GET", "/claim/nope", ""))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if resp.StatusCode != 404 || !strings.Contains(resp.Body, "Claim not found") {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, resp.Body)
	}
}

func TestGetClaimFoldsReportURLIntoSettlement(t *testing.T) {
	sessions := newFakeSessions()
	sessions.byID["c1"] = models.ClaimSession{
		ClaimID:   "c1",
		Status:    models.ClaimProcessed,
		Decision:  map[string]any{"recommendation": "APPROVE"},
		ReportURL: "https://signed.example.com/report.pdf",
	}
	h := testHandler(&fakeAgent{}, sessions)

	resp, err := h.Handle(context.Background(), request("GET", "/claim/c1", ""))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	var view struct {
		Settlement map[string]any `json:"settlement"`
	}
	if err := json.Unmarshal([]byte(resp.Body), &view); err != nil {
		t.Fatalf("body: %v", err)
	}
	if view.Settlement["pdf_url"] != "https://signed.example.com/report.pdf" {
		t.Fatalf("settlement = %v", view.Settlement)
	}
	if view.Settlement["recommendation"] != "APPROVE" {
		t.Fatalf("settlement = %v", view.Settlement)
	}
}

func TestListClaimsDefaultLimit(t *testing.T) {
	sessions := newFakeSessions()
	h := testHandler(&fakeAgent{}, sessions)

	resp, err := h.Handle(context.Background(), request("GET", "/claims", ""))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if sessions.lastListLimit != 50 {
		t.Fatalf("default limit = %d", sessions.lastListLimit)
	}
	if resp.Body != "[]" {
		t.Fatalf("empty list body = %s", resp.Body)
	}
}

func TestListClaimsCustomLimit(t *testing.T) {
	sessions := newFakeSessions()
	h := testHandler(&fakeAgent{}, sessions)

	req := request("GET", "/claims", "")
	req.QueryStringParameters = map[string]string{"limit": "5"}
	if _, err := h.Handle(context.Background(), req); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if sessions.lastListLimit != 5 {
		t.Fatalf("limit = %d", sessions.lastListLimit)
	}

	// Garbage falls back to the default rather than failing the request.
	req.QueryStringParameters = map[string]string{"limit": "bogus"}
	if _, err := h.Handle(context.Background(), req); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if sessions.lastListLimit != 50 {
		t.Fatalf("limit = %d", sessions.lastListLimit)
	}
}
