package orchestrator

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/autosettled/claims-agent/internal/httpx"
	"github.com/autosettled/claims-agent/internal/models"
	"github.com/autosettled/claims-agent/internal/store"
)

const defaultListLimit = 50

// SessionStore is the claim-session bookkeeping the front door needs.
type SessionStore interface {
	CreateSession(ctx context.Context, s models.ClaimSession) error
	GetSession(ctx context.Context, claimID string) (*models.ClaimSession, error)
	ListSessions(ctx context.Context, limit int32) ([]models.ClaimSession, error)
}

// Handler routes front-door HTTP requests.
type Handler struct {
	Agent        AgentInvoker
	Sessions     SessionStore
	NewSessionID func() string
}

func (h *Handler) newSessionID() string {
	if h.NewSessionID != nil {
		return h.NewSessionID()
	}
	return uuid.NewString()
}

type invokeRequest struct {
	InputText   string `json:"inputText"`
	SessionID   string `json:"sessionId"`
	EnableTrace bool   `json:"enableTrace"`
}

type invokeResponse struct {
	SessionID  string            `json:"sessionId"`
	Output     string            `json:"output"`
	Completion string            `json:"completion"`
	Trace      []json.RawMessage `json:"trace,omitempty"`
}

// Handle dispatches one front-door request. Every reply is well-formed JSON
// with CORS headers; handler failures become {error} payloads, never a
// response the caller cannot parse.
func (h *Handler) Handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	method := req.RequestContext.HTTP.Method
	path := req.RawPath
	if path == "" {
		path = req.RequestContext.HTTP.Path
	}

	if method == "OPTIONS" {
		return httpx.Preflight()
	}

	switch {
	case path == "/agent/invoke" && method == "POST":
		return h.invokeAgent(ctx, req.Body)
	case path == "/claim/start" && method == "POST":
		return h.startClaim(ctx)
	case strings.HasPrefix(path, "/claim/") && method == "GET":
		return h.getClaim(ctx, strings.TrimPrefix(path, "/claim/"))
	case path == "/claims" && method == "GET":
		return h.listClaims(ctx, req.QueryStringParameters["limit"])
	default:
		return httpx.Error(404, "Not Found")
	}
}

func (h *Handler) invokeAgent(ctx context.Context, body string) (events.APIGatewayV2HTTPResponse, error) {
	var in invokeRequest
	if body != "" {
		if err := json.Unmarshal([]byte(body), &in); err != nil {
			return httpx.Error(400, "invalid json")
		}
	}
	if in.InputText == "" {
		return httpx.Error(400, "inputText is required")
	}
	sessionID := in.SessionID
	if sessionID == "" {
		sessionID = h.newSessionID()
	}

	log.Info().Str("session_id", sessionID).Int("input_len", len(in.InputText)).Msg("invoking agent")
	reply, err := h.Agent.Invoke(ctx, sessionID, in.InputText, in.EnableTrace)
	if err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("agent invocation failed")
		return httpx.Error(500, "Failed to invoke agent: "+err.Error())
	}

	out := invokeResponse{
		SessionID:  sessionID,
		Output:     reply.Output,
		Completion: "COMPLETE",
	}
	if in.EnableTrace {
		out.Trace = reply.Trace
	}
	return httpx.JSON(200, out)
}

func (h *Handler) startClaim(ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	sessionID := h.newSessionID()
	now := store.NowISO()
	err := h.Sessions.CreateSession(ctx, models.ClaimSession{
		ClaimID:   sessionID,
		Status:    models.ClaimInProgress,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		// The session id is still usable; the record can be created later.
		log.Error().Err(err).Str("claim_id", sessionID).Msg("claim record creation failed")
	}
	return httpx.JSON(200, map[string]string{"sessionId": sessionID})
}

func (h *Handler) getClaim(ctx context.Context, claimID string) (events.APIGatewayV2HTTPResponse, error) {
	session, err := h.Sessions.GetSession(ctx, claimID)
	if err != nil {
		log.Error().Err(err).Str("claim_id", claimID).Msg("claim fetch failed")
		return httpx.Error(500, err.Error())
	}
	if session == nil {
		return httpx.Error(404, "Claim not found")
	}

	view := models.ClaimView{
		Customer:         session.CustomerData,
		Policy:           session.PolicyData,
		DamageAnalysis:   session.DamageAnalysis,
		DocumentAnalysis: session.DocumentAnalysis,
		Settlement:       session.Decision,
	}
	if session.ReportURL != "" {
		if view.Settlement == nil {
			view.Settlement = map[string]any{}
		}
		view.Settlement["pdf_url"] = session.ReportURL
	}
	return httpx.JSON(200, view)
}

func (h *Handler) listClaims(ctx context.Context, limitParam string) (events.APIGatewayV2HTTPResponse, error) {
	limit := defaultListLimit
	if limitParam != "" {
		if n, err := strconv.Atoi(limitParam); err == nil && n > 0 {
			limit = n
		}
	}
	sessions, err := h.Sessions.ListSessions(ctx, int32(limit))
	if err != nil {
		log.Error().Err(err).Msg("claim list failed")
		return httpx.Error(500, err.Error())
	}
	if sessions == nil {
		sessions = []models.ClaimSession{}
	}
	return httpx.JSON(200, sessions)
}
