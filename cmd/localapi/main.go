// Package main runs the front-door and upload handlers as a plain HTTP
// server for local development, without API Gateway in front.
package main

import (
	"context"
	"io"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/autosettled/claims-agent/internal/awsutil"
	"github.com/autosettled/claims-agent/internal/config"
	"github.com/autosettled/claims-agent/internal/logging"
	"github.com/autosettled/claims-agent/internal/objectstore"
	"github.com/autosettled/claims-agent/internal/orchestrator"
	"github.com/autosettled/claims-agent/internal/store"
	"github.com/autosettled/claims-agent/internal/upload"
)

// gatewayHandler is the Lambda-shaped handler signature both front-door
// handlers share.
type gatewayHandler func(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error)

// adapt bridges a Lambda proxy handler onto net/http for local use.
func adapt(h gatewayHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		query := map[string]string{}
		for k, vs := range r.URL.Query() {
			if len(vs) > 0 {
				query[k] = vs[0]
			}
		}
		req := events.APIGatewayV2HTTPRequest{
			RawPath:               r.URL.Path,
			Body:                  string(body),
			QueryStringParameters: query,
			RequestContext: events.APIGatewayV2HTTPRequestContext{
				HTTP: events.APIGatewayV2HTTPRequestContextHTTPDescription{
					Method: r.Method,
					Path:   r.URL.Path,
				},
			},
		}

		resp, err := h(r.Context(), req)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		for k, v := range resp.Headers {
			w.Header().Set(k, v)
		}
		w.WriteHeader(resp.StatusCode)
		io.WriteString(w, resp.Body)
	}
}

func main() {
	env := config.MustLoad()
	logging.Init("localapi", env.Debug)

	ctx := context.Background()
	cfg, endpoint, err := awsutil.Load(ctx, env.Region)
	if err != nil {
		log.Fatal().Err(err).Msg("load aws config")
	}
	agentCfg, err := awsutil.LoadAgent(ctx, env.Region, env.AgentReadTimeout, env.AgentMaxAttempts)
	if err != nil {
		log.Fatal().Err(err).Msg("load agent aws config")
	}

	repo := store.New(dynamodb.NewFromConfig(cfg), store.Tables{
		Customers: env.CustomersTable,
		Policies:  env.PoliciesTable,
		Vehicles:  env.VehiclesTable,
		Claims:    env.ClaimsTable,
	})
	objects := objectstore.New(s3.NewFromConfig(cfg), env.Bucket)

	front := &orchestrator.Handler{
		Agent: &orchestrator.AgentClient{
			Runtime: bedrockagentruntime.NewFromConfig(agentCfg),
			AgentID: env.AgentID,
			AliasID: env.AgentAliasID,
		},
		Sessions: repo,
	}
	up := &upload.Handler{Objects: objects, Bucket: env.Bucket}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.HandleFunc("/file/upload", adapt(up.Handle))
	r.HandleFunc("/*", adapt(front.Handle))

	log.Info().Str("addr", env.ListenAddr).Str("endpoint", endpoint).Msg("local api listening")
	if err := http.ListenAndServe(env.ListenAddr, r); err != nil {
		log.Fatal().Err(err).Msg("local api stopped")
	}
}
