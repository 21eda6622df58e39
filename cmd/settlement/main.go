// Package main generates the final settlement decision for the claims agent.
package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"

	"github.com/autosettled/claims-agent/internal/agentcall"
	"github.com/autosettled/claims-agent/internal/awsutil"
	"github.com/autosettled/claims-agent/internal/config"
	"github.com/autosettled/claims-agent/internal/logging"
	"github.com/autosettled/claims-agent/internal/objectstore"
	"github.com/autosettled/claims-agent/internal/reasoning"
	"github.com/autosettled/claims-agent/internal/settlement"
	"github.com/autosettled/claims-agent/internal/store"
)

// App holds the step's collaborators.
type App struct {
	engine *settlement.Engine
}

func main() {
	env := config.MustLoad()
	logging.Init("settlement-decision", env.Debug)

	cfg, _, err := awsutil.Load(context.Background(), env.Region)
	if err != nil {
		log.Fatal().Err(err).Msg("load aws config")
	}

	repo := store.New(dynamodb.NewFromConfig(cfg), store.Tables{
		Customers: env.CustomersTable,
		Policies:  env.PoliciesTable,
		Vehicles:  env.VehiclesTable,
		Claims:    env.ClaimsTable,
	})
	app := &App{engine: &settlement.Engine{
		Model:   reasoning.New(bedrockruntime.NewFromConfig(cfg), env.ModelID),
		Audit:   repo,
		Reports: objectstore.New(s3.NewFromConfig(cfg), env.Bucket),
		LinkTTL: env.ReportLinkTTL,
	}}
	lambda.Start(app.handler)
}

func (a *App) handler(ctx context.Context, ev agentcall.Event) (agentcall.Response, error) {
	log.Info().Stringer("envelope", ev.Kind()).Str("action_group", ev.ActionGroup).Msg("settlement decision invoked")
	p := ev.Params()

	in := settlement.ParseInputs(p["customer_data"], p["policy_data"], p["damage_analysis"], p["document_analysis"])
	result, err := a.engine.Process(ctx, in)
	if err != nil {
		log.Error().Err(err).Msg("settlement decision failed")
		return ev.Respond(map[string]any{
			"error":   err.Error(),
			"message": "Error generating settlement decision",
		})
	}
	return ev.Respond(result)
}
