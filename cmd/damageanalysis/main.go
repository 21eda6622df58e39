// Package main analyzes crash damage images for the claims agent.
package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"

	"github.com/autosettled/claims-agent/internal/agentcall"
	"github.com/autosettled/claims-agent/internal/analysis"
	"github.com/autosettled/claims-agent/internal/awsutil"
	"github.com/autosettled/claims-agent/internal/config"
	"github.com/autosettled/claims-agent/internal/logging"
	"github.com/autosettled/claims-agent/internal/objectstore"
	"github.com/autosettled/claims-agent/internal/reasoning"
	"github.com/autosettled/claims-agent/internal/store"
)

// App holds the step's collaborators.
type App struct {
	step *analysis.Damage
}

func main() {
	env := config.MustLoad()
	logging.Init("damage-analysis", env.Debug)

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
	app := &App{step: &analysis.Damage{
		Store:   repo,
		Objects: objectstore.New(s3.NewFromConfig(cfg), env.Bucket),
		Model:   reasoning.New(bedrockruntime.NewFromConfig(cfg), env.ModelID),
	}}
	lambda.Start(app.handler)
}

func (a *App) handler(ctx context.Context, ev agentcall.Event) (agentcall.Response, error) {
	log.Info().Stringer("envelope", ev.Kind()).Str("action_group", ev.ActionGroup).Msg("damage analysis invoked")
	p := ev.Params()
	uris := analysis.ParseURIList(p["image_uris"])
	result := a.step.Analyze(ctx, uris, p["policy_id"])
	return ev.Respond(result)
}
