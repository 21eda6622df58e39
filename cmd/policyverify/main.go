// Package main verifies policy ownership and validity for the claims agent.
package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/rs/zerolog/log"

	"github.com/autosettled/claims-agent/internal/agentcall"
	"github.com/autosettled/claims-agent/internal/awsutil"
	"github.com/autosettled/claims-agent/internal/config"
	"github.com/autosettled/claims-agent/internal/logging"
	"github.com/autosettled/claims-agent/internal/store"
	"github.com/autosettled/claims-agent/internal/verify"
)

// App holds the step's collaborators.
type App struct {
	verifier *verify.Policy
}

func main() {
	env := config.MustLoad()
	logging.Init("policy-verification", env.Debug)

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
	app := &App{verifier: &verify.Policy{Store: repo}}
	lambda.Start(app.handler)
}

func (a *App) handler(ctx context.Context, ev agentcall.Event) (agentcall.Response, error) {
	log.Info().Stringer("envelope", ev.Kind()).Str("action_group", ev.ActionGroup).Msg("policy verification invoked")
	p := ev.Params()
	result := a.verifier.Verify(ctx, p["policy_id"], p["customer_id"])
	return ev.Respond(result)
}
