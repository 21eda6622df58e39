// Package main is the claims front door: agent invocation plus claim-session
// endpoints behind one function URL.
package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/rs/zerolog/log"

	"github.com/autosettled/claims-agent/internal/awsutil"
	"github.com/autosettled/claims-agent/internal/config"
	"github.com/autosettled/claims-agent/internal/logging"
	"github.com/autosettled/claims-agent/internal/orchestrator"
	"github.com/autosettled/claims-agent/internal/store"
)

func main() {
	env := config.MustLoad()
	logging.Init("orchestrator", env.Debug)

	ctx := context.Background()
	cfg, _, err := awsutil.Load(ctx, env.Region)
	if err != nil {
		log.Fatal().Err(err).Msg("load aws config")
	}
	// The agent client gets its own config: a read timeout that outlasts a
	// full agent turn and a capped adaptive retry policy.
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
	h := &orchestrator.Handler{
		Agent: &orchestrator.AgentClient{
			Runtime: bedrockagentruntime.NewFromConfig(agentCfg),
			AgentID: env.AgentID,
			AliasID: env.AgentAliasID,
		},
		Sessions: repo,
	}
	lambda.Start(h.Handle)
}
