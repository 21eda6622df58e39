// Package main analyzes claim documents for the claims agent.
package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"

	"github.com/autosettled/claims-agent/internal/agentcall"
	"github.com/autosettled/claims-agent/internal/analysis"
	"github.com/autosettled/claims-agent/internal/awsutil"
	"github.com/autosettled/claims-agent/internal/config"
	"github.com/autosettled/claims-agent/internal/logging"
	"github.com/autosettled/claims-agent/internal/objectstore"
	"github.com/autosettled/claims-agent/internal/reasoning"
)

// App holds the step's collaborators.
type App struct {
	step *analysis.Document
}

func main() {
	env := config.MustLoad()
	logging.Init("document-analysis", env.Debug)

	cfg, _, err := awsutil.Load(context.Background(), env.Region)
	if err != nil {
		log.Fatal().Err(err).Msg("load aws config")
	}

	app := &App{step: &analysis.Document{
		Objects: objectstore.New(s3.NewFromConfig(cfg), env.Bucket),
		Model:   reasoning.New(bedrockruntime.NewFromConfig(cfg), env.ModelID),
	}}
	lambda.Start(app.handler)
}

func (a *App) handler(ctx context.Context, ev agentcall.Event) (agentcall.Response, error) {
	log.Info().Stringer("envelope", ev.Kind()).Str("action_group", ev.ActionGroup).Msg("document analysis invoked")
	p := ev.Params()

	res, err := a.step.Analyze(ctx, p["police_report_uri"], p["repair_estimate_uri"], p["damage_analysis"])
	if err != nil {
		log.Error().Err(err).Msg("document analysis failed")
		return ev.Respond(map[string]any{
			"error":   err.Error(),
			"message": "Error analyzing documents",
		})
	}
	return ev.Respond(analysis.Payload(res))
}
