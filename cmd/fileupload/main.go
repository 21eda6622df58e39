// Package main ingests evidence files uploaded by the claims UI.
package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"

	"github.com/autosettled/claims-agent/internal/awsutil"
	"github.com/autosettled/claims-agent/internal/config"
	"github.com/autosettled/claims-agent/internal/logging"
	"github.com/autosettled/claims-agent/internal/objectstore"
	"github.com/autosettled/claims-agent/internal/upload"
)

func main() {
	env := config.MustLoad()
	logging.Init("file-upload", env.Debug)

	cfg, _, err := awsutil.Load(context.Background(), env.Region)
	if err != nil {
		log.Fatal().Err(err).Msg("load aws config")
	}

	h := &upload.Handler{
		Objects: objectstore.New(s3.NewFromConfig(cfg), env.Bucket),
		Bucket:  env.Bucket,
	}
	lambda.Start(h.Handle)
}
