package main

import (
	"context"

	"dispatch/cmd"
	lambdain "dispatch/internal/adapters/in/lambda"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/labstack/gommon/log"
	"gorm.io/gorm"
)

func main() {
	configs, err := cmd.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	logger := cmd.NewLogger(configs.LogLevel)

	var db *gorm.DB
	if configs.HasDatabase() {
		if db, err = cmd.OpenDatabase(configs); err != nil {
			log.Fatalf("Error connecting to database: %v", err)
		}
	}

	app := cmd.NewCompositionRoot(configs, db, nil, logger)

	batchHandler, err := app.CreateRunBatchCommandHandler(context.Background())
	if err != nil {
		log.Fatalf("Error creating batch handler: %v", err)
	}

	lambda.Start(lambdain.NewHandler(batchHandler, configs.MaxHours, logger).Handle)
}
