package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/valentinpelus/unicornfeedback/internal/app"
)

func main() {
	application, err := app.New(context.Background())
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer application.Close()

	application.LogStartupInfo("getallcontents")

	lambda.Start(application.Handler.GetAllContents)
}
