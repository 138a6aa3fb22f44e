package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/valentinpelus/unicornfeedback/internal/app"
	"github.com/valentinpelus/unicornfeedback/internal/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer application.Close()

	application.LogStartupInfo("feedbackd")

	srv := server.New(application.Config.Port, application.Config.APIAuthToken, application.Handler, application.Logger)
	if err := srv.Start(ctx); err != nil {
		application.Logger.Error("Server error", zap.Error(err))
	}
}
