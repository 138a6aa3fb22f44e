package app

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"go.uber.org/zap"

	"github.com/valentinpelus/unicornfeedback/internal/config"
	"github.com/valentinpelus/unicornfeedback/internal/handler"
	"github.com/valentinpelus/unicornfeedback/internal/logging"
	"github.com/valentinpelus/unicornfeedback/internal/processor"
	"github.com/valentinpelus/unicornfeedback/pkg/classifier"
	"github.com/valentinpelus/unicornfeedback/pkg/store"
)

// App holds all application dependencies
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Store     store.Store
	Sentiment classifier.SentimentClassifier
	Gender    classifier.GenderClassifier
	Handler   *handler.Handler
}

// New loads configuration from the environment and wires every dependency
func New(ctx context.Context) (*App, error) {
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	// Load AWS credentials from environment/IAM role
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return NewWithAWS(ctx, cfg, awsCfg, logger)
}

// NewWithAWS wires the application from an already loaded configuration
func NewWithAWS(ctx context.Context, cfg *config.Config, awsCfg aws.Config, logger *zap.Logger) (*App, error) {
	s, err := store.NewFromConfig(ctx, cfg.StoreConfig(), awsCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	factory := classifier.NewFactory(cfg.ClassifierConfig(), awsCfg, logger)

	sentiment, err := factory.CreateSentimentClassifier()
	if err != nil {
		return nil, err
	}

	gender, err := factory.CreateGenderClassifier()
	if err != nil {
		return nil, err
	}

	h := handler.New(
		processor.NewIntake(s, logger),
		processor.NewAnnotator(s, sentiment, gender, logger),
		processor.NewRetriever(s),
		cfg.LegacySilentErrors,
		logger,
	)

	return &App{
		Config:    cfg,
		Logger:    logger,
		Store:     s,
		Sentiment: sentiment,
		Gender:    gender,
		Handler:   h,
	}, nil
}

// LogStartupInfo logs application startup information
func (a *App) LogStartupInfo(component string) {
	a.Logger.Info("Starting Unicorn Feedback",
		zap.String("component", component),
		zap.String("store", a.Store.Name()),
		zap.String("lookup_mode", a.Config.StoreLookupMode),
		zap.String("sentiment", a.Sentiment.Name()),
		zap.String("gender", a.Gender.Name()))

	if a.Config.LegacySilentErrors {
		a.Logger.Warn("Legacy silent errors enabled: failures are logged and return an empty result")
	}
}

// Close releases the store connection and flushes the logger
func (a *App) Close() {
	if c, ok := a.Store.(io.Closer); ok {
		if err := c.Close(); err != nil {
			a.Logger.Warn("Failed to close store", zap.Error(err))
		}
	}
	_ = a.Logger.Sync()
}
