package classifier

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"go.uber.org/zap"
)

// Factory creates classifiers based on configuration
type Factory struct {
	config Config
	awsCfg aws.Config
	logger *zap.Logger
}

// NewFactory creates a new classifier factory
func NewFactory(config Config, awsCfg aws.Config, logger *zap.Logger) *Factory {
	return &Factory{config: config, awsCfg: awsCfg, logger: logger}
}

// CreateSentimentClassifier creates the configured sentiment classifier
func (f *Factory) CreateSentimentClassifier() (SentimentClassifier, error) {
	switch f.config.SentimentProvider {
	case "comprehend", "":
		f.logger.Info("Using Amazon Comprehend for sentiment", zap.String("language", f.config.LanguageCode))
		return NewComprehendClassifier(f.awsCfg, f.config.LanguageCode), nil

	case "bedrock":
		f.logger.Info("Using AWS Bedrock for sentiment", zap.String("model", f.config.BedrockModel))
		return NewBedrockClassifier(f.awsCfg, f.config.BedrockModel), nil

	case "ollama":
		if f.config.OllamaURL == "" {
			return nil, fmt.Errorf("ollama URL not configured")
		}
		f.logger.Info("Using Ollama for sentiment",
			zap.String("model", f.config.OllamaModel), zap.String("url", f.config.OllamaURL))
		return NewOllamaClassifier(f.config.OllamaURL, f.config.OllamaModel), nil

	default:
		return nil, fmt.Errorf("unknown sentiment provider: %s (supported: comprehend, bedrock, ollama)", f.config.SentimentProvider)
	}
}

// CreateGenderClassifier creates the configured gender classifier
func (f *Factory) CreateGenderClassifier() (GenderClassifier, error) {
	switch f.config.GenderProvider {
	case "sagemaker", "":
		f.logger.Info("Using SageMaker for gender", zap.String("endpoint", f.config.GenderEndpoint))
		return NewSageMakerClassifier(f.awsCfg, f.config.GenderEndpoint)

	default:
		return nil, fmt.Errorf("unknown gender provider: %s (supported: sagemaker)", f.config.GenderProvider)
	}
}
