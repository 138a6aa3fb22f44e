package classifier

import (
	"context"
	"errors"
	"fmt"

	"github.com/valentinpelus/unicornfeedback/pkg/types"
)

// ErrClassifierUnavailable wraps every failed or unusable inference call
var ErrClassifierUnavailable = errors.New("classifier unavailable")

// SentimentClassifier labels free text with a sentiment
type SentimentClassifier interface {
	// DetectSentiment returns one of POSITIVE, NEGATIVE, NEUTRAL, MIXED
	DetectSentiment(ctx context.Context, text string) (types.Sentiment, error)

	// Name returns the provider name (for logging)
	Name() string
}

// GenderClassifier scores a first name
type GenderClassifier interface {
	// PredictGender returns a score in [0,1]; see GenderFromScore
	PredictGender(ctx context.Context, firstName string) (float64, error)

	// Name returns the provider name (for logging)
	Name() string
}

// GenderThreshold splits gender scores: below is Male, at or above is Female
const GenderThreshold = 0.5

// GenderFromScore maps a classifier score to a gender label.
// Anything not strictly below the threshold is Female, including NaN.
func GenderFromScore(score float64) types.Gender {
	if score < GenderThreshold {
		return types.GenderMale
	}
	return types.GenderFemale
}

// Config holds configuration for the classifier providers
type Config struct {
	SentimentProvider string // "comprehend", "bedrock", "ollama"
	GenderProvider    string // "sagemaker"

	// Comprehend-specific
	LanguageCode string // e.g., "en"

	// AWS Bedrock-specific
	BedrockModel string // e.g., "anthropic.claude-3-5-sonnet-20241022-v2:0"

	// Ollama-specific
	OllamaURL   string
	OllamaModel string

	// SageMaker-specific
	GenderEndpoint string // endpoint serving the first-name model
}

func unavailable(provider string, err error) error {
	return fmt.Errorf("%s: %w: %w", provider, ErrClassifierUnavailable, err)
}
