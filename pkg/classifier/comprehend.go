package classifier

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/comprehend"
	ctypes "github.com/aws/aws-sdk-go-v2/service/comprehend/types"

	"github.com/valentinpelus/unicornfeedback/pkg/types"
)

type comprehendAPI interface {
	DetectSentiment(ctx context.Context, params *comprehend.DetectSentimentInput, optFns ...func(*comprehend.Options)) (*comprehend.DetectSentimentOutput, error)
}

// ComprehendClassifier implements SentimentClassifier with Amazon Comprehend
type ComprehendClassifier struct {
	client   comprehendAPI
	language string
}

// NewComprehendClassifier creates a Comprehend-backed sentiment classifier
func NewComprehendClassifier(awsCfg aws.Config, language string) *ComprehendClassifier {
	return newComprehendClassifier(comprehend.NewFromConfig(awsCfg), language)
}

func newComprehendClassifier(client comprehendAPI, language string) *ComprehendClassifier {
	if language == "" {
		language = "en"
	}
	return &ComprehendClassifier{client: client, language: language}
}

// Name returns the provider name
func (c *ComprehendClassifier) Name() string {
	return fmt.Sprintf("Amazon Comprehend (%s)", c.language)
}

// DetectSentiment calls DetectSentiment and returns Comprehend's label
func (c *ComprehendClassifier) DetectSentiment(ctx context.Context, text string) (types.Sentiment, error) {
	resp, err := c.client.DetectSentiment(ctx, &comprehend.DetectSentimentInput{
		Text:         aws.String(text),
		LanguageCode: ctypes.LanguageCode(c.language),
	})
	if err != nil {
		return "", unavailable("comprehend", err)
	}

	sentiment, ok := types.ParseSentiment(string(resp.Sentiment))
	if !ok {
		return "", unavailable("comprehend", fmt.Errorf("unexpected sentiment %q", resp.Sentiment))
	}
	return sentiment, nil
}
