package classifier

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"github.com/valentinpelus/unicornfeedback/pkg/types"
)

type bedrockAPI interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// BedrockClassifier implements SentimentClassifier with a Claude model on AWS Bedrock
type BedrockClassifier struct {
	client bedrockAPI
	model  string
}

// NewBedrockClassifier creates a Bedrock-backed sentiment classifier
func NewBedrockClassifier(awsCfg aws.Config, model string) *BedrockClassifier {
	return newBedrockClassifier(bedrockruntime.NewFromConfig(awsCfg), model)
}

func newBedrockClassifier(client bedrockAPI, model string) *BedrockClassifier {
	if model == "" {
		model = "anthropic.claude-3-5-sonnet-20241022-v2:0" // Default model
	}
	return &BedrockClassifier{client: client, model: model}
}

// Name returns the provider name
func (c *BedrockClassifier) Name() string {
	return fmt.Sprintf("AWS Bedrock (%s)", c.model)
}

// Bedrock request/response structures (using Claude's format on Bedrock)
type bedrockClaudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type bedrockClaudeRequest struct {
	Messages         []bedrockClaudeMessage `json:"messages"`
	MaxTokens        int                    `json:"max_tokens"`
	Temperature      float64                `json:"temperature"`
	AnthropicVersion string                 `json:"anthropic_version"`
}

type bedrockClaudeContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type bedrockClaudeResponse struct {
	ID      string                      `json:"id"`
	Type    string                      `json:"type"`
	Role    string                      `json:"role"`
	Content []bedrockClaudeContentBlock `json:"content"`
}

// DetectSentiment asks the model for a one-word label
func (c *BedrockClassifier) DetectSentiment(ctx context.Context, text string) (types.Sentiment, error) {
	reqBody := bedrockClaudeRequest{
		Messages: []bedrockClaudeMessage{
			{Role: "user", Content: BuildSentimentPrompt(text)},
		},
		MaxTokens:        10,
		Temperature:      0.0,
		AnthropicVersion: "bedrock-2023-05-31",
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", unavailable("bedrock", fmt.Errorf("failed to marshal request: %w", err))
	}

	resp, err := c.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(c.model),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        jsonData,
	})
	if err != nil {
		return "", unavailable("bedrock", err)
	}

	var bedrockResp bedrockClaudeResponse
	if err := json.Unmarshal(resp.Body, &bedrockResp); err != nil {
		return "", unavailable("bedrock", fmt.Errorf("failed to decode response: %w", err))
	}

	if len(bedrockResp.Content) == 0 {
		return "", unavailable("bedrock", fmt.Errorf("no content returned"))
	}

	sentiment, ok := parseSentimentAnswer(bedrockResp.Content[0].Text)
	if !ok {
		return "", unavailable("bedrock", fmt.Errorf("invalid sentiment answer %q", bedrockResp.Content[0].Text))
	}
	return sentiment, nil
}
