package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/valentinpelus/unicornfeedback/pkg/types"
)

// OllamaClassifier implements SentimentClassifier with a self-hosted Ollama model
type OllamaClassifier struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewOllamaClassifier creates an Ollama-backed sentiment classifier
func NewOllamaClassifier(baseURL, model string) *OllamaClassifier {
	if model == "" {
		model = "llama3" // Default model
	}
	return &OllamaClassifier{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// Name returns the provider name
func (c *OllamaClassifier) Name() string {
	return fmt.Sprintf("Ollama (%s)", c.model)
}

type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type ollamaResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// DetectSentiment asks the model for a one-word label
// Reference: https://github.com/ollama/ollama/blob/main/docs/api.md
func (c *OllamaClassifier) DetectSentiment(ctx context.Context, text string) (types.Sentiment, error) {
	jsonData, err := json.Marshal(ollamaRequest{
		Model:  c.model,
		Prompt: BuildSentimentPrompt(text),
		Stream: false,
	})
	if err != nil {
		return "", unavailable("ollama", fmt.Errorf("failed to marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", unavailable("ollama", fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", unavailable("ollama", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", unavailable("ollama", fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body)))
	}

	var ollamaResp ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&ollamaResp); err != nil {
		return "", unavailable("ollama", fmt.Errorf("failed to decode response: %w", err))
	}

	sentiment, ok := parseSentimentAnswer(ollamaResp.Response)
	if !ok {
		return "", unavailable("ollama", fmt.Errorf("invalid sentiment answer %q", ollamaResp.Response))
	}
	return sentiment, nil
}
