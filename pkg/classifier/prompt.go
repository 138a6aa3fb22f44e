package classifier

import (
	"fmt"
	"strings"

	"github.com/valentinpelus/unicornfeedback/pkg/types"
)

// BuildSentimentPrompt asks a generative model for a one-word sentiment label
func BuildSentimentPrompt(text string) string {
	return fmt.Sprintf(`Classify the sentiment of this customer feedback.

Feedback: %s

Labels:
POSITIVE - clearly favorable
NEGATIVE - clearly unfavorable
NEUTRAL - neither favorable nor unfavorable
MIXED - both favorable and unfavorable statements

Response: ONE word only

Sentiment:`, text)
}

// parseSentimentAnswer pulls the label out of a free-form model answer
func parseSentimentAnswer(answer string) (types.Sentiment, bool) {
	label := strings.TrimSpace(answer)

	// Extract first line if multi-line response
	if idx := strings.Index(label, "\n"); idx != -1 {
		label = label[:idx]
	}

	// Drop a "Sentiment:" style prefix
	if idx := strings.LastIndex(label, ":"); idx != -1 {
		label = label[idx+1:]
	}

	label = strings.Trim(label, " \t.*\"'")
	return types.ParseSentiment(label)
}
