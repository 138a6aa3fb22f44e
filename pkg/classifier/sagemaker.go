package classifier

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sagemakerruntime"
)

type sagemakerAPI interface {
	InvokeEndpoint(ctx context.Context, params *sagemakerruntime.InvokeEndpointInput, optFns ...func(*sagemakerruntime.Options)) (*sagemakerruntime.InvokeEndpointOutput, error)
}

// SageMakerClassifier implements GenderClassifier against a SageMaker
// endpoint hosting a TensorFlow Serving first-name model
type SageMakerClassifier struct {
	client   sagemakerAPI
	endpoint string
}

// NewSageMakerClassifier creates a SageMaker-backed gender classifier
func NewSageMakerClassifier(awsCfg aws.Config, endpoint string) (*SageMakerClassifier, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("gender endpoint not configured")
	}
	return newSageMakerClassifier(sagemakerruntime.NewFromConfig(awsCfg), endpoint), nil
}

func newSageMakerClassifier(client sagemakerAPI, endpoint string) *SageMakerClassifier {
	return &SageMakerClassifier{client: client, endpoint: endpoint}
}

// Name returns the provider name
func (c *SageMakerClassifier) Name() string {
	return fmt.Sprintf("SageMaker (%s)", c.endpoint)
}

type genderRequest struct {
	Name string `json:"name"`
}

// genderResponse is the TensorFlow Serving predict output:
// {"outputs": {"Gender": {"floatVal": [0.83]}}}
type genderResponse struct {
	Outputs struct {
		Gender struct {
			FloatVal []float64 `json:"floatVal"`
		} `json:"Gender"`
	} `json:"outputs"`
}

// PredictGender returns the model's score for the first name
func (c *SageMakerClassifier) PredictGender(ctx context.Context, firstName string) (float64, error) {
	body, err := json.Marshal(genderRequest{Name: firstName})
	if err != nil {
		return 0, unavailable("sagemaker", fmt.Errorf("failed to marshal request: %w", err))
	}

	resp, err := c.client.InvokeEndpoint(ctx, &sagemakerruntime.InvokeEndpointInput{
		EndpointName: aws.String(c.endpoint),
		Body:         body,
		ContentType:  aws.String("application/json"),
		Accept:       aws.String("*/*"),
	})
	if err != nil {
		return 0, unavailable("sagemaker", err)
	}

	var out genderResponse
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return 0, unavailable("sagemaker", fmt.Errorf("failed to decode response: %w", err))
	}

	if len(out.Outputs.Gender.FloatVal) == 0 {
		return 0, unavailable("sagemaker", fmt.Errorf("no gender score returned"))
	}

	return out.Outputs.Gender.FloatVal[0], nil
}
