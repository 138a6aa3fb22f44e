package handler

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/valentinpelus/unicornfeedback/internal/processor"
	"github.com/valentinpelus/unicornfeedback/pkg/types"
)

// StatusOK is returned by the intake handler on success
const StatusOK = "ok"

// Handler adapts the feedback workflows to Lambda events and HTTP requests
type Handler struct {
	intake    *processor.Intake
	annotator *processor.Annotator
	retriever *processor.Retriever
	silent    bool
	logger    *zap.Logger
}

// New creates a handler. With silent set, workflow failures are logged and
// an empty result is returned in place of the error.
func New(intake *processor.Intake, annotator *processor.Annotator, retriever *processor.Retriever, silent bool, logger *zap.Logger) *Handler {
	return &Handler{
		intake:    intake,
		annotator: annotator,
		retriever: retriever,
		silent:    silent,
		logger:    logger,
	}
}

// EnterFeedback stores a new submission and returns StatusOK
func (h *Handler) EnterFeedback(ctx context.Context, event types.EnterFeedbackEvent) (string, error) {
	resp, err := h.submit(ctx, event)
	return resp.Status, err
}

// submit stores the submission. On success the response carries the new id;
// in silent mode a failure yields an empty response and no error.
func (h *Handler) submit(ctx context.Context, event types.EnterFeedbackEvent) (types.StatusResponse, error) {
	h.logger.Info("Received event", zap.String("workflow", "enterfeedback"), zap.Any("event", event))

	id, err := h.intake.Submit(ctx, event.FirstName, event.LastName, event.Feedback)
	if err != nil {
		return types.StatusResponse{}, h.fail("enterfeedback", err)
	}

	h.logger.Info("Feedback stored", zap.String("id", id))
	return types.StatusResponse{Status: StatusOK, ID: id}, nil
}

// PredictSentiment annotates the comma-joined ids with a sentiment
func (h *Handler) PredictSentiment(ctx context.Context, event types.AnnotateEvent) ([]types.FeedbackRecord, error) {
	return h.annotate(ctx, "predictsentiment", event, types.AnnotationSentiment)
}

// PredictGender annotates the comma-joined ids with a gender guess
func (h *Handler) PredictGender(ctx context.Context, event types.AnnotateEvent) ([]types.FeedbackRecord, error) {
	return h.annotate(ctx, "predictgender", event, types.AnnotationGender)
}

// GetAllContents returns every record. The event is ignored.
func (h *Handler) GetAllContents(ctx context.Context, event json.RawMessage) ([]types.FeedbackRecord, error) {
	records, err := h.retriever.ListAll(ctx)
	if err != nil {
		return nil, h.fail("getallcontents", err)
	}
	return records, nil
}

func (h *Handler) annotate(ctx context.Context, workflow string, event types.AnnotateEvent, kind types.AnnotationKind) ([]types.FeedbackRecord, error) {
	h.logger.Info("Received event", zap.String("workflow", workflow), zap.Any("event", event))

	records, err := h.annotator.Annotate(ctx, processor.SplitIDs(event.ID), kind)
	if err != nil {
		return nil, h.fail(workflow, err)
	}
	return records, nil
}

// fail logs err and returns it, or nil in silent mode
func (h *Handler) fail(workflow string, err error) error {
	h.logger.Error("Workflow failed", zap.String("workflow", workflow), zap.Error(err))
	if h.silent {
		return nil
	}
	return err
}
