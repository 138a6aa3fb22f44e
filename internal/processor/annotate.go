package processor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/valentinpelus/unicornfeedback/pkg/classifier"
	"github.com/valentinpelus/unicornfeedback/pkg/store"
	"github.com/valentinpelus/unicornfeedback/pkg/types"
)

// ErrUnsupportedAnnotation is returned for an annotation kind the annotator
// does not know
var ErrUnsupportedAnnotation = errors.New("unsupported annotation kind")

// AnnotationError reports the id that stopped an annotation batch. Records
// before Index were annotated and persisted; the rest were not attempted.
type AnnotationError struct {
	ID    string
	Index int
	Err   error
}

func (e *AnnotationError) Error() string {
	return fmt.Sprintf("annotate id %q (position %d): %v", e.ID, e.Index, e.Err)
}

func (e *AnnotationError) Unwrap() error {
	return e.Err
}

// Annotator derives sentiment or gender annotations for stored records
type Annotator struct {
	store     store.Store
	sentiment classifier.SentimentClassifier
	gender    classifier.GenderClassifier
	logger    *zap.Logger
}

// NewAnnotator creates an annotator. Either classifier may be nil when the
// deployment only serves the other kind.
func NewAnnotator(s store.Store, sentiment classifier.SentimentClassifier, gender classifier.GenderClassifier, logger *zap.Logger) *Annotator {
	return &Annotator{
		store:     s,
		sentiment: sentiment,
		gender:    gender,
		logger:    logger,
	}
}

// Annotate processes ids one at a time in input order: look up the record,
// classify it, and persist the value keyed by the record's name. The first
// failure stops the batch. On success the full store contents are returned.
//
// The update is keyed by name, so records sharing a name are affected
// according to the store's collision policy.
func (a *Annotator) Annotate(ctx context.Context, ids []string, kind types.AnnotationKind) ([]types.FeedbackRecord, error) {
	for i, id := range ids {
		if err := a.annotateOne(ctx, id, kind); err != nil {
			a.logger.Error("Annotation batch stopped",
				zap.String("kind", string(kind)),
				zap.String("id", id),
				zap.Int("annotated", i),
				zap.Int("requested", len(ids)),
				zap.Error(err))
			return nil, &AnnotationError{ID: id, Index: i, Err: err}
		}
	}

	records, err := a.store.ScanAll(ctx)
	if err != nil {
		return nil, err
	}

	a.logger.Info("Annotation batch complete",
		zap.String("kind", string(kind)), zap.Int("annotated", len(ids)))
	return records, nil
}

func (a *Annotator) annotateOne(ctx context.Context, id string, kind types.AnnotationKind) error {
	record, err := a.store.GetByID(ctx, id)
	if err != nil {
		return err
	}

	value, err := a.classify(ctx, record, kind)
	if err != nil {
		return err
	}

	if err := a.store.UpdateField(ctx, record.Name, kind, value); err != nil {
		return err
	}

	a.logger.Debug("Annotated record",
		zap.String("id", id),
		zap.String("name", record.Name),
		zap.String("kind", string(kind)),
		zap.String("value", value))
	return nil
}

func (a *Annotator) classify(ctx context.Context, record *types.FeedbackRecord, kind types.AnnotationKind) (string, error) {
	switch kind {
	case types.AnnotationSentiment:
		if a.sentiment == nil {
			return "", fmt.Errorf("%w: no sentiment classifier configured", classifier.ErrClassifierUnavailable)
		}
		sentiment, err := a.sentiment.DetectSentiment(ctx, record.Feedback)
		if err != nil {
			return "", err
		}
		return string(sentiment), nil

	case types.AnnotationGender:
		if a.gender == nil {
			return "", fmt.Errorf("%w: no gender classifier configured", classifier.ErrClassifierUnavailable)
		}
		score, err := a.gender.PredictGender(ctx, record.FirstName)
		if err != nil {
			return "", err
		}
		return string(classifier.GenderFromScore(score)), nil

	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedAnnotation, kind)
	}
}

// SplitIDs splits the comma-joined ID field of an annotation request.
// Entries are not trimmed or de-duplicated; an empty string yields one
// empty id.
func SplitIDs(s string) []string {
	return strings.Split(s, ",")
}
