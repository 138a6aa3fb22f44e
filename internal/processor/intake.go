package processor

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/valentinpelus/unicornfeedback/pkg/store"
	"github.com/valentinpelus/unicornfeedback/pkg/types"
)

// Intake stores new feedback submissions
type Intake struct {
	store  store.Store
	newID  func() string
	logger *zap.Logger
}

// NewIntake creates an intake workflow that assigns random UUIDs
func NewIntake(s store.Store, logger *zap.Logger) *Intake {
	return &Intake{
		store:  s,
		newID:  func() string { return uuid.New().String() },
		logger: logger,
	}
}

// Submit stores a new unannotated record and returns its id. Inputs are not
// validated; empty strings are stored as given.
func (in *Intake) Submit(ctx context.Context, firstName, lastName, feedback string) (string, error) {
	record := types.NewFeedbackRecord(in.newID(), firstName, lastName, feedback)

	if err := in.store.Put(ctx, record); err != nil {
		in.logger.Error("Failed to store feedback", zap.String("name", record.Name), zap.Error(err))
		return "", err
	}

	return record.ID, nil
}
