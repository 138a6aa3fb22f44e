package processor

import (
	"context"

	"github.com/valentinpelus/unicornfeedback/pkg/store"
	"github.com/valentinpelus/unicornfeedback/pkg/types"
)

// Retriever lists the store contents
type Retriever struct {
	store store.Store
}

// NewRetriever creates a retrieval workflow
func NewRetriever(s store.Store) *Retriever {
	return &Retriever{store: s}
}

// ListAll returns every record
func (r *Retriever) ListAll(ctx context.Context) ([]types.FeedbackRecord, error) {
	return r.store.ScanAll(ctx)
}
