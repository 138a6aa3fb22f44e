package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"go.uber.org/zap"

	"github.com/valentinpelus/unicornfeedback/pkg/types"
)

var (
	// ErrStoreUnavailable wraps every failure to read from or write to the backend
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrRecordNotFound is returned by GetByID when no record carries the id
	ErrRecordNotFound = errors.New("record not found")

	// ErrUnknownKind is returned by UpdateField for an annotation kind with no attribute
	ErrUnknownKind = errors.New("unknown annotation kind")
)

// Store is access to the single table of feedback records.
//
// UpdateField is keyed by display name, not id. When several records share a
// name the outcome depends on the backend; see each implementation.
type Store interface {
	// GetByID returns the first record whose ID equals id
	GetByID(ctx context.Context, id string) (*types.FeedbackRecord, error)

	// ScanAll returns every record. Order is not guaranteed.
	ScanAll(ctx context.Context) ([]types.FeedbackRecord, error)

	// Put inserts a record without checking for duplicate ids or names
	Put(ctx context.Context, record types.FeedbackRecord) error

	// UpdateField sets one annotation attribute on the record(s) named name
	UpdateField(ctx context.Context, name string, kind types.AnnotationKind, value string) error

	// Name returns the backend name (for logging)
	Name() string
}

// LookupMode controls how GetByID finds a record
type LookupMode string

const (
	// LookupScan reads the whole table and filters on ID. First match wins.
	// Kept for compatibility with tables that have no id index.
	LookupScan LookupMode = "scan"

	// LookupIndex uses an index on ID
	LookupIndex LookupMode = "index"
)

// ParseLookupMode validates a configured lookup mode
func ParseLookupMode(s string) (LookupMode, error) {
	switch LookupMode(s) {
	case LookupScan, "":
		return LookupScan, nil
	case LookupIndex:
		return LookupIndex, nil
	}
	return "", fmt.Errorf("unknown lookup mode: %s (supported: scan, index)", s)
}

// Config selects and configures a backend
type Config struct {
	Backend    string // "dynamodb", "postgres", "file", "memory"
	LookupMode LookupMode

	// DynamoDB-specific
	TableName string
	IDIndex   string // global secondary index on ID, used by LookupIndex
	Endpoint  string // optional override, e.g. DynamoDB Local

	// PostgreSQL-specific
	DatabaseURL string

	// File-specific
	FilePath string
}

// NewFromConfig creates the configured store
func NewFromConfig(ctx context.Context, cfg Config, awsCfg aws.Config, logger *zap.Logger) (Store, error) {
	switch cfg.Backend {
	case "dynamodb", "":
		return NewDynamoStore(awsCfg, cfg, logger), nil

	case "postgres":
		s, err := NewPostgresStore(ctx, cfg.DatabaseURL, cfg.LookupMode, logger)
		if err != nil {
			return nil, err
		}
		if err := s.EnsureSchema(ctx); err != nil {
			s.Close()
			return nil, err
		}
		return s, nil

	case "file":
		s, err := NewFileStore(cfg.FilePath, cfg.LookupMode, logger)
		if err != nil {
			return nil, err
		}
		return s, nil

	case "memory":
		return NewMemoryStore(cfg.LookupMode, logger), nil

	default:
		return nil, fmt.Errorf("unknown store backend: %s (supported: dynamodb, postgres, file, memory)", cfg.Backend)
	}
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}

func notFound(id string) error {
	return fmt.Errorf("%w: id %q", ErrRecordNotFound, id)
}

func errUnknownKind(kind types.AnnotationKind) error {
	return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}
