package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver
	"go.uber.org/zap"

	"github.com/valentinpelus/unicornfeedback/pkg/types"
)

// PostgresStore keeps records in the feedback_records table.
//
// id is indexed but not unique, so duplicate ids are stored and the lowest
// row_id wins on lookup. UpdateField updates every row with the name.
type PostgresStore struct {
	db     *sql.DB
	mode   LookupMode
	logger *zap.Logger
}

const schema = `
CREATE TABLE IF NOT EXISTS feedback_records (
	row_id     BIGSERIAL PRIMARY KEY,
	id         TEXT NOT NULL,
	first_name TEXT NOT NULL,
	last_name  TEXT NOT NULL,
	name       TEXT NOT NULL,
	feedback   TEXT NOT NULL,
	sentiment  TEXT,
	gender     TEXT
);
CREATE INDEX IF NOT EXISTS feedback_records_id_idx ON feedback_records (id);
CREATE INDEX IF NOT EXISTS feedback_records_name_idx ON feedback_records (name);
`

const selectColumns = `id, first_name, last_name, name, feedback, sentiment, gender`

// NewPostgresStore opens and pings the database
func NewPostgresStore(ctx context.Context, databaseURL string, mode LookupMode, logger *zap.Logger) (*PostgresStore, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database URL is required")
	}

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, unavailable("connect to database", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, unavailable("ping database", err)
	}

	if mode == "" {
		mode = LookupScan
	}

	return &PostgresStore{db: db, mode: mode, logger: logger}, nil
}

// EnsureSchema creates the table and indexes if missing
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return unavailable("create schema", err)
	}
	return nil
}

// Close closes the database connection
func (s *PostgresStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Name returns the backend name
func (s *PostgresStore) Name() string {
	return "postgres"
}

// GetByID finds a record by id using the configured lookup mode
func (s *PostgresStore) GetByID(ctx context.Context, id string) (*types.FeedbackRecord, error) {
	if s.mode == LookupIndex {
		row := s.db.QueryRowContext(ctx,
			`SELECT `+selectColumns+` FROM feedback_records WHERE id = $1 ORDER BY row_id LIMIT 1`, id)

		rec, err := scanRecord(row)
		if err == sql.ErrNoRows {
			return nil, notFound(id)
		}
		if err != nil {
			return nil, unavailable("query record", err)
		}
		return rec, nil
	}

	records, err := s.ScanAll(ctx)
	if err != nil {
		return nil, err
	}
	if rec := firstWithID(records, id); rec != nil {
		return rec, nil
	}
	return nil, notFound(id)
}

// ScanAll returns every row
func (s *PostgresStore) ScanAll(ctx context.Context) ([]types.FeedbackRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM feedback_records ORDER BY row_id`)
	if err != nil {
		return nil, unavailable("query records", err)
	}
	defer rows.Close()

	records := []types.FeedbackRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, unavailable("scan row", err)
		}
		records = append(records, *rec)
	}

	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate rows", err)
	}

	return records, nil
}

// Put inserts a new row
func (s *PostgresStore) Put(ctx context.Context, record types.FeedbackRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO feedback_records (id, first_name, last_name, name, feedback, sentiment, gender)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		record.ID,
		record.FirstName,
		record.LastName,
		record.Name,
		record.Feedback,
		nullString(string(record.Sentiment)),
		nullString(string(record.Gender)),
	)
	if err != nil {
		return unavailable("insert record", err)
	}

	s.logger.Info("Stored feedback record", zap.String("id", record.ID), zap.String("name", record.Name))
	return nil
}

// UpdateField sets the annotation column on every row named name
func (s *PostgresStore) UpdateField(ctx context.Context, name string, kind types.AnnotationKind, value string) error {
	column, err := annotationColumn(kind)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `UPDATE feedback_records SET `+column+` = $2 WHERE name = $1`, name, value)
	if err != nil {
		return unavailable("update record", err)
	}

	if n, err := res.RowsAffected(); err == nil && n > 1 {
		s.logger.Warn("Annotation applied to several records sharing a name",
			zap.String("name", name), zap.Int64("records", n))
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*types.FeedbackRecord, error) {
	var rec types.FeedbackRecord
	var sentiment, gender sql.NullString

	err := row.Scan(
		&rec.ID,
		&rec.FirstName,
		&rec.LastName,
		&rec.Name,
		&rec.Feedback,
		&sentiment,
		&gender,
	)
	if err != nil {
		return nil, err
	}

	rec.Sentiment = types.Sentiment(sentiment.String)
	rec.Gender = types.Gender(gender.String)
	return &rec, nil
}

// annotationColumn maps a kind to its column. Only these fixed names are
// ever interpolated into SQL.
func annotationColumn(kind types.AnnotationKind) (string, error) {
	switch kind {
	case types.AnnotationSentiment:
		return "sentiment", nil
	case types.AnnotationGender:
		return "gender", nil
	}
	return "", errUnknownKind(kind)
}

func firstWithID(records []types.FeedbackRecord, id string) *types.FeedbackRecord {
	for i := range records {
		if records[i].ID == id {
			rec := records[i]
			return &rec
		}
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
