package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseLookupMode(t *testing.T) {
	mode, err := ParseLookupMode("")
	require.NoError(t, err)
	assert.Equal(t, LookupScan, mode)

	mode, err = ParseLookupMode("index")
	require.NoError(t, err)
	assert.Equal(t, LookupIndex, mode)

	_, err = ParseLookupMode("btree")
	assert.Error(t, err)
}

func TestNewFromConfig(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	t.Run("memory", func(t *testing.T) {
		s, err := NewFromConfig(ctx, Config{Backend: "memory"}, aws.Config{}, logger)
		require.NoError(t, err)
		assert.Equal(t, "memory", s.Name())
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "records.json")
		s, err := NewFromConfig(ctx, Config{Backend: "file", FilePath: path}, aws.Config{}, logger)
		require.NoError(t, err)
		assert.Equal(t, "file:"+path, s.Name())
	})

	t.Run("corrupt file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "records.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"records": [`), 0644))

		_, err := NewFromConfig(ctx, Config{Backend: "file", FilePath: path}, aws.Config{}, logger)
		assert.Error(t, err)
	})

	t.Run("dynamodb", func(t *testing.T) {
		s, err := NewFromConfig(ctx, Config{Backend: "dynamodb", TableName: "T"}, aws.Config{Region: "us-west-2"}, logger)
		require.NoError(t, err)
		assert.Equal(t, "dynamodb:T", s.Name())
	})

	t.Run("postgres without URL", func(t *testing.T) {
		_, err := NewFromConfig(ctx, Config{Backend: "postgres"}, aws.Config{}, logger)
		assert.Error(t, err)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := NewFromConfig(ctx, Config{Backend: "cassandra"}, aws.Config{}, logger)
		assert.ErrorContains(t, err, "unknown store backend")
	})
}
