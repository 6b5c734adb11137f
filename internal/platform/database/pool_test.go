package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peppolcheck/internal/platform/config"
)

func TestNewWithoutURLReturnsNilPool(t *testing.T) {
	pool, err := New(config.DatabaseConfig{})
	require.NoError(t, err)
	assert.Nil(t, pool)

	// nil pool methods are safe so main can defer Close unconditionally
	assert.Error(t, pool.Health(context.Background()))
	assert.NoError(t, pool.Close())
	assert.Zero(t, pool.Stats().OpenConnections)
}
