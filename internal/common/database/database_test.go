package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"travelbot/internal/common/config"
	apperrors "travelbot/internal/common/errors"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type warnCounter struct{ n int }

func (w *warnCounter) Warn(msg string, fields map[string]interface{}) { w.n++ }

func TestConnectWithRetry_EventuallySucceeds(t *testing.T) {
	attempts := 0
	log := &warnCounter{}

	err := ConnectWithRetry(context.Background(), "redis connection", 5, time.Millisecond, log, func(context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("connection refused")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, 2, log.n)
}

func TestConnectWithRetry_GivesUp(t *testing.T) {
	err := ConnectWithRetry(context.Background(), "postgres connection", 2, time.Millisecond, &warnCounter{}, func(context.Context) error {
		return errors.New("no route to host")
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeDatabaseConnectionFailed), "got %v", err)
	assert.Contains(t, err.Error(), "after 2 attempts")
	assert.Contains(t, err.Error(), "no route to host")
}

func TestConnectWithRetry_StopsOnContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ConnectWithRetry(ctx, "elasticsearch connection", 5, time.Second, &warnCounter{}, func(context.Context) error {
		return errors.New("down")
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewRedis_PingsMiniredis(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	defer client.Close()

	assert.NoError(t, client.Ping(context.Background()))
}

func TestNewRedis_RequiresAddress(t *testing.T) {
	_, err := NewRedis(config.RedisConfig{})
	assert.Error(t, err)
}

func TestNewElasticsearch_UsesURLFallback(t *testing.T) {
	client, err := NewElasticsearch(config.ElasticsearchConfig{URL: "http://localhost:9200"})
	require.NoError(t, err)
	assert.NotNil(t, client.Client)
}
