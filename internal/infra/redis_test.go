package infra_test

import (
	"context"
	"testing"

	"github.com/wesglu/checkbox/internal/infra"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisConnects(t *testing.T) {
	mr := miniredis.RunT(t)

	rdb, err := infra.NewRedis("redis://" + mr.Addr())
	require.NoError(t, err)
	assert.NoError(t, rdb.Ping(context.Background()).Err())
}

func TestNewRedisRejectsBadURL(t *testing.T) {
	_, err := infra.NewRedis("localhost:6379")
	assert.Error(t, err)
}
