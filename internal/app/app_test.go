package app

import (
	"context"
	"testing"

	"github.com/NguyenHai-LETI/Sync-Note/internal/dao"

	"github.com/creasty/defaults"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewApp_RequiresDependencies(t *testing.T) {
	_, err := NewApp(nil, zap.NewNop(), nil)
	assert.Error(t, err)

	cfg := &AppConfig{}
	_, err = NewApp(cfg, nil, nil)
	assert.Error(t, err)

	_, err = NewApp(cfg, zap.NewNop(), nil)
	assert.Error(t, err)
}

func TestNewApp_WiresAndShutsDownOnce(t *testing.T) {
	cfg := &AppConfig{}
	require.NoError(t, defaults.Set(cfg))
	cfg.Database.Path = ":memory:"

	lg := zap.NewNop()
	db, err := dao.NewDBEngineWithConfig(cfg.GetDatabaseConfig(), lg)
	require.NoError(t, err)

	a, err := NewApp(cfg, lg, db)
	require.NoError(t, err)

	assert.Same(t, cfg, a.Config())
	assert.NotNil(t, a.SyncService)
	assert.NotNil(t, a.Ownership)
	assert.Equal(t, Version, a.Version().Version)
	assert.Equal(t, cfg.App.WorkerPoolMaxWorkers, a.WorkerPool().GetMetrics().MaxWorkers)
	require.NoError(t, a.Ping(context.Background()))

	families, err := a.Registry.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)

	first := a.Shutdown(context.Background())
	assert.NoError(t, first)
	assert.Equal(t, first, a.Shutdown(context.Background()))
	assert.True(t, a.WriteQueueManager().Stats().Closed)
}
