package bootstrap

import (
	"path/filepath"
	"testing"

	"shiftswap/internal/cache"
	"shiftswap/internal/config"
	"shiftswap/internal/database"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sqliteConfig(t *testing.T) *config.Config {
	return &config.Config{
		Env:          "test",
		DBDriver:     database.DriverSQLite,
		DBSQLitePath: filepath.Join(t.TempDir(), "shiftswap.db"),
	}
}

func TestInitRuntime_AppliesSchema(t *testing.T) {
	cfg := sqliteConfig(t)

	db, rdb, err := InitRuntime(cfg, Options{ApplySchema: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	assert.Nil(t, rdb)
	for _, table := range []string{"users", "shifts", "shift_requests", "shift_history"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestInitRuntime_WithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := sqliteConfig(t)
	cfg.RedisURL = "redis://" + mr.Addr()
	t.Cleanup(func() { cache.SetClient(nil) })

	db, rdb, err := InitRuntime(cfg, Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	require.NotNil(t, rdb)
	assert.Same(t, rdb, cache.GetClient())
	_ = rdb.Close()
}

func TestInitRuntime_SkipRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := sqliteConfig(t)
	cfg.RedisURL = "redis://" + mr.Addr()

	db, rdb, err := InitRuntime(cfg, Options{SkipRedis: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	assert.Nil(t, rdb)
}

func TestInitRuntime_BadDriver(t *testing.T) {
	_, _, err := InitRuntime(&config.Config{DBDriver: "mysql"}, Options{})
	assert.Error(t, err)
}
