package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: "9090"
database:
  host: db.internal
  dbname: governance
redis:
  enabled: true
  addr: redis:6379
governance:
  min_proposal_points: 250
  authority_address: "11111111111111111111111111111111"
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.Mode)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "governance", cfg.Database.DBName)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, "umanity.governance", cfg.Redis.Stream)

	assert.Equal(t, int64(250), cfg.Governance.MinProposalPoints)
	assert.Equal(t, 72, cfg.Governance.DefaultDurationHours)
	assert.Equal(t, 72, cfg.Governance.FundReleaseDurationHours)
	assert.Equal(t, int64(1000), cfg.Governance.PointsPerSol)
	assert.Equal(t, "11111111111111111111111111111111", cfg.Governance.AuthorityAddress)

	assert.Equal(t, 60, cfg.Task.Interval)
	assert.Equal(t, 16, cfg.Worker.PoolSize)
	assert.Equal(t, "debug", cfg.Log.GetLevel())
	assert.Equal(t, "stdout", cfg.Log.GetOutput())
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadFileEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: \"9090\"\n"), 0o600))
	t.Setenv("SERVER_PORT", "7070")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Server.Port)
}
