package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStrings(t *testing.T) {
	cfg := Config{Host: "db", User: "bot", Password: "p@ss", Name: "courses"}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "user=bot password=p@ss host=db port=5432 dbname=courses sslmode=disable", cfg.DSN())
	assert.Equal(t, "postgres://bot:p%40ss@db:5432/courses?sslmode=disable", cfg.URL())
}

func TestConfigValidate(t *testing.T) {
	assert.Error(t, Config{}.Validate())
	assert.Error(t, Config{Host: "db"}.Validate())
	assert.Error(t, Config{Host: "db", Name: "x"}.Validate())
}

func TestEmbeddedMigrations(t *testing.T) {
	assert.Equal(t, []uint64{1, 2, 3}, migrationVersions())
	assert.Equal(t, 2, countBetween(migrationVersions(), 1, 3))
	assert.Equal(t, 0, countBetween(migrationVersions(), 3, 3))
}
