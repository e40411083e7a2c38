package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func useTempStore(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", "test")
	t.Setenv("DATABASE_URL", "sqlite://"+filepath.Join(t.TempDir(), "hustlectl.db"))
	t.Setenv("SECRET_KEY", "cli-test-secret-key-at-least-32-bytes")
}

func TestSeedFixtureCommand(t *testing.T) {
	useTempStore(t)

	out, err := run(t, "seed", "--fixture")
	require.NoError(t, err, out)
	assert.Contains(t, out, "seeded 4 users, 4 opportunities, 3 applications, 3 posts")

	_, err = run(t, "seed", "--fixture")
	assert.Error(t, err)

	out, err = run(t, "seed", "--fixture", "--clean")
	require.NoError(t, err, out)
	assert.Contains(t, out, "seeded 4 users")
}

func TestSeedRandomCommand(t *testing.T) {
	useTempStore(t)

	out, err := run(t, "seed", "--users", "5", "--opportunities", "2", "--posts", "3", "--seed", "11")
	require.NoError(t, err, out)
	assert.Contains(t, out, "seeded 5 users, 2 opportunities")
}

func TestSeedFlagConflicts(t *testing.T) {
	useTempStore(t)

	_, err := run(t, "seed", "--fixture", "--users", "3")
	assert.Error(t, err)
}

func TestMigrateStatusOnSQLite(t *testing.T) {
	useTempStore(t)

	out, err := run(t, "migrate", "status")
	require.NoError(t, err, out)
	assert.Contains(t, out, "run_sql=false run_auto=true")
}

func TestMigrateDownNeedsNumericVersion(t *testing.T) {
	useTempStore(t)

	_, err := run(t, "migrate", "down", "latest")
	assert.ErrorContains(t, err, `invalid version "latest"`)

	_, err = run(t, "migrate", "down")
	assert.Error(t, err)
}
