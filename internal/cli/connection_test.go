package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/municipales2026/importer/pkg/importer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveDatabaseURL_FromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(importer.EnvDatabaseURL, "postgresql://env/db")

	url, err := resolveDatabaseURL()
	require.NoError(t, err)
	assert.Equal(t, "postgresql://env/db", url)
}

func TestResolveDatabaseURL_Missing(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(importer.EnvDatabaseURL, "")
	os.Unsetenv(importer.EnvDatabaseURL)

	_, err := resolveDatabaseURL()
	require.Error(t, err)
	assert.ErrorIs(t, err, importer.ErrMissingDatabaseURL)
	assert.Contains(t, err.Error(), ".env.local.example")
}

func TestResolveDatabaseURL_EnvLocalWinsOverEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv(importer.EnvDatabaseURL, "")
	os.Unsetenv(importer.EnvDatabaseURL)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DATABASE_URL=postgresql://shared/db\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.local"), []byte("DATABASE_URL=postgresql://local/db\n"), 0644))

	url, err := resolveDatabaseURL()
	require.NoError(t, err)
	assert.Equal(t, "postgresql://local/db", url)
}

func TestResolveDatabaseURL_EnvironmentWinsOverFiles(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv(importer.EnvDatabaseURL, "postgresql://env/db")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.local"), []byte("DATABASE_URL=postgresql://local/db\n"), 0644))

	url, err := resolveDatabaseURL()
	require.NoError(t, err)
	assert.Equal(t, "postgresql://env/db", url)
}

func TestResolveDatabaseURL_OnlyDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv(importer.EnvDatabaseURL, "")
	os.Unsetenv(importer.EnvDatabaseURL)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DATABASE_URL=postgresql://shared/db\n"), 0644))

	url, err := resolveDatabaseURL()
	require.NoError(t, err)
	assert.Equal(t, "postgresql://shared/db", url)
}
