package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_FileAndEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "JWT_SECRET=file-secret\nPORT=9000\nCODE_LENGTH=8\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("JWT_SECRET", "")
	t.Setenv("CODE_LENGTH", "")
	t.Setenv("PORT", "9100")

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "file-secret", config.JWT.Secret)
	assert.Equal(t, "9100", config.App.Port)
	assert.Equal(t, 8, config.Code.Length)
	assert.Equal(t, "@hourly", config.Jobs.CleanupCron)
	assert.Equal(t, int32(10), config.Database.MaxConns)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.env")

	t.Setenv("JWT_SECRET", "")
	_, err := LoadConfig(missing)
	assert.EqualError(t, err, "JWT_SECRET is required")

	t.Setenv("JWT_SECRET", "env-secret")
	config, err := LoadConfig(missing)
	require.NoError(t, err)
	assert.Equal(t, "env-secret", config.JWT.Secret)
}
