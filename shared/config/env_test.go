package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("EWM_TEST_STRING", "value")
	t.Setenv("EWM_TEST_INT", "42")
	t.Setenv("EWM_TEST_BAD_INT", "forty-two")
	t.Setenv("EWM_TEST_FLOAT", "2.5")
	t.Setenv("EWM_TEST_BOOL", "false")
	t.Setenv("EWM_TEST_DURATION", "45s")

	assert.Equal(t, "value", GetEnv("EWM_TEST_STRING", "fallback"))
	assert.Equal(t, "fallback", GetEnv("EWM_TEST_UNSET", "fallback"))
	assert.Equal(t, 42, GetEnvInt("EWM_TEST_INT", 1))
	assert.Equal(t, 1, GetEnvInt("EWM_TEST_BAD_INT", 1))
	assert.InDelta(t, 2.5, GetEnvFloat("EWM_TEST_FLOAT", 0), 0.001)
	assert.False(t, GetEnvBool("EWM_TEST_BOOL", true))
	assert.True(t, GetEnvBool("EWM_TEST_UNSET", true))
	assert.Equal(t, 45*time.Second, GetEnvDuration("EWM_TEST_DURATION", time.Second))
	assert.Equal(t, time.Second, GetEnvDuration("EWM_TEST_STRING", time.Second))
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(file, []byte("EWM_DOTENV_ONLY=from-file\nEWM_DOTENV_SET=from-file\n"), 0o600))

	t.Setenv("EWM_DOTENV_SET", "from-env")
	t.Cleanup(func() { _ = os.Unsetenv("EWM_DOTENV_ONLY") })

	require.NoError(t, LoadDotEnv(file))
	assert.Equal(t, "from-file", os.Getenv("EWM_DOTENV_ONLY"))
	assert.Equal(t, "from-env", os.Getenv("EWM_DOTENV_SET"), "real environment wins")

	assert.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")))
}

func TestGetEnvList(t *testing.T) {
	t.Setenv("EWM_TEST_LIST", " 10.0.0.1, 10.1.0.0/16,,")
	assert.Equal(t, []string{"10.0.0.1", "10.1.0.0/16"}, GetEnvList("EWM_TEST_LIST"))

	t.Setenv("EWM_TEST_LIST", "")
	assert.Nil(t, GetEnvList("EWM_TEST_LIST"))
}

func TestValidateProxies(t *testing.T) {
	assert.NoError(t, ValidateProxies(nil))
	assert.NoError(t, ValidateProxies([]string{"10.0.0.1", "::1", "172.16.0.0/12"}))
	assert.Error(t, ValidateProxies([]string{"proxy.local"}))
	assert.Error(t, ValidateProxies([]string{"10.0.0.0/40"}))
}
