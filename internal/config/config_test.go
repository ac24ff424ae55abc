package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/drift-issues/internal/domain"
)

func envMap(m map[string]string) func(string) string {
	return func(key string) string { return m[key] }
}

func TestLoad(t *testing.T) {
	now := time.Date(2025, 1, 31, 9, 0, 0, 0, time.Local)

	cfg, err := Load(envMap(map[string]string{
		EnvToken: "secret",
		EnvURL:   "https://github.com/acme/infra.git",
	}), now, domain.DefaultWindowDays)

	require.NoError(t, err)
	assert.Equal(t, "secret", cfg.Token)
	assert.Equal(t, domain.KindRepository, cfg.Target.Kind)
	assert.Equal(t, "acme/infra", cfg.Target.Path)
	assert.Equal(t, "2025-01-01", cfg.Window.StartString())
	assert.Equal(t, "2025-01-31", cfg.Window.EndString())
}

func TestLoad_Errors(t *testing.T) {
	now := time.Now()
	testCases := []struct {
		name            string
		env             map[string]string
		days            int
		expectedMissing []string
		expectedErr     error
	}{
		{
			name:            "both missing",
			env:             map[string]string{},
			days:            30,
			expectedMissing: []string{EnvToken, EnvURL},
		},
		{
			name:            "token missing",
			env:             map[string]string{EnvURL: "https://github.com/acme"},
			days:            30,
			expectedMissing: []string{EnvToken},
		},
		{
			name:            "blank url counts as missing",
			env:             map[string]string{EnvToken: "x", EnvURL: "  "},
			days:            30,
			expectedMissing: []string{EnvURL},
		},
		{
			name:        "invalid url",
			env:         map[string]string{EnvToken: "x", EnvURL: "https://github.com/"},
			days:        30,
			expectedErr: domain.ErrInvalidURL,
		},
		{
			name: "negative window",
			env:  map[string]string{EnvToken: "x", EnvURL: "https://github.com/acme"},
			days: -2,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Load(envMap(tc.env), now, tc.days)
			require.Error(t, err)
			assert.Nil(t, cfg)
			if tc.expectedMissing != nil {
				var missingErr *MissingEnvError
				require.ErrorAs(t, err, &missingErr)
				assert.Equal(t, tc.expectedMissing, missingErr.Names)
			}
			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
			}
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()

	assert.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")))

	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("DRIFT_TEST_FROM_FILE=file\nDRIFT_TEST_PRESET=file\n"), 0o600))
	t.Setenv("DRIFT_TEST_PRESET", "env")
	t.Setenv("DRIFT_TEST_FROM_FILE", "")
	require.NoError(t, os.Unsetenv("DRIFT_TEST_FROM_FILE"))

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "file", os.Getenv("DRIFT_TEST_FROM_FILE"))
	assert.Equal(t, "env", os.Getenv("DRIFT_TEST_PRESET"))
}
