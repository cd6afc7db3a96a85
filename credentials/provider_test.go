package credentials_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tessellated-io/feeband-go/credentials"
)

func TestEnvProvider(t *testing.T) {
	env := map[string]string{}
	lookup := func(key string) (string, bool) {
		value, ok := env[key]
		return value, ok
	}
	provider := credentials.NewEnvProviderWithLookup("", lookup)

	_, err := provider.Token()
	require.ErrorIs(t, err, credentials.ErrMissingCredential)
	require.Contains(t, provider.Guidance(), "GITHUB_TOKEN")

	env["GITHUB_TOKEN"] = "   "
	_, err = provider.Token()
	require.ErrorIs(t, err, credentials.ErrMissingCredential)

	env["GITHUB_TOKEN"] = "ghp_secret\n"
	token, err := provider.Token()
	require.NoError(t, err)
	require.Equal(t, "ghp_secret", token)
}

func TestEnvProviderReadsEveryCall(t *testing.T) {
	t.Setenv("FEEBAND_TEST_TOKEN", "first")
	provider := credentials.NewEnvProvider("FEEBAND_TEST_TOKEN")

	token, err := provider.Token()
	require.NoError(t, err)
	require.Equal(t, "first", token)

	t.Setenv("FEEBAND_TEST_TOKEN", "second")
	token, err = provider.Token()
	require.NoError(t, err)
	require.Equal(t, "second", token)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(file, []byte("FEEBAND_DOTENV_TOKEN=from-file\nFEEBAND_DOTENV_KEEP=from-file\n"), 0o600))

	t.Setenv("FEEBAND_DOTENV_KEEP", "from-env")
	// Registers cleanup so the loaded variable does not leak into other tests.
	t.Setenv("FEEBAND_DOTENV_TOKEN", "")
	require.NoError(t, os.Unsetenv("FEEBAND_DOTENV_TOKEN"))

	loaded, err := credentials.LoadDotEnv(filepath.Join(dir, "missing.env"), file)
	require.NoError(t, err)
	require.Equal(t, []string{file}, loaded)

	require.Equal(t, "from-file", os.Getenv("FEEBAND_DOTENV_TOKEN"))
	require.Equal(t, "from-env", os.Getenv("FEEBAND_DOTENV_KEEP"))
}
