package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pullscout.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	config, err := Load(writeConfigFile(t, ""))
	require.NoError(t, err)

	assert.Equal(t, "openai", config.AI.Provider)
	assert.Equal(t, "gpt-4o-mini", config.AI.Model)
	assert.Equal(t, 0.2, config.AI.Temperature)
	assert.Equal(t, 700, config.AI.MaxTokens)
	assert.Equal(t, 20, config.Review.BatchSize)
	assert.Equal(t, time.Second, config.Review.BatchInterval)
	assert.Equal(t, "info", config.Log.Level)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
[github]
token = "file-token"

[ai]
provider = "claude"
api_key = "sk-file"
model = "claude-sonnet"

[review]
exclude = ["**/*.min.js", "vendor/**"]
batch_size = 10
batch_interval = "2s"
`)

	config, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "file-token", config.GitHub.Token)
	assert.Equal(t, "claude", config.AI.Provider)
	assert.Equal(t, "claude-sonnet", config.AI.Model)
	assert.Equal(t, []string{"**/*.min.js", "vendor/**"}, config.Review.Exclude)
	assert.Equal(t, 10, config.Review.BatchSize)
	assert.Equal(t, 2*time.Second, config.Review.BatchInterval)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("PULLSCOUT_AI_API_KEY", "sk-env")
	t.Setenv("PULLSCOUT_AI_MODEL", "gpt-4o")
	t.Setenv("PULLSCOUT_LOG_LEVEL", "debug")

	path := writeConfigFile(t, `
[ai]
api_key = "sk-file"
model = "gpt-4o-mini"
`)

	config, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "sk-env", config.AI.APIKey)
	assert.Equal(t, "gpt-4o", config.AI.Model)
	assert.Equal(t, "debug", config.Log.Level)
}

func TestLoad_GitHubTokenFromEnv(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "ghs_runner")

	config, err := Load(writeConfigFile(t, ""))
	require.NoError(t, err)
	assert.Equal(t, "ghs_runner", config.GitHub.Token)
}

func TestLoad_MissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		config := &Config{}
		config.GitHub.Token = "token"
		config.AI.Provider = "openai"
		config.AI.APIKey = "sk-test"
		config.AI.Model = "gpt-4o-mini"
		config.Review.BatchSize = 20
		return config
	}

	assert.NoError(t, Validate(valid()))

	noToken := valid()
	noToken.GitHub.Token = ""
	assert.Error(t, Validate(noToken))

	noModel := valid()
	noModel.AI.Model = ""
	assert.Error(t, Validate(noModel))

	noKey := valid()
	noKey.AI.APIKey = ""
	assert.Error(t, Validate(noKey))

	ollamaNoKey := valid()
	ollamaNoKey.AI.Provider = "ollama"
	ollamaNoKey.AI.APIKey = ""
	assert.NoError(t, Validate(ollamaNoKey), "ollama does not need an api key")

	badBatch := valid()
	badBatch.Review.BatchSize = 0
	assert.Error(t, Validate(badBatch))
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pullscout.toml")

	require.NoError(t, Init(path))

	config, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "openai", config.AI.Provider)
	assert.Equal(t, []string{"**/*.lock", "vendor/**"}, config.Review.Exclude)

	assert.Error(t, Init(path), "must not overwrite an existing file")
}
