package vars

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":8081", cfg.Server.Addr)
	assert.Equal(t, MODE_HTTP, cfg.Generator.Mode)
	assert.Equal(t, 120*time.Second, cfg.Generator.Timeout)
	assert.Equal(t, DRIVER_SQLITE, cfg.DB.Driver)
	assert.Equal(t, 168*time.Hour, cfg.CallLog.Retention)
	assert.Equal(t, []string{"http://localhost:9200"}, cfg.ES.Addresses)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := `
server:
  addr: ":9000"
generator:
  mode: llm
llm:
  provider: openai
  model: gpt-4o-mini
  api_key: from-file
db:
  driver: postgres
  host: db.internal
  name: lex
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lexassist.yaml"), []byte(yaml), 0o600))
	t.Setenv("LEX_LLM_API_KEY", "from-env")
	t.Setenv("LEX_GENERATOR_TIMEOUT", "5s")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, MODE_LLM, cfg.Generator.Mode)
	assert.Equal(t, "from-env", cfg.LLM.APIKey)
	assert.Equal(t, 5*time.Second, cfg.Generator.Timeout)
	assert.Equal(t, "host=db.internal user=root password= dbname=lex port=5432 sslmode=disable", cfg.DB.DSN())
	assert.NoError(t, cfg.Validate())
}

func TestLoadInvalidFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lexassist.yaml"), []byte("server: [unclosed"), 0o600))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := Load(t.TempDir())
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"empty addr", func(c *Config) { c.Server.Addr = "" }},
		{"bad addr", func(c *Config) { c.Server.Addr = "localhost" }},
		{"unknown generator mode", func(c *Config) { c.Generator.Mode = "grpc" }},
		{"http generator without endpoint", func(c *Config) { c.Generator.Endpoint = "" }},
		{"unknown translator mode", func(c *Config) { c.Translator.Mode = "deepl" }},
		{"openai without key", func(c *Config) { c.Generator.Mode = MODE_LLM; c.LLM.Provider = PROVIDER_OPENAI }},
		{"unknown provider", func(c *Config) { c.Translator.Mode = MODE_LLM; c.LLM.Provider = "bard" }},
		{"unknown driver", func(c *Config) { c.DB.Driver = "mysql" }},
		{"es without index", func(c *Config) { c.ES.Enabled = true; c.ES.Index = "" }},
		{"zero retention", func(c *Config) { c.CallLog.Retention = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
