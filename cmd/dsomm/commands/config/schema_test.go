package config

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/dsomm/pkg/config"
)

func TestGenerateSchemaUsesYAMLNames(t *testing.T) {
	out, err := generateSchema()
	require.NoError(t, err)

	var schema struct {
		Title      string                     `json:"title"`
		Properties map[string]json.RawMessage `json:"properties"`
	}
	require.NoError(t, json.Unmarshal(out, &schema))

	assert.Equal(t, "dsomm Configuration", schema.Title)
	for _, key := range []string{"logging", "database", "api", "data", "shutdown_timeout"} {
		assert.Contains(t, schema.Properties, key)
	}
}

func TestRedactSecrets(t *testing.T) {
	cfg := config.GetDefaultConfig()
	cfg.API.JWT.Secret = "0123456789abcdef0123456789abcdef"
	cfg.Data.S3.SecretKey = "s3cret"

	redactSecrets(cfg)

	assert.Equal(t, redacted, cfg.API.JWT.Secret)
	assert.Equal(t, redacted, cfg.Data.S3.SecretKey)
	assert.Empty(t, cfg.Database.Postgres.Password, "empty secrets stay empty")
}
