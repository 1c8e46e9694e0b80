package config

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":8080", c.EndpointAddr)
	assert.Equal(t, "secretKey", c.SecretKey)
	assert.Equal(t, 15*time.Minute, c.AccessTokenValidityDuration)
	assert.Equal(t, 24*time.Hour, c.RefreshTokenValidityDuration)
	assert.Equal(t, "listings", c.S3Bucket)
	assert.Contains(t, c.DatabaseDSN, "foodshare")
}

func TestJsonConfig_Unmarshal(t *testing.T) {
	data := []byte(`{
		"endpoint_addr": ":9090",
		"database_dsn": "postgres://u:p@h/db",
		"secret_key": "k",
		"access_token_validity_duration": "30m",
		"refresh_token_validity_duration": "48h",
		"s3_bucket": "photos"
	}`)

	var jc JsonConfig
	require.NoError(t, json.Unmarshal(data, &jc))

	assert.Equal(t, ":9090", jc.EndpointAddr)
	assert.Equal(t, 30*time.Minute, jc.AccessTokenValidityDuration.Duration)
	assert.Equal(t, 48*time.Hour, jc.RefreshTokenValidityDuration.Duration)
	assert.Equal(t, "photos", jc.S3Bucket)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	cfg := LoadConfig()
	require.NotNil(t, cfg)
	assert.Equal(t, ":8080", cfg.EndpointAddr)
}
