package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefault_MatchesDocumentedDefaults(t *testing.T) {
	d := Default()
	assert.Equal(t, 30000, d.TimeoutMS)
	assert.Equal(t, 1000, d.MaxResults)
	assert.True(t, d.ValidateQuery)
	assert.True(t, d.CacheEnabled)
	assert.Equal(t, 1000, d.CacheMaxEntries)
	assert.Equal(t, 300000, d.CacheTTLMS)
	assert.Equal(t, 3, d.RetryAttempts)
	assert.Equal(t, 1000, d.RetryDelayMS)
	assert.False(t, d.Debug)
}

func TestValidate_RejectsMissingEndpoints(t *testing.T) {
	cfg := Default()
	result := Validate(cfg)
	assert.False(t, result.Valid())
}

func TestValidate_AcceptsCompleteConfig(t *testing.T) {
	cfg := Default()
	cfg.QueryEndpointURL = "http://localhost:3030/ds/query"
	cfg.UpdateEndpointURL = "http://localhost:3030/ds/update"
	result := Validate(cfg)
	assert.True(t, result.Valid())
	assert.Empty(t, result.Errors)
}

func TestValidate_WarnsOnInconsistentCacheSettings(t *testing.T) {
	cfg := Default()
	cfg.QueryEndpointURL = "http://localhost:3030/ds/query"
	cfg.UpdateEndpointURL = "http://localhost:3030/ds/update"
	cfg.CacheEnabled = false
	result := Validate(cfg)
	assert.True(t, result.Valid())
	assert.NotEmpty(t, result.Warnings)
}

func TestValidate_RejectsNonPositiveTimeout(t *testing.T) {
	cfg := Default()
	cfg.QueryEndpointURL = "http://localhost:3030/ds/query"
	cfg.UpdateEndpointURL = "http://localhost:3030/ds/update"
	cfg.TimeoutMS = 0
	result := Validate(cfg)
	assert.False(t, result.Valid())
}
