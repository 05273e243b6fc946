package config

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"basketminer/pattern"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	dir, err := ioutil.TempDir("", "basketminer-config")
	require.Nil(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	path := filepath.Join(dir, "config.yaml")
	require.Nil(t, ioutil.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	conf, err := Load("", nil)
	require.Nil(t, err)
	assert.Equal(t, DefaultConfiguration, *conf)
	assert.Nil(t, conf.Validate())
}

func TestLoadPrecedence(t *testing.T) {
	path := writeConfigFile(t, `
env: staging
algorithm: apriori
min_support: 0.2
port: 9000
`)
	t.Setenv("BASKETMINER_MIN_SUPPORT", "0.25")
	t.Setenv("BASKETMINER_MAX_RULES", "10")

	conf, err := Load(path, &Configuration{Port: 9100})
	require.Nil(t, err)
	assert.Equal(t, STAGING, conf.Env)
	assert.Equal(t, "apriori", conf.Algorithm)
	assert.Equal(t, 0.25, conf.MinSupport)
	assert.Equal(t, 10, conf.MaxRules)
	assert.Equal(t, 9100, conf.Port)
	// untouched fields fall back to defaults
	assert.Equal(t, DefaultConfiguration.MinConfidence, conf.MinConfidence)
	assert.Equal(t, DefaultConfiguration.ResultCacheSize, conf.ResultCacheSize)
	assert.Equal(t, DefaultConfiguration.MaxItemsetSize, conf.MaxItemsetSize)

	params := conf.MiningParams()
	assert.Equal(t, pattern.AlgorithmApriori, params.Algorithm)
	assert.Equal(t, 0.25, params.MinSupport)
	// the http ceiling is applied by the handlers, not by default
	assert.Equal(t, 0, params.MaxLength)
}

func TestLoadRejectsBadFiles(t *testing.T) {
	_, err := Load("/nonexistent/basketminer.yaml", nil)
	assert.NotNil(t, err)

	path := writeConfigFile(t, "min_suport: 0.2\n")
	_, err = Load(path, nil)
	assert.NotNil(t, err)

	t.Setenv("BASKETMINER_PORT", "eighty")
	_, err = Load("", nil)
	assert.NotNil(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Configuration)
	}{
		{"env", func(c *Configuration) { c.Env = "qa" }},
		{"algorithm", func(c *Configuration) { c.Algorithm = "eclat" }},
		{"support", func(c *Configuration) { c.MinSupport = 1.5 }},
		{"confidence", func(c *Configuration) { c.MinConfidence = -0.1 }},
		{"cache", func(c *Configuration) { c.ResultCacheSize = 0 }},
		{"rules", func(c *Configuration) { c.MaxRules = -1 }},
		{"itemset size", func(c *Configuration) { c.MaxItemsetSize = -1 }},
		{"transactions", func(c *Configuration) { c.MaxTransactions = -5 }},
		{"basket size", func(c *Configuration) { c.MaxBasketSize = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := DefaultConfiguration
			tt.modify(&conf)
			assert.NotNil(t, conf.Validate())
		})
	}
}

func TestInitConf(t *testing.T) {
	assert.NotNil(t, InitConf(nil))

	withBadDSN := DefaultConfiguration
	withBadDSN.SentryDSN = "not-a-dsn"
	assert.NotNil(t, InitConf(&withBadDSN))
	assert.NotSame(t, &withBadDSN, GetConfig())

	conf := DefaultConfiguration
	require.Nil(t, InitConf(&conf))
	assert.Equal(t, &conf, GetConfig())
	assert.True(t, IsDevelopment())
}
