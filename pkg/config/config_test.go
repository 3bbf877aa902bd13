package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "http://127.0.0.1:8000/api/", cfg.API.BaseURL)
	assert.Equal(t, StoreFile, cfg.Session.Store)
	assert.Equal(t, "authTokens", cfg.Session.Key)
	assert.Equal(t, 4*time.Minute, cfg.Session.RefreshInterval)
	assert.Equal(t, "127.0.0.1:3000", cfg.HTTP.Addr())
	assert.Equal(t, "Joyería Trébol", cfg.Receipt.StoreName)
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("API_BASE_URL", "https://joyeria.example/api")
	v.Set("SESSION_STORE", "REDIS")
	v.Set("SESSION_REFRESH_MINUTES", "2")
	v.Set("REDIS_DB", "3")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "https://joyeria.example/api/", cfg.API.BaseURL, "la URL base siempre termina en /")
	assert.Equal(t, StoreRedis, cfg.Session.Store)
	assert.Equal(t, 2*time.Minute, cfg.Session.RefreshInterval)
	assert.Equal(t, 3, cfg.Redis.DB)
}

func TestFromViper_StoreInvalido(t *testing.T) {
	v := viper.New()
	v.Set("SESSION_STORE", "localstorage")

	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestFromViper_IntervaloInvalido(t *testing.T) {
	v := viper.New()
	v.Set("SESSION_REFRESH_MINUTES", "0")

	_, err := fromViper(v)
	assert.Error(t, err)
}
