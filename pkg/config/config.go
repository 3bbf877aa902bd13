package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	API     APIConfig
	Session SessionConfig
	Redis   RedisConfig
	HTTP    HTTPConfig
	Receipt ReceiptConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
	DocsPath string // swagger.json servido en /docs
}

// APIConfig backend REST de la joyería.
type APIConfig struct {
	BaseURL string // termina en /api/
	Timeout time.Duration
}

// Tipos de almacenamiento del par de tokens.
const (
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

// SessionConfig persistencia y renovación de la sesión.
type SessionConfig struct {
	Store           string // file, redis, memory
	FilePath        string
	Key             string // única clave donde vive el par {access, refresh}
	RefreshInterval time.Duration
}

// RedisConfig conexión a Redis (solo si Session.Store == "redis").
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// ReceiptConfig datos de la tienda impresos en el comprobante.
type ReceiptConfig struct {
	StoreName    string
	StoreAddress string
	StorePhone   string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, API_BASE_URL, SESSION_STORE, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "trebol-admin"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
			DocsPath: getString(v, "DOCS_PATH", "./docs/swagger.json"),
		},
		API: APIConfig{
			BaseURL: getString(v, "API_BASE_URL", "http://127.0.0.1:8000/api/"),
			Timeout: time.Duration(getInt(v, "API_TIMEOUT_SECONDS", 15)) * time.Second,
		},
		Session: SessionConfig{
			Store:           strings.ToLower(getString(v, "SESSION_STORE", StoreFile)),
			FilePath:        getString(v, "SESSION_FILE_PATH", "./.trebol/session.json"),
			Key:             getString(v, "SESSION_KEY", "authTokens"),
			RefreshInterval: time.Duration(getInt(v, "SESSION_REFRESH_MINUTES", 4)) * time.Minute,
		},
		Redis: RedisConfig{
			Addr:     getString(v, "REDIS_ADDR", "localhost:6379"),
			Password: getString(v, "REDIS_PASSWORD", ""),
			DB:       getInt(v, "REDIS_DB", 0),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "127.0.0.1"),
			Port: getInt(v, "HTTP_PORT", 3000),
		},
		Receipt: ReceiptConfig{
			StoreName:    getString(v, "STORE_NAME", "Joyería Trébol"),
			StoreAddress: getString(v, "STORE_ADDRESS", ""),
			StorePhone:   getString(v, "STORE_PHONE", ""),
		},
	}

	if !strings.HasSuffix(cfg.API.BaseURL, "/") {
		cfg.API.BaseURL += "/"
	}
	switch cfg.Session.Store {
	case StoreFile, StoreRedis, StoreMemory:
	default:
		return nil, fmt.Errorf("config: SESSION_STORE inválido %q (file, redis o memory)", cfg.Session.Store)
	}
	if cfg.Session.RefreshInterval <= 0 {
		return nil, fmt.Errorf("config: SESSION_REFRESH_MINUTES debe ser mayor a 0")
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
