// Package redis guarda el par de tokens en Redis para despliegues donde varias instancias
// del panel comparten la misma sesión de operador.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/trebol-admin/internal/domain/entity"
	"github.com/jhoicas/trebol-admin/internal/domain/repository"
	"github.com/jhoicas/trebol-admin/pkg/config"
	"github.com/jhoicas/trebol-admin/pkg/logger"
)

var _ repository.TokenStore = (*TokenStore)(nil)

// TokenStore implementa repository.TokenStore con una única clave string (SET/GET/DEL).
type TokenStore struct {
	client goredis.UniversalClient
	key    string
}

// NewClient conecta a Redis. Si el PING falla solo se registra: el store reintentará en cada operación.
func NewClient(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) *goredis.Client {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Str("addr", cfg.Addr).Msg("no se pudo contactar a redis")
	} else {
		log.Info().Str("addr", cfg.Addr).Msg("conectado a redis")
	}
	return client
}

// NewTokenStore construye el store sobre un cliente existente.
func NewTokenStore(client goredis.UniversalClient, key string) *TokenStore {
	return &TokenStore{client: client, key: key}
}

func (s *TokenStore) Load(ctx context.Context) (*entity.TokenPair, error) {
	raw, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis: leer sesión: %w", err)
	}
	var pair entity.TokenPair
	if err := json.Unmarshal(raw, &pair); err != nil {
		return nil, fmt.Errorf("redis: sesión corrupta: %w", err)
	}
	if !pair.Valid() {
		return nil, nil
	}
	return &pair, nil
}

// Save reemplaza el par sin expiración: la vida del token la controla el backend.
func (s *TokenStore) Save(ctx context.Context, pair entity.TokenPair) error {
	raw, err := json.Marshal(pair)
	if err != nil {
		return fmt.Errorf("redis: serializar sesión: %w", err)
	}
	if err := s.client.Set(ctx, s.key, raw, 0).Err(); err != nil {
		return fmt.Errorf("redis: guardar sesión: %w", err)
	}
	return nil
}

func (s *TokenStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redis: borrar sesión: %w", err)
	}
	return nil
}
