package repository

import (
	"context"

	"github.com/jhoicas/trebol-admin/internal/domain/entity"
)

// TokenStore define el puerto de persistencia del par de tokens (DIP).
// Guarda un único valor serializado bajo una sola clave: cada escritura reemplaza el par completo.
type TokenStore interface {
	// Load devuelve nil, nil si no hay sesión persistida.
	Load(ctx context.Context) (*entity.TokenPair, error)
	Save(ctx context.Context, pair entity.TokenPair) error
	Clear(ctx context.Context) error
}
