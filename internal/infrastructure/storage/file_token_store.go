// Package storage implementa el puerto TokenStore sobre archivo local y memoria.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jhoicas/trebol-admin/internal/domain/entity"
	"github.com/jhoicas/trebol-admin/internal/domain/repository"
)

var _ repository.TokenStore = (*FileTokenStore)(nil)

// FileTokenStore guarda el par de tokens como JSON en un archivo con permisos 0600.
// Las escrituras van a un temporal que luego se renombra: el archivo nunca queda a medio escribir.
type FileTokenStore struct {
	path string
}

// NewFileTokenStore construye el store; el directorio se crea en la primera escritura.
func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

// Load lee el par persistido. Un archivo ausente significa sesión anónima.
func (s *FileTokenStore) Load(_ context.Context) (*entity.TokenPair, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: leer sesión: %w", err)
	}
	var pair entity.TokenPair
	if err := json.Unmarshal(raw, &pair); err != nil {
		return nil, fmt.Errorf("storage: sesión corrupta: %w", err)
	}
	if !pair.Valid() {
		return nil, nil
	}
	return &pair, nil
}

// Save reemplaza el par completo.
func (s *FileTokenStore) Save(_ context.Context, pair entity.TokenPair) error {
	raw, err := json.Marshal(pair)
	if err != nil {
		return fmt.Errorf("storage: serializar sesión: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("storage: crear directorio: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".session-*.tmp")
	if err != nil {
		return fmt.Errorf("storage: archivo temporal: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("storage: escribir sesión: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("storage: permisos: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: cerrar temporal: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("storage: reemplazar sesión: %w", err)
	}
	return nil
}

// Clear elimina el archivo; no falla si ya no existe.
func (s *FileTokenStore) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage: borrar sesión: %w", err)
	}
	return nil
}
