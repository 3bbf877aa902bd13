package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/trebol-admin/internal/domain/entity"
	"github.com/jhoicas/trebol-admin/internal/infrastructure/storage"
)

func TestFileTokenStore_SinArchivoEsAnonimo(t *testing.T) {
	store := storage.NewFileTokenStore(filepath.Join(t.TempDir(), "session.json"))

	pair, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, pair)
}

func TestFileTokenStore_GuardarLeerBorrar(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store := storage.NewFileTokenStore(path)

	require.NoError(t, store.Save(ctx, entity.TokenPair{Access: "a1", Refresh: "r1"}))
	require.NoError(t, store.Save(ctx, entity.TokenPair{Access: "a2", Refresh: "r2"}))

	pair, err := store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, pair)
	assert.Equal(t, "a2", pair.Access)
	assert.Equal(t, "r2", pair.Refresh)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"access":"a2","refresh":"r2"}`, string(raw))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no deben quedar temporales")

	require.NoError(t, store.Clear(ctx))
	require.NoError(t, store.Clear(ctx), "borrar dos veces no es error")
	pair, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, pair)
}

func TestFileTokenStore_ArchivoCorrupto(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{no-json"), 0o600))

	_, err := storage.NewFileTokenStore(path).Load(context.Background())
	assert.Error(t, err)
}

func TestMemoryTokenStore_CopiaDefensiva(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryTokenStore(&entity.TokenPair{Access: "a", Refresh: "r"})

	pair, err := store.Load(ctx)
	require.NoError(t, err)
	pair.Access = "mutado"

	again, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", again.Access)
	assert.Equal(t, 0, store.Writes())
}
