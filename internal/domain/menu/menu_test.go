package menu_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/trebol-admin/internal/domain/entity"
	"github.com/jhoicas/trebol-admin/internal/domain/menu"
)

func paths(items []menu.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Path)
	}
	return out
}

func TestVisibleFor(t *testing.T) {
	assert.Equal(t,
		[]string{"/", "/clientes", "/inventario/productos", "/inventario/categorias", "/ventas", "/reportes"},
		paths(menu.VisibleFor(entity.RoleAdmin)))
	assert.Equal(t,
		[]string{"/", "/clientes", "/inventario/productos", "/ventas", "/reportes"},
		paths(menu.VisibleFor(entity.RoleGerente)))
	assert.Equal(t,
		[]string{"/", "/clientes", "/ventas"},
		paths(menu.VisibleFor(entity.RoleVendedor)))
	assert.Equal(t,
		[]string{"/", "/clientes", "/ventas", "/reportes"},
		paths(menu.VisibleFor(entity.RoleGuest)))
}

func TestAllows(t *testing.T) {
	cases := []struct {
		role entity.Role
		path string
		want bool
	}{
		{entity.RoleVendedor, "/ventas", true},
		{entity.RoleVendedor, "/ventas/12", true},
		{entity.RoleVendedor, "/inventario/productos", false},
		{entity.RoleVendedor, "/inventario/productos/3", false},
		{entity.RoleVendedor, "/reportes/agotados", false},
		{entity.RoleGerente, "/inventario/categorias", false},
		{entity.RoleAdmin, "/inventario/categorias/", true},
		{entity.RoleVendedor, "/", true},
		{entity.RoleVendedor, "/session", true},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, menu.Allows(c.role, c.path), "%s %s", c.role, c.path)
	}
}
