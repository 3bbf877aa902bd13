// Package menu define qué secciones del panel ve cada rol.
package menu

import (
	"slices"
	"strings"

	"github.com/jhoicas/trebol-admin/internal/domain/entity"
)

// Item entrada del menú lateral.
type Item struct {
	Name  string        `json:"name"`
	Path  string        `json:"path"`
	Roles []entity.Role `json:"-"`
}

var items = []Item{
	{Name: "Panel", Path: "/", Roles: []entity.Role{entity.RoleAdmin, entity.RoleVendedor, entity.RoleGerente, entity.RoleGuest}},
	{Name: "Clientes", Path: "/clientes", Roles: []entity.Role{entity.RoleAdmin, entity.RoleVendedor, entity.RoleGerente, entity.RoleGuest}},
	{Name: "Productos", Path: "/inventario/productos", Roles: []entity.Role{entity.RoleAdmin, entity.RoleGerente}},
	{Name: "Categorías", Path: "/inventario/categorias", Roles: []entity.Role{entity.RoleAdmin}},
	{Name: "Ventas", Path: "/ventas", Roles: []entity.Role{entity.RoleAdmin, entity.RoleVendedor, entity.RoleGerente, entity.RoleGuest}},
	{Name: "Reportes", Path: "/reportes", Roles: []entity.Role{entity.RoleAdmin, entity.RoleGerente, entity.RoleGuest}},
}

// VisibleFor devuelve, en orden, las entradas que el rol puede ver.
func VisibleFor(role entity.Role) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if slices.Contains(it.Roles, role) {
			out = append(out, it)
		}
	}
	return out
}

// Allows indica si el rol puede entrar a path. Una subruta hereda la sección más específica
// (ej: /inventario/productos/3 → Productos). Rutas fuera del menú no se restringen.
func Allows(role entity.Role, path string) bool {
	section, ok := sectionOf(path)
	if !ok {
		return true
	}
	return slices.Contains(section.Roles, role)
}

func sectionOf(path string) (Item, bool) {
	path = "/" + strings.Trim(path, "/")
	var best Item
	found := false
	for _, it := range items {
		if it.Path == "/" {
			if path == "/" {
				return it, true
			}
			continue
		}
		if path == it.Path || strings.HasPrefix(path, it.Path+"/") {
			if !found || len(it.Path) > len(best.Path) {
				best, found = it, true
			}
		}
	}
	return best, found
}
