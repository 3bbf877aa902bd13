package dto

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/trebol-admin/internal/domain"
)

// ClientInput body para crear/editar clientes (clients/).
type ClientInput struct {
	CI       string `json:"ci"`
	Nombre   string `json:"nombre"`
	Apellido string `json:"apellido"`
	Telefono string `json:"telefono"`
}

// Validate campos requeridos. La unicidad de ci y telefono la verifica el backend.
func (in ClientInput) Validate() error {
	v := newFieldErrors()
	v.required("ci", in.CI, "La cédula es requerida")
	v.required("nombre", in.Nombre, "El nombre es requerido")
	v.required("apellido", in.Apellido, "El apellido es requerido")
	v.required("telefono", in.Telefono, "El teléfono es requerido")
	return v.err()
}

// ProductInput body para crear/editar productos (inventario/products/).
type ProductInput struct {
	Nombre             string          `json:"nombre"`
	Descripcion        string          `json:"descripcion"`
	Categoria          int             `json:"categoria"`
	Precio             decimal.Decimal `json:"precio"`
	CantidadDisponible int             `json:"cantidad_disponible"`
}

func (in ProductInput) Validate() error {
	v := newFieldErrors()
	v.required("nombre", in.Nombre, "El nombre es requerido")
	v.required("descripcion", in.Descripcion, "La descripción es requerida")
	if in.Categoria <= 0 {
		v.add("categoria", "La categoría es requerida")
	}
	if !in.Precio.IsPositive() {
		v.add("precio", "El precio debe ser mayor a 0")
	}
	if in.CantidadDisponible < 0 {
		v.add("cantidad_disponible", "La cantidad debe ser mayor o igual a 0")
	}
	return v.err()
}

// CategoryInput body para crear/editar categorías (inventario/categories/).
type CategoryInput struct {
	Nombre      string `json:"nombre"`
	Descripcion string `json:"descripcion"`
}

func (in CategoryInput) Validate() error {
	v := newFieldErrors()
	v.required("nombre", in.Nombre, "El nombre es requerido")
	return v.err()
}

type fieldErrors map[string][]string

func newFieldErrors() fieldErrors { return fieldErrors{} }

func (f fieldErrors) add(field, msg string) { f[field] = append(f[field], msg) }

func (f fieldErrors) required(field, value, msg string) {
	if strings.TrimSpace(value) == "" {
		f.add(field, msg)
	}
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return &domain.ValidationError{Fields: f}
}
