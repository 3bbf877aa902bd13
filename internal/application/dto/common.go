package dto

import (
	"net/url"
	"strconv"
)

// PageSize tamaño de página del backend (PAGE_SIZE de DRF).
const PageSize = 10

// ListQuery filtros de listado que acepta el backend.
type ListQuery struct {
	Page   int    `query:"page"`
	Search string `query:"search"`
}

// Values convierte el filtro en query string; omite valores vacíos.
func (q ListQuery) Values() url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	return v
}

// Page respuesta paginada de DRF ({count, next, previous, results}).
// Los endpoints sin paginación devuelven un arreglo y se normalizan a Page con Count = len(Results).
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// TotalPages páginas totales según PageSize (mínimo 1).
func (p *Page[T]) TotalPages() int {
	if p == nil || p.Count <= 0 {
		return 1
	}
	return (p.Count + PageSize - 1) / PageSize
}

// ErrorResponse cuerpo de error HTTP.
// Fields lleva los mensajes de validación por campo tal cual los envió el backend.
type ErrorResponse struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Fields  map[string][]string `json:"fields,omitempty"`
}

// ListResponse listado paginado para la UI.
type ListResponse[T any] struct {
	Page       int `json:"page"`
	TotalPages int `json:"total_pages"`
	Count      int `json:"count"`
	Results    []T `json:"results"`
}

// NewListResponse arma la respuesta de la página page a partir de la respuesta del backend.
func NewListResponse[T any](page int, p *Page[T]) ListResponse[T] {
	out := ListResponse[T]{Page: page, TotalPages: p.TotalPages(), Results: []T{}}
	if p != nil {
		out.Count = p.Count
		if p.Results != nil {
			out.Results = p.Results
		}
	}
	return out
}
