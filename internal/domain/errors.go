package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	// Sesión
	ErrInvalidCredentials = errors.New("usuario o contraseña incorrectos")
	ErrRefreshFailed      = errors.New("no se pudo renovar la sesión")
	ErrProfileFetchFailed = errors.New("no se pudo obtener el perfil del usuario")
	ErrNotAuthenticated   = errors.New("no estás autenticado, inicia sesión nuevamente")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")

	// Borrador de venta
	ErrInvalidQuantity   = errors.New("la cantidad debe ser mayor a 0")
	ErrInsufficientStock = errors.New("no hay suficiente stock")
	ErrNoClientSelected  = errors.New("debe seleccionar un cliente")
	ErrEmptyDraft        = errors.New("debe agregar al menos un producto a la venta")
	ErrSubmitInProgress  = errors.New("la venta se está registrando, espere la respuesta")

	// Genéricos
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrNetwork      = errors.New("error de red al contactar el servidor")
)

// StockError detalla un rechazo por stock; errors.Is(err, ErrInsufficientStock) es true.
type StockError struct {
	ProductID int
	Available int
	Requested int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("%s. Disponible: %d", ErrInsufficientStock.Error(), e.Available)
}

func (e *StockError) Unwrap() error { return ErrInsufficientStock }

// ValidationError errores de validación devueltos por el backend, por campo.
// Los mensajes se conservan tal cual los envía el servidor.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "errores de validación"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k+": "+strings.Join(e.Fields[k], ", "))
	}
	return "errores de validación:\n" + strings.Join(lines, "\n")
}

// Unwrap permite errors.Is(err, ErrInvalidInput).
func (e *ValidationError) Unwrap() error { return ErrInvalidInput }
