package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/trebol-admin/internal/application/session"
	"github.com/jhoicas/trebol-admin/internal/domain/entity"
	apphttp "github.com/jhoicas/trebol-admin/internal/interfaces/http"
)

// buildMiddlewareApp aplicación Fiber mínima con:
//   - RequireSession para exigir una sesión resuelta
//   - RequireRoute para autorizar la sección según el menú
//   - Un handler dummy que devuelve 200 y el rol si pasa los middlewares
func buildMiddlewareApp(s apphttp.SessionState, section string) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.RequireSession(s),
		apphttp.RequireRoute(section),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"ok": true, "role": apphttp.GetRole(c)})
		},
	)
	return app
}

func get(t *testing.T, app *fiber.App) *http.Response {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/protected", nil), -1)
	require.NoError(t, err)
	return resp
}

// Caso 1: sesión todavía resolviéndose → 503 con Retry-After.
func TestRequireSession_Resolviendo(t *testing.T) {
	s := &fakeSession{loading: true, state: session.StateResolving}

	resp := get(t, buildMiddlewareApp(s, "/clientes"))

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "1", resp.Header.Get("Retry-After"))
}

// Caso 2: sin sesión → 401.
func TestRequireSession_SinSesion(t *testing.T) {
	s := &fakeSession{state: session.StateAnonymous}

	resp := get(t, buildMiddlewareApp(s, "/clientes"))

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// Caso 3: renovando el par → la sesión sigue siendo válida.
func TestRequireSession_RenovandoPasa(t *testing.T) {
	s := &fakeSession{}
	s.signIn(entity.RoleAdmin)
	s.state = session.StateRefreshing

	resp := get(t, buildMiddlewareApp(s, "/inventario/categorias"))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// Caso 4: el rol no ve la sección → 403; las subrutas heredan la sección.
func TestRequireRoute_VendedorSinProductos(t *testing.T) {
	s := &fakeSession{}
	s.signIn(entity.RoleVendedor)

	assert.Equal(t, http.StatusForbidden, get(t, buildMiddlewareApp(s, "/inventario/productos/3")).StatusCode)
	assert.Equal(t, http.StatusOK, get(t, buildMiddlewareApp(s, "/ventas/nueva")).StatusCode)
}

// Caso 5: GetRole sin RequireSession → guest.
func TestGetRole_SinSesionEsGuest(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString(string(apphttp.GetRole(c))) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)

	require.NoError(t, err)
	defer resp.Body.Close()
	buf := make([]byte, 16)
	n, _ := resp.Body.Read(buf)
	assert.Equal(t, "guest", string(buf[:n]))
}
