// Package api implementa el cliente del backend REST de la joyería (/api/).
//
// Dos familias de llamadas:
//   - autenticación (token/, token/refresh/, auth/profile/): no usan la sesión ni reintentan.
//   - protegidas: firman con el access token del Authorizer y, ante un 401, renuevan la sesión
//     una sola vez y repiten la petición con el token nuevo.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/trebol-admin/internal/domain"
	"github.com/jhoicas/trebol-admin/pkg/logger"
)

// Authorizer provee el access token vigente y la renovación de la sesión.
// Lo implementa *session.Manager; el timer y el 401 comparten la misma Refresh.
type Authorizer interface {
	AccessToken() string
	Refresh(ctx context.Context) error
}

// Client cliente HTTP del backend. Es inmutable: WithAuthorizer devuelve una copia.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	log        *logger.Logger
	auth       Authorizer
}

// NewClient construye el cliente. baseURL debe apuntar a la raíz /api/.
func NewClient(baseURL string, timeout time.Duration, log *logger.Logger) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("api: URL base inválida: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("api: URL base sin esquema http(s): %q", baseURL)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: timeout},
		log:        log.Component("api"),
	}, nil
}

// WithAuthorizer devuelve una copia que firma las llamadas protegidas con a.
func (c *Client) WithAuthorizer(a Authorizer) *Client {
	cp := *c
	cp.auth = a
	return &cp
}

// request describe una llamada; el cuerpo se serializa una vez para poder repetirla.
type request struct {
	method string
	path   string
	query  url.Values
	body   []byte
	accept string
}

type response struct {
	status int
	header http.Header
	body   []byte
}

func newRequest(method, path string, query url.Values, in any) (request, error) {
	r := request{method: method, path: path, query: query, accept: "application/json"}
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return r, fmt.Errorf("api: serializar cuerpo: %w", err)
		}
		r.body = raw
	}
	return r, nil
}

// roundTrip ejecuta una sola petición HTTP. bearer vacío = sin Authorization.
func (c *Client) roundTrip(ctx context.Context, r request, bearer string) (*response, error) {
	ref, err := url.Parse(strings.TrimPrefix(r.path, "/"))
	if err != nil {
		return nil, fmt.Errorf("api: ruta inválida %q: %w", r.path, err)
	}
	target := c.baseURL.ResolveReference(ref)
	if len(r.query) > 0 {
		target.RawQuery = r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		body = bytes.NewReader(r.body)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("api: crear petición: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", r.accept)
	req.Header.Set("X-Request-ID", requestID)
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error().Err(err).
			Str("method", r.method).Str("path", r.path).Str("request_id", requestID).
			Msg("petición al backend fallida")
		return nil, fmt.Errorf("%w: %s %s: %w", domain.ErrNetwork, r.method, r.path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: leer respuesta: %w", domain.ErrNetwork, err)
	}
	c.log.Debug().
		Str("method", r.method).Str("path", r.path).Int("status", resp.StatusCode).
		Str("request_id", requestID).Dur("duration", time.Since(start)).
		Msg("backend")
	return &response{status: resp.StatusCode, header: resp.Header, body: raw}, nil
}

// send ejecuta una llamada protegida con la política de 401: renovar la sesión y reintentar
// exactamente una vez. Un segundo 401 se devuelve como ErrUnauthorized sin volver a renovar.
func (c *Client) send(ctx context.Context, r request) (*response, error) {
	if c.auth == nil {
		return nil, domain.ErrNotAuthenticated
	}
	token := c.auth.AccessToken()
	if token == "" {
		return nil, domain.ErrNotAuthenticated
	}

	resp, err := c.roundTrip(ctx, r, token)
	if err != nil {
		return nil, err
	}
	if resp.status != http.StatusUnauthorized {
		return resp, nil
	}

	c.log.Info().Str("path", r.path).Msg("401 recibido, renovando sesión")
	if err := c.auth.Refresh(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrNotAuthenticated, err)
	}
	token = c.auth.AccessToken()
	if token == "" {
		return nil, domain.ErrNotAuthenticated
	}

	resp, err = c.roundTrip(ctx, r, token)
	if err != nil {
		return nil, err
	}
	if resp.status == http.StatusUnauthorized {
		return nil, fmt.Errorf("%w: %s %s rechazada tras renovar la sesión", domain.ErrUnauthorized, r.method, r.path)
	}
	return resp, nil
}

// call ejecuta una llamada protegida y decodifica el JSON de respuesta en out (si no es nil).
func (c *Client) call(ctx context.Context, method, path string, query url.Values, in, out any) error {
	r, err := newRequest(method, path, query, in)
	if err != nil {
		return err
	}
	resp, err := c.send(ctx, r)
	if err != nil {
		return err
	}
	if err := c.checkStatus(r, resp); err != nil {
		return err
	}
	return decode(resp, out)
}

func decode(resp *response, out any) error {
	if out == nil || len(bytes.TrimSpace(resp.body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.body, out); err != nil {
		return fmt.Errorf("api: decodificar respuesta: %w", err)
	}
	return nil
}

// checkStatus traduce el código HTTP a errores de dominio.
func (c *Client) checkStatus(r request, resp *response) error {
	switch {
	case resp.status >= 200 && resp.status < 300:
		return nil
	case resp.status == http.StatusBadRequest:
		if verr := parseValidationError(resp.body); verr != nil {
			return verr
		}
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.TrimSpace(string(resp.body)))
	case resp.status == http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case resp.status == http.StatusForbidden:
		// Esperable según el rol del usuario: no es un error crítico.
		c.log.Warn().Str("method", r.method).Str("path", r.path).Msg("acceso denegado a recurso protegido")
		return domain.ErrForbidden
	case resp.status == http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, r.path)
	default:
		return fmt.Errorf("api: %s %s: estado inesperado %d", r.method, r.path, resp.status)
	}
}

// parseValidationError interpreta el cuerpo de un 400 de DRF: {"campo": ["msg", ...]} o {"campo": "msg"}.
// Valores anidados (ej: errores por línea en "detalles") se conservan como JSON compacto.
func parseValidationError(body []byte) *domain.ValidationError {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || len(raw) == 0 {
		return nil
	}
	fields := make(map[string][]string, len(raw))
	for field, value := range raw {
		fields[field] = flattenMessages(value)
	}
	return &domain.ValidationError{Fields: fields}
}

func flattenMessages(value json.RawMessage) []string {
	var s string
	if err := json.Unmarshal(value, &s); err == nil {
		return []string{s}
	}
	var list []json.RawMessage
	if err := json.Unmarshal(value, &list); err == nil {
		out := make([]string, 0, len(list))
		for _, item := range list {
			var msg string
			if err := json.Unmarshal(item, &msg); err == nil {
				out = append(out, msg)
				continue
			}
			out = append(out, compact(item))
		}
		return out
	}
	return []string{compact(value)}
}

func compact(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

// IsValidation indica si err trae mensajes de validación del backend y los devuelve.
func IsValidation(err error) (*domain.ValidationError, bool) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
