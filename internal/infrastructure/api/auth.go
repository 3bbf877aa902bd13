package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jhoicas/trebol-admin/internal/application/dto"
	"github.com/jhoicas/trebol-admin/internal/domain"
	"github.com/jhoicas/trebol-admin/internal/domain/entity"
)

const (
	pathToken        = "token/"
	pathTokenRefresh = "token/refresh/"
	pathProfile      = "auth/profile/"
)

// ObtainToken intercambia usuario y contraseña por un par de tokens.
// Un 400/401 se reporta como ErrInvalidCredentials; fallas de red como ErrNetwork.
func (c *Client) ObtainToken(ctx context.Context, username, password string) (*entity.TokenPair, error) {
	r, err := newRequest(http.MethodPost, pathToken, nil, dto.LoginRequest{Username: username, Password: password})
	if err != nil {
		return nil, err
	}
	resp, err := c.roundTrip(ctx, r, "")
	if err != nil {
		return nil, err
	}
	switch resp.status {
	case http.StatusOK:
	case http.StatusBadRequest, http.StatusUnauthorized:
		return nil, domain.ErrInvalidCredentials
	default:
		return nil, fmt.Errorf("%w: token/ respondió %d", domain.ErrInvalidCredentials, resp.status)
	}
	var pair entity.TokenPair
	if err := decode(resp, &pair); err != nil {
		return nil, err
	}
	if !pair.Valid() {
		return nil, fmt.Errorf("%w: respuesta sin access token", domain.ErrInvalidCredentials)
	}
	return &pair, nil
}

// RefreshToken intercambia el refresh token por un par nuevo.
// Un 401 sobre esta misma llamada es terminal: no se intenta otra renovación.
// Si el backend no rota el refresh token, se conserva el anterior.
func (c *Client) RefreshToken(ctx context.Context, refresh string) (*entity.TokenPair, error) {
	if refresh == "" {
		return nil, fmt.Errorf("%w: no hay refresh token", domain.ErrRefreshFailed)
	}
	r, err := newRequest(http.MethodPost, pathTokenRefresh, nil, dto.RefreshRequest{Refresh: refresh})
	if err != nil {
		return nil, err
	}
	resp, err := c.roundTrip(ctx, r, "")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRefreshFailed, err)
	}
	if resp.status != http.StatusOK {
		return nil, fmt.Errorf("%w: token/refresh/ respondió %d", domain.ErrRefreshFailed, resp.status)
	}
	var pair entity.TokenPair
	if err := decode(resp, &pair); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRefreshFailed, err)
	}
	if !pair.Valid() {
		return nil, fmt.Errorf("%w: respuesta sin access token", domain.ErrRefreshFailed)
	}
	if pair.Refresh == "" {
		pair.Refresh = refresh
	}
	return &pair, nil
}

// Profile consulta el perfil del dueño del token indicado (no el de la sesión actual).
func (c *Client) Profile(ctx context.Context, accessToken string) (*dto.ProfileResponse, error) {
	r, err := newRequest(http.MethodGet, pathProfile, nil, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.roundTrip(ctx, r, accessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrProfileFetchFailed, err)
	}
	if resp.status != http.StatusOK {
		return nil, fmt.Errorf("%w: auth/profile/ respondió %d", domain.ErrProfileFetchFailed, resp.status)
	}
	var out dto.ProfileResponse
	if err := decode(resp, &out); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrProfileFetchFailed, err)
	}
	return &out, nil
}
