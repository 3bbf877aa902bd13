// Package session mantiene la sesión autenticada del operador: par de tokens, identidad,
// renovación periódica y cierre de sesión.
//
// Estados:
//
//	Resolving ──► Authenticated ◄──► Refreshing
//	    │               │                 │
//	    └──────────► Anonymous ◄──────────┘
//
// Resolving es el estado inicial de cada arranque. Una renovación fallida siempre termina en
// Anonymous. Dos renovaciones simultáneas (timer y 401) no se serializan: gana la última en escribir.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/trebol-admin/internal/application/dto"
	"github.com/jhoicas/trebol-admin/internal/domain"
	"github.com/jhoicas/trebol-admin/internal/domain/entity"
	"github.com/jhoicas/trebol-admin/internal/domain/repository"
	"github.com/jhoicas/trebol-admin/pkg/jwt"
	"github.com/jhoicas/trebol-admin/pkg/logger"
)

// DefaultRefreshInterval intervalo fijo de renovación del par de tokens.
const DefaultRefreshInterval = 4 * time.Minute

// Rutas a las que la sesión pide navegar.
const (
	RouteHome  = "/"
	RouteLogin = "/login"
)

// degradedUsername nombre usado cuando el token no trae username.
const degradedUsername = "Usuario"

// State estado de la sesión.
type State int

const (
	StateResolving State = iota
	StateAuthenticated
	StateRefreshing
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateResolving:
		return "resolving"
	case StateAuthenticated:
		return "authenticated"
	case StateRefreshing:
		return "refreshing"
	case StateAnonymous:
		return "anonymous"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// AuthGateway endpoints de autenticación del backend. Lo implementa *api.Client.
type AuthGateway interface {
	ObtainToken(ctx context.Context, username, password string) (*entity.TokenPair, error)
	RefreshToken(ctx context.Context, refresh string) (*entity.TokenPair, error)
	Profile(ctx context.Context, accessToken string) (*dto.ProfileResponse, error)
}

// Navigator recibe las navegaciones que pide la sesión (inicio tras login, login tras logout).
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapta una función a Navigator.
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

// Option configura el Manager.
type Option func(*Manager)

// WithNavigator define el destino de las navegaciones.
func WithNavigator(n Navigator) Option { return func(m *Manager) { m.nav = n } }

// WithScheduler reemplaza el timer real (pruebas).
func WithScheduler(s Scheduler) Option { return func(m *Manager) { m.sched = s } }

// WithRefreshInterval cambia el intervalo de renovación.
func WithRefreshInterval(d time.Duration) Option { return func(m *Manager) { m.interval = d } }

// WithLogger inyecta el logger.
func WithLogger(l *logger.Logger) Option { return func(m *Manager) { m.log = l.Component("session") } }

// Manager servicio de sesión. Se construye una vez al arrancar y se comparte por referencia.
type Manager struct {
	gw       AuthGateway
	store    repository.TokenStore
	nav      Navigator
	sched    Scheduler
	interval time.Duration
	log      *logger.Logger

	mu        sync.RWMutex
	state     State
	loading   bool
	gen       uint64 // cambia en cada login y logout
	tokens    *entity.TokenPair
	user      *entity.User
	stopTimer func()
}

// NewManager construye el servicio en estado Resolving con loading=true.
func NewManager(gw AuthGateway, store repository.TokenStore, opts ...Option) *Manager {
	m := &Manager{
		gw:       gw,
		store:    store,
		nav:      NavigatorFunc(func(string) {}),
		sched:    TickerScheduler{},
		interval: DefaultRefreshInterval,
		log:      logger.Nop(),
		state:    StateResolving,
		loading:  true,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Initialize resuelve la sesión persistida. Sin tokens queda Anonymous; con tokens adopta
// primero la identidad decodificada del token, luego el perfil real y por último renueva el par.
func (m *Manager) Initialize(ctx context.Context) error {
	pair, err := m.store.Load(ctx)
	if err != nil {
		m.log.Warn().Err(err).Msg("no se pudo leer la sesión persistida, se continúa sin sesión")
		pair = nil
	}
	if pair == nil {
		m.mu.Lock()
		m.state = StateAnonymous
		m.loading = false
		m.mu.Unlock()
		m.log.Info().Msg("sin sesión persistida")
		return nil
	}

	m.mu.Lock()
	gen := m.gen
	m.tokens = pair
	m.user = degradedUser(pair.Access)
	m.mu.Unlock()

	if user := m.GetUserProfile(ctx, pair.Access); user != nil {
		m.mu.Lock()
		if m.gen == gen {
			m.user = user
		}
		m.mu.Unlock()
	}
	return m.Refresh(ctx)
}

// Login intercambia credenciales por tokens. Ante un rechazo no persiste nada ni cambia el estado.
func (m *Manager) Login(ctx context.Context, username, password string) error {
	pair, err := m.gw.ObtainToken(ctx, username, password)
	if err != nil {
		m.log.Warn().Err(err).Str("username", username).Msg("login rechazado")
		if errors.Is(err, domain.ErrNetwork) {
			return err
		}
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			return fmt.Errorf("%w: %w", domain.ErrInvalidCredentials, err)
		}
		return err
	}

	// Persistir y abrir una generación nueva es atómico respecto de Logout y Refresh.
	m.mu.Lock()
	if err := m.store.Save(ctx, *pair); err != nil {
		m.mu.Unlock()
		return fmt.Errorf("session: persistir tokens: %w", err)
	}
	m.gen++
	gen := m.gen
	m.tokens = pair
	m.mu.Unlock()

	user := m.GetUserProfile(ctx, pair.Access)

	m.mu.Lock()
	if m.gen != gen {
		m.mu.Unlock()
		return fmt.Errorf("%w: sesión cerrada durante el login", domain.ErrNotAuthenticated)
	}
	if user != nil {
		m.user = user
	}
	m.state = StateAuthenticated
	m.loading = false
	m.mu.Unlock()

	m.ensureTimer(gen)
	m.log.Info().Str("username", username).Msg("sesión iniciada")
	m.nav.Navigate(RouteHome)
	return nil
}

// Refresh renueva el par con el refresh token guardado. Cualquier falla cierra la sesión
// sin reintentar y devuelve un error que cumple errors.Is(err, domain.ErrRefreshFailed).
//
// Si mientras se esperaba al backend hubo un logout o un login nuevo, el resultado se descarta:
// no se persiste, no cambia el estado y no cierra la sesión nueva.
func (m *Manager) Refresh(ctx context.Context) error {
	m.mu.Lock()
	gen := m.gen
	refresh := ""
	if m.tokens != nil {
		refresh = m.tokens.Refresh
	}
	if m.state == StateAuthenticated {
		m.state = StateRefreshing
	}
	m.mu.Unlock()

	pair, err := m.gw.RefreshToken(ctx, refresh)
	if err != nil {
		if !errors.Is(err, domain.ErrRefreshFailed) {
			err = fmt.Errorf("%w: %w", domain.ErrRefreshFailed, err)
		}
		if m.superseded(gen) {
			m.log.Debug().Err(err).Msg("renovación fallida de una sesión ya reemplazada")
			return err
		}
		m.log.Error().Err(err).Msg("renovación de sesión fallida, cerrando sesión")
		m.Logout(ctx)
		return err
	}

	m.mu.Lock()
	if m.gen != gen {
		m.mu.Unlock()
		m.log.Info().Msg("renovación descartada: la sesión se cerró mientras se renovaba")
		return fmt.Errorf("%w: sesión cerrada durante la renovación", domain.ErrNotAuthenticated)
	}
	if err := m.store.Save(ctx, *pair); err != nil {
		// El par en memoria sigue vigente; el guardado puede tener un refresh token ya rotado,
		// así que tras un reinicio habrá que iniciar sesión de nuevo.
		m.log.Error().Err(err).Msg("no se pudo persistir el par renovado; un reinicio pedirá login")
	}
	m.tokens = pair
	m.state = StateAuthenticated
	m.loading = false
	m.mu.Unlock()

	user := m.GetUserProfile(ctx, pair.Access)

	m.mu.Lock()
	if m.gen == gen && user != nil {
		m.user = user
	}
	m.mu.Unlock()

	m.ensureTimer(gen)
	m.log.Debug().Msg("sesión renovada")
	return nil
}

func (m *Manager) superseded(gen uint64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.gen != gen
}

// Logout borra la sesión persistida y en memoria, detiene la renovación y pide ir al login.
// Invalida cualquier renovación en curso.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	m.gen++
	m.tokens = nil
	m.user = nil
	m.state = StateAnonymous
	m.loading = false
	stop := m.stopTimer
	m.stopTimer = nil
	m.mu.Unlock()

	if err := m.store.Clear(ctx); err != nil {
		m.log.Error().Err(err).Msg("no se pudo borrar la sesión persistida")
	}
	if stop != nil {
		stop()
	}
	m.log.Info().Msg("sesión cerrada")
	m.nav.Navigate(RouteLogin)
}

// GetUserProfile consulta el perfil del dueño de token. Si el endpoint falla no propaga el error:
// devuelve la identidad degradada (decodificada del token, rol vendedor) para no bloquear a un
// usuario con token válido. Solo devuelve nil si además el token no se puede decodificar.
func (m *Manager) GetUserProfile(ctx context.Context, token string) *entity.User {
	profile, err := m.gw.Profile(ctx, token)
	if err == nil && profile != nil {
		return entity.NewUser(profile.Username, entity.ParseRole(profile.Role))
	}
	m.log.Warn().Err(err).Msg("perfil no disponible, se usa la identidad del token")
	user := degradedUser(token)
	if user == nil {
		m.log.Error().Msg("no se pudo decodificar el access token")
	}
	return user
}

func degradedUser(token string) *entity.User {
	claims, err := jwt.Decode(token)
	if err != nil {
		return nil
	}
	username := claims.Username
	if username == "" {
		username = degradedUsername
	}
	u := entity.NewUser(username, entity.RoleVendedor)
	u.Degraded = true
	return u
}

// ensureTimer arranca la renovación periódica si no está corriendo y gen sigue vigente.
func (m *Manager) ensureTimer(gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stopTimer != nil || m.gen != gen {
		return
	}
	m.stopTimer = m.sched.Every(m.interval, m.tick)
}

func (m *Manager) tick() {
	if m.AccessToken() == "" {
		return
	}
	if err := m.Refresh(context.Background()); err != nil {
		m.log.Warn().Err(err).Msg("renovación periódica fallida")
	}
}

// Close detiene la renovación periódica sin cerrar la sesión (apagado del proceso).
func (m *Manager) Close() {
	m.mu.Lock()
	stop := m.stopTimer
	m.stopTimer = nil
	m.mu.Unlock()
	if stop != nil {
		stop()
	}
}

// CurrentUser copia del usuario actual; nil si no hay sesión resuelta.
func (m *Manager) CurrentUser() *entity.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

// Loading es true mientras se resuelve la sesión inicial.
func (m *Manager) Loading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loading
}

// State estado actual.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// AccessToken token vigente; vacío si no hay sesión.
func (m *Manager) AccessToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.tokens == nil {
		return ""
	}
	return m.tokens.Access
}

// Role rol del usuario actual; guest sin sesión.
func (m *Manager) Role() entity.Role {
	if u := m.CurrentUser(); u != nil {
		return u.Role
	}
	return entity.RoleGuest
}
