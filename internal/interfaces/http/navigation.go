package http

import "sync"

// NavRecorder recibe las navegaciones pedidas por la sesión. Guarda la última para que la UI
// la lea en GET /app/session y dispara los hooks registrados para esa ruta.
type NavRecorder struct {
	mu    sync.Mutex
	last  string
	hooks map[string][]func()
}

// NewNavRecorder construye el recorder vacío.
func NewNavRecorder() *NavRecorder {
	return &NavRecorder{hooks: map[string][]func(){}}
}

// Navigate implementa session.Navigator.
func (n *NavRecorder) Navigate(path string) {
	n.mu.Lock()
	n.last = path
	hooks := append([]func(){}, n.hooks[path]...)
	n.mu.Unlock()
	for _, fn := range hooks {
		fn()
	}
}

// On registra fn para cada navegación a path.
func (n *NavRecorder) On(path string, fn func()) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.hooks[path] = append(n.hooks[path], fn)
}

// Last última ruta pedida ("" si todavía no hubo navegación).
func (n *NavRecorder) Last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.last
}
