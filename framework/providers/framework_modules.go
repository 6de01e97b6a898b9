// Package providers holds the framework's core injector modules: the
// bindings every application gets before its own modules register.
package providers

import (
	"github.com/km-arc/go-injector/framework/config"
	"github.com/km-arc/go-injector/framework/di"
	"github.com/km-arc/go-injector/framework/routing"
)

// ── ConfigModule ──────────────────────────────────────────────────────────────

// ConfigModule loads the application configuration from .env and binds it
// as a singleton, so the .env files are read at most once.
//
// Bound keys:
//   - *config.Config
type ConfigModule struct {
	EnvFiles []string
}

func (m *ConfigModule) Provide() []di.Binding {
	envFiles := m.EnvFiles
	return []di.Binding{
		di.BindFactory(func(*di.Resolver) (*config.Config, error) {
			return config.Load(envFiles...), nil
		}, di.InScope(di.Singleton)),
	}
}

// ── RouterModule ──────────────────────────────────────────────────────────────

// RouterModule binds the HTTP router as a singleton so every handler
// registration and the server loop see the same mux.
//
// Bound keys:
//   - *routing.Router
type RouterModule struct{}

func (m *RouterModule) Provide() []di.Binding {
	return []di.Binding{
		di.BindFactory(func(*di.Resolver) (*routing.Router, error) {
			return routing.New(), nil
		}, di.InScope(di.Singleton)),
	}
}
