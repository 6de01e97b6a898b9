package app

import (
	"fmt"
	"log"
	"net/http"

	"github.com/km-arc/go-injector/framework/config"
	"github.com/km-arc/go-injector/framework/di"
	"github.com/km-arc/go-injector/framework/providers"
	"github.com/km-arc/go-injector/framework/routing"
)

// Application is the top-level kernel owning one Injector. It embeds the
// injector so application code can call app.SessionEntry, app.Validate,
// and the generic di.Create helpers against it directly.
type Application struct {
	*di.Injector
}

// New builds and validates the application object graph. The framework's
// core modules (config, router) register first, then the caller's modules
// in order; a binding collision or policy violation fails construction.
func New(modules ...di.Module) (*Application, error) {
	all := append([]di.Module{
		&providers.ConfigModule{},
		&providers.RouterModule{},
	}, modules...)

	inj, err := di.New(di.Modules(all...))
	if err != nil {
		return nil, err
	}
	return &Application{Injector: inj}, nil
}

// Config resolves the application configuration.
func (a *Application) Config() *config.Config {
	return di.MustCreate[*config.Config](a.Injector)
}

// Router resolves the HTTP router.
func (a *Application) Router() *routing.Router {
	return di.MustCreate[*routing.Router](a.Injector)
}

// Run starts the HTTP server on the configured address.
func (a *Application) Run() {
	cfg := a.Config()
	addr := cfg.Addr()
	fmt.Printf("%s listening on http://localhost%s  [%s]\n",
		cfg.App.Name, addr, cfg.App.Env)

	if err := http.ListenAndServe(addr, a.Router()); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// Environment returns the APP_ENV value.
func (a *Application) Environment() string { return a.Config().App.Env }
func (a *Application) IsLocal() bool       { return a.Environment() == "local" }
func (a *Application) IsProduction() bool  { return a.Environment() == "production" }
func (a *Application) IsTesting() bool     { return a.Environment() == "testing" }
func (a *Application) IsDebug() bool       { return a.Config().App.Debug }
