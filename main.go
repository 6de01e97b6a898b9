package main

import (
	"log"
	"net/http"
	"time"

	"github.com/km-arc/go-injector/framework/app"
	"github.com/km-arc/go-injector/framework/config"
	"github.com/km-arc/go-injector/framework/di"
	gohttp "github.com/km-arc/go-injector/framework/http"
)

// ── Demo service graph ───────────────────────────────────────────────────────

// Clock tells the time.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock.
type SystemClock struct{}

func NewSystemClock() *SystemClock { return &SystemClock{} }

func (*SystemClock) Now() time.Time { return time.Now() }

// Greeter renders the landing greeting. Its dependencies arrive through
// the constructor; nothing here knows how they were built.
type Greeter struct {
	clock Clock
	name  string
}

func NewGreeter(clock Clock, cfg *config.Config) *Greeter {
	return &Greeter{clock: clock, name: cfg.App.Name}
}

func (g *Greeter) Greet() string {
	return "hello from " + g.name + " at " + g.clock.Now().Format(time.RFC3339)
}

// Banner exists only while the "maintenance" session is open; outside the
// window it resolves to nil.
type Banner struct {
	Text string
}

func NewBanner() *Banner {
	return &Banner{Text: "maintenance in progress"}
}

// demoModule wires the demo graph.
type demoModule struct{}

func (demoModule) Provide() []di.Binding {
	return []di.Binding{
		di.BindType[Clock, *SystemClock](di.InScope(di.Singleton)),
		di.Bind[*Greeter](di.InScope(di.Singleton)),
		di.Bind[*Banner](di.InSession("maintenance")),
	}
}

func (demoModule) Constructors() []any {
	return []any{NewSystemClock, NewGreeter, NewBanner}
}

// ── Bootstrap ────────────────────────────────────────────────────────────────

func main() {
	application, err := app.New(demoModule{})
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}

	r := application.Router()

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		res := gohttp.NewResponse(w)

		greeter, err := di.Create[*Greeter](application.Injector)
		if err != nil {
			res.Error(http.StatusInternalServerError, err.Error())
			return
		}
		payload := map[string]any{"greeting": greeter.Greet()}

		// Absent while the maintenance session is closed.
		if banner, _ := di.Create[*Banner](application.Injector); banner != nil {
			payload["notice"] = banner.Text
		}
		res.Success(payload)
	})

	// Session control: open and close the maintenance window.
	r.Post("/maintenance", func(w http.ResponseWriter, req *http.Request) {
		application.SessionEntry("maintenance")
		gohttp.NewResponse(w).Created(map[string]any{"session": "maintenance"})
	})

	r.Delete("/maintenance", func(w http.ResponseWriter, req *http.Request) {
		application.SessionExit("maintenance")
		gohttp.NewResponse(w).NoContent()
	})

	application.Run()
}
