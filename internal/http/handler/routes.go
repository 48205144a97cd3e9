package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"

	"hellosrv/internal/service"
)

// Routes bundles what RegisterRoutes wires into the app.
type Routes struct {
	// GreetingPath serves the deferred greeting for every method.
	GreetingPath string
	Greeting     service.GreetingService
	Journal      service.JournalService
	// DB is pinged by /health; nil when the journal is kept in memory.
	DB       Pinger
	Gatherer prometheus.Gatherer
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, r Routes) {
	app.Get("/health", HealthCheck(r.DB))
	app.Get("/healthz", LivenessProbe())
	if r.Gatherer != nil {
		app.Get("/metrics", Metrics(r.Gatherer))
	}

	app.Get("/greeting", GetGreeting(r.Greeting))
	app.Put("/greeting", PutGreeting(r.Greeting))

	app.Get("/responses", ListResponses(r.Journal))
	app.Get("/responses/:id", GetResponse(r.Journal))

	path := r.GreetingPath
	if path == "" {
		path = "/"
	}
	app.All(path, Hello(r.Greeting))
}
