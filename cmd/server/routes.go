package main

import (
	"log/slog"
	"net/http"

	"github.com/nhp-platform/catalog/internal/categories"
	"github.com/nhp-platform/catalog/internal/config"
	"github.com/nhp-platform/catalog/internal/routes"
	pkgroutes "github.com/nhp-platform/catalog/pkg/routes"
)

// Application holds the wired subsystems serving HTTP traffic.
type Application struct {
	config     *config.Config
	logger     *slog.Logger
	categories categories.System
}

func (app *Application) routes() http.Handler {
	router := routes.New(app.logger)

	router.RegisterRoute(pkgroutes.Route{
		Method:  "GET",
		Pattern: "/healthz",
		Handler: func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
		},
	})

	router.RegisterGroup(pkgroutes.Group{
		Prefix: "/api",
		Children: []pkgroutes.Group{
			app.categories.Handler().Routes(),
		},
	})

	return app.enableCORS(router.Build())
}
