package cli

import (
	"github.com/novaplan/premium/internal/premium/application"
)

// App holds the CLI application dependencies.
type App struct {
	Reconciler *application.Reconciler
	Catalog    *application.CatalogLoader
}

// NewApp creates the CLI application.
func NewApp(reconciler *application.Reconciler, catalog *application.CatalogLoader) *App {
	return &App{
		Reconciler: reconciler,
		Catalog:    catalog,
	}
}

var app *App

// SetApp sets the CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the CLI application instance.
func GetApp() *App {
	return app
}
