// Package dashboard serves the browser client of the landscape viewer: a
// single page that shows streamed frames, forwards pointer input over the
// websocket and hosts the filter, search and detail sidebar.
package dashboard

import (
	"github.com/go-chi/chi/v5"
)

// Dashboard serves the embedded client page.
type Dashboard struct{}

// New creates a new Dashboard.
func New() *Dashboard {
	return &Dashboard{}
}

// RegisterRoutes mounts the dashboard routes onto the given router.
func (d *Dashboard) RegisterRoutes(r chi.Router) {
	r.Get("/", d.ServeIndex)
	r.Get("/app.js", d.ServeScript)
}
