// Package www serves the operations API and the inbound partner endpoint.
package www

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"

	"github.com/Lydiiiiia27/ups-delivery-system/engine"
)

type Handlers struct {
	engine   *engine.Engine
	sessions *sessions.CookieStore
	eventHub *EventHub
}

// NewRouter builds the HTTP handler. The returned func stops the SSE hub.
func NewRouter(eng *engine.Engine) (http.Handler, func()) {
	hub := NewEventHub()
	hub.Start()
	hub.SetupEngineListeners(eng)

	web := eng.AppConfig().Web
	h := &Handlers{
		engine:   eng,
		sessions: newSessionStore(web.SessionSecret, web.SecureCookies),
		eventHub: hub,
	}
	h.ensureDefaultAdmin(web.AdminUser, web.AdminPassword)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	r.Get("/events", hub.SSEHandler)
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.apiHealth)
		r.Get("/trucks", h.apiListTrucks)
		r.Get("/trucks/{id}", h.apiGetTruck)
		r.Get("/packages", h.apiListPackages)
		r.Get("/packages/{id}", h.apiGetPackage)
		r.Get("/warehouses", h.apiListWarehouses)
		r.Get("/messages", h.apiListMessages)

		// partner callback
		r.Post("/packageloaded", h.apiPackageLoaded)

		r.Group(func(r chi.Router) {
			r.Use(h.requireAuth)
			r.Post("/world/pickup", h.apiWorldPickup)
			r.Post("/world/deliver", h.apiWorldDeliver)
			r.Post("/world/query", h.apiWorldQuery)
			r.Post("/world/speed", h.apiWorldSpeed)
			r.Post("/warehouses", h.apiSaveWarehouse)
			r.Post("/packages", h.apiSavePackage)
		})
	})

	return r, hub.Stop
}
