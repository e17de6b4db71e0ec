package main

import (
	"net/http"
	"time"
)

// routes registers the API. Reads are public, writes need a session and
// user management is admin-only.
func (a *api) routes(mux *http.ServeMux) {
	// Auth endpoints
	mux.HandleFunc("POST /api/auth/login", a.withRateLimit("login", a.cfg.LoginLimit, time.Minute, a.handleLogin))
	mux.HandleFunc("POST /api/auth/logout", a.handleLogout)
	mux.HandleFunc("GET /api/auth/ping", a.requireAuth(a.handlePing))
	mux.HandleFunc("GET /api/auth/me", a.requireAuth(a.handleMe))

	mux.HandleFunc("GET /api/health", a.handleHealth)
	mux.HandleFunc("GET /api/events", a.requireAuth(a.handleEvents))

	mux.HandleFunc("GET /api/people", a.handleListPeople)
	mux.HandleFunc("POST /api/people", a.requireAuth(a.handleCreatePerson))
	mux.HandleFunc("GET /api/people/{id}", a.handleGetPerson)
	mux.HandleFunc("PUT /api/people/{id}", a.requireAuth(a.handleUpdatePerson))
	mux.HandleFunc("PATCH /api/people/{id}", a.requireAuth(a.handlePatchPerson))
	mux.HandleFunc("DELETE /api/people/{id}", a.requireAuth(a.handleDeletePerson))

	mux.HandleFunc("GET /api/systems", a.handleListSystems)
	mux.HandleFunc("POST /api/systems", a.requireAuth(a.handleCreateSystem))
	mux.HandleFunc("PUT /api/systems/{id}", a.requireAuth(a.handleUpdateSystem))
	mux.HandleFunc("DELETE /api/systems/{id}", a.requireAuth(a.handleDeleteSystem))

	mux.HandleFunc("GET /api/lines", a.handleListLines)
	mux.HandleFunc("POST /api/lines", a.requireAuth(a.handleCreateLine))
	mux.HandleFunc("PUT /api/lines/{id}", a.requireAuth(a.handleUpdateLine))
	mux.HandleFunc("DELETE /api/lines/{id}", a.requireAuth(a.handleDeleteLine))

	mux.HandleFunc("GET /api/media", a.handleListMedia)
	mux.HandleFunc("POST /api/media", a.requireAuth(a.handleCreateMedia))
	mux.HandleFunc("GET /api/media/{id}", a.handleGetMedia)
	mux.HandleFunc("PUT /api/media/{id}", a.requireAuth(a.handleUpdateMedia))
	mux.HandleFunc("PATCH /api/media/{id}", a.requireAuth(a.handlePatchMedia))
	mux.HandleFunc("DELETE /api/media/{id}", a.requireAuth(a.handleDeleteMedia))

	mux.HandleFunc("GET /api/reports/by-person", a.handleReportByPerson)

	// Admin: user management
	mux.HandleFunc("GET /api/users", a.requireAdmin(a.handleAdminListUsers))
	mux.HandleFunc("POST /api/users", a.requireAdmin(a.handleAdminCreateUser))
	mux.HandleFunc("PUT /api/users/{id}", a.requireAdmin(a.handleAdminUpdateUser))
	mux.HandleFunc("DELETE /api/users/{id}", a.requireAdmin(a.handleAdminDeleteUser))

	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Rota não encontrada")
	})
}
