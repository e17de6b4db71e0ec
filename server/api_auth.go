package main

import (
	"errors"
	"net/http"
)

func (a *api) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !a.decode(w, r, &req) {
		return
	}
	if errs := req.normalize(); len(errs) > 0 {
		invalid(w, errs)
		return
	}
	u, err := a.store.Authenticate(r.Context(), req.Username, req.Token)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			a.log.Info("login rejected", "username", req.Username, "ip", clientIP(r))
			writeError(w, http.StatusUnauthorized, "Credenciais inválidas")
			return
		}
		a.fail(w, r, "authenticate", err, "")
		return
	}
	token, exp, err := a.store.CreateSession(r.Context(), u.ID, a.cfg.SessionTTL)
	if err != nil {
		a.fail(w, r, "create session", err, "")
		return
	}
	a.setSessionCookie(w, token, exp)
	writeJSON(w, 200, map[string]any{"ok": true, "user": u})
}

func (a *api) handleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(a.cfg.CookieName); err == nil && c.Value != "" {
		if err := a.store.DeleteSession(r.Context(), c.Value); err != nil {
			a.log.Error("delete session", "err", err)
		}
	}
	a.clearSessionCookie(w)
	writeJSON(w, 200, map[string]any{"ok": true})
}

func (a *api) handlePing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, 200, map[string]any{"ok": true})
}

func (a *api) handleMe(w http.ResponseWriter, r *http.Request) {
	u, _ := userFrom(r.Context())
	writeJSON(w, 200, map[string]any{"user": u})
}
