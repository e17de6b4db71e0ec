package main

import (
	"context"
	"net/http"
	"time"
)

func (a *api) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	ts := time.Now().UTC().Format(time.RFC3339)
	if err := a.store.Ping(ctx); err != nil {
		a.log.Warn("health db ping", "err", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"ok": false, "ts": ts, "db": "down"})
		return
	}
	writeJSON(w, 200, map[string]any{"ok": true, "ts": ts, "db": "ok"})
}
