package main

import "net/http"

const lineNotFound = "Linha não encontrada"

func (a *api) handleListLines(w http.ResponseWriter, r *http.Request) {
	items, err := a.store.ListLines(r.Context())
	if err != nil {
		a.fail(w, r, "list lines", err, "")
		return
	}
	writeJSON(w, 200, items)
}

func (a *api) handleCreateLine(w http.ResponseWriter, r *http.Request) {
	var req lineRequest
	if !a.decode(w, r, &req) {
		return
	}
	if errs := req.normalize(); len(errs) > 0 {
		invalid(w, errs)
		return
	}
	l, err := a.store.CreateLine(r.Context(), req.Name, req.SystemID)
	if err != nil {
		a.fail(w, r, "create line", err, "")
		return
	}
	writeJSON(w, 201, l)
	a.publish(eventCreated, "line", l.ID)
}

func (a *api) handleUpdateLine(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req lineRequest
	if !a.decode(w, r, &req) {
		return
	}
	if errs := req.normalize(); len(errs) > 0 {
		invalid(w, errs)
		return
	}
	l, err := a.store.UpdateLine(r.Context(), id, req.Name, req.SystemID)
	if err != nil {
		a.fail(w, r, "update line", err, lineNotFound)
		return
	}
	writeJSON(w, 200, l)
	a.publish(eventUpdated, "line", l.ID)
}

func (a *api) handleDeleteLine(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := a.store.DeleteLine(r.Context(), id); err != nil {
		a.fail(w, r, "delete line", err, lineNotFound)
		return
	}
	writeJSON(w, 200, map[string]any{"ok": true})
	a.publish(eventDeleted, "line", id)
}
