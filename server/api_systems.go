package main

import "net/http"

const systemNotFound = "Sistema não encontrado"

func (a *api) handleListSystems(w http.ResponseWriter, r *http.Request) {
	items, err := a.store.ListSystems(r.Context())
	if err != nil {
		a.fail(w, r, "list systems", err, "")
		return
	}
	writeJSON(w, 200, items)
}

func (a *api) handleCreateSystem(w http.ResponseWriter, r *http.Request) {
	var req systemRequest
	if !a.decode(w, r, &req) {
		return
	}
	if errs := req.normalize(); len(errs) > 0 {
		invalid(w, errs)
		return
	}
	s, err := a.store.CreateSystem(r.Context(), req.Name)
	if err != nil {
		a.fail(w, r, "create system", err, "")
		return
	}
	writeJSON(w, 201, s)
	a.publish(eventCreated, "system", s.ID)
}

func (a *api) handleUpdateSystem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req systemRequest
	if !a.decode(w, r, &req) {
		return
	}
	if errs := req.normalize(); len(errs) > 0 {
		invalid(w, errs)
		return
	}
	s, err := a.store.UpdateSystem(r.Context(), id, req.Name)
	if err != nil {
		a.fail(w, r, "update system", err, systemNotFound)
		return
	}
	writeJSON(w, 200, s)
	a.publish(eventUpdated, "system", s.ID)
}

func (a *api) handleDeleteSystem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := a.store.DeleteSystem(r.Context(), id); err != nil {
		a.fail(w, r, "delete system", err, systemNotFound)
		return
	}
	writeJSON(w, 200, map[string]any{"ok": true})
	a.publish(eventDeleted, "system", id)
}
