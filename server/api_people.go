package main

import "net/http"

const personNotFound = "Pessoa não encontrada"

func (a *api) handleListPeople(w http.ResponseWriter, r *http.Request) {
	items, err := a.store.ListPeople(r.Context())
	if err != nil {
		a.fail(w, r, "list people", err, "")
		return
	}
	writeJSON(w, 200, items)
}

func (a *api) handleGetPerson(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	p, err := a.store.GetPerson(r.Context(), id)
	if err != nil {
		a.fail(w, r, "get person", err, personNotFound)
		return
	}
	writeJSON(w, 200, p)
}

func (a *api) handleCreatePerson(w http.ResponseWriter, r *http.Request) {
	var req personRequest
	if !a.decode(w, r, &req) {
		return
	}
	if errs := req.normalize(); len(errs) > 0 {
		invalid(w, errs)
		return
	}
	p, err := a.store.CreatePerson(r.Context(), req.Name, req.Email)
	if err != nil {
		a.fail(w, r, "create person", err, "")
		return
	}
	writeJSON(w, 201, p)
	a.publish(eventCreated, "person", p.ID)
}

func (a *api) handleUpdatePerson(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req personRequest
	if !a.decode(w, r, &req) {
		return
	}
	if errs := req.normalize(); len(errs) > 0 {
		invalid(w, errs)
		return
	}
	p, err := a.store.UpdatePerson(r.Context(), id, req.Name, req.Email)
	if err != nil {
		a.fail(w, r, "update person", err, personNotFound)
		return
	}
	writeJSON(w, 200, p)
	a.publish(eventUpdated, "person", p.ID)
}

func (a *api) handlePatchPerson(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req personPatchRequest
	if !a.decode(w, r, &req) {
		return
	}
	if errs := req.normalize(); len(errs) > 0 {
		invalid(w, errs)
		return
	}
	p, err := a.store.PatchPerson(r.Context(), id, req.Name, req.Email)
	if err != nil {
		a.fail(w, r, "patch person", err, personNotFound)
		return
	}
	writeJSON(w, 200, p)
	a.publish(eventUpdated, "person", p.ID)
}

func (a *api) handleDeletePerson(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := a.store.DeletePerson(r.Context(), id); err != nil {
		a.fail(w, r, "delete person", err, personNotFound)
		return
	}
	writeJSON(w, 200, map[string]any{"ok": true})
	a.publish(eventDeleted, "person", id)
}
