package main

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const mediaNotFound = "Mídia não encontrada"

// parseMediaFilter reads the list filters shared by /media and /reports.
func parseMediaFilter(q url.Values) (MediaFilter, validationErrors) {
	var errs validationErrors
	var f MediaFilter
	if p := strings.TrimSpace(q.Get("platform")); p != "" {
		checkPlatform(&errs, p)
		f.Platform = p
	}
	f.PersonID = queryID(&errs, q, "person_id")
	f.LineID = queryID(&errs, q, "line_id")
	f.SystemID = queryID(&errs, q, "system_id")
	if d, ok := checkDate(&errs, "date_from", q.Get("date_from"), false); ok {
		f.DateFrom = &d
	}
	if d, ok := checkDate(&errs, "date_to", q.Get("date_to"), false); ok {
		f.DateTo = &d
	}
	return f, errs
}

func queryID(errs *validationErrors, q url.Values, key string) *int64 {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		errs.add(key, "Identificador inválido.")
		return nil
	}
	return &id
}

func (a *api) handleListMedia(w http.ResponseWriter, r *http.Request) {
	f, errs := parseMediaFilter(r.URL.Query())
	if len(errs) > 0 {
		invalid(w, errs)
		return
	}
	items, err := a.store.ListMedia(r.Context(), f)
	if err != nil {
		a.fail(w, r, "list media", err, "")
		return
	}
	writeJSON(w, 200, items)
}

func (a *api) handleGetMedia(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	m, err := a.store.GetMedia(r.Context(), id)
	if err != nil {
		a.fail(w, r, "get media", err, mediaNotFound)
		return
	}
	writeJSON(w, 200, m)
}

func (a *api) handleCreateMedia(w http.ResponseWriter, r *http.Request) {
	var req mediaRequest
	if !a.decode(w, r, &req) {
		return
	}
	in, errs := req.toInput()
	if len(errs) > 0 {
		invalid(w, errs)
		return
	}
	m, err := a.store.CreateMedia(r.Context(), in)
	if err != nil {
		a.fail(w, r, "create media", err, "")
		return
	}
	writeJSON(w, 201, m)
	a.publish(eventCreated, "media", m.ID)
}

func (a *api) handleUpdateMedia(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req mediaRequest
	if !a.decode(w, r, &req) {
		return
	}
	in, errs := req.toInput()
	if len(errs) > 0 {
		invalid(w, errs)
		return
	}
	m, err := a.store.UpdateMedia(r.Context(), id, in)
	if err != nil {
		a.fail(w, r, "update media", err, mediaNotFound)
		return
	}
	writeJSON(w, 200, m)
	a.publish(eventUpdated, "media", m.ID)
}

func (a *api) handlePatchMedia(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req mediaPatchRequest
	if !a.decode(w, r, &req) {
		return
	}
	p, errs := req.toPatch()
	if len(errs) > 0 {
		invalid(w, errs)
		return
	}
	m, err := a.store.PatchMedia(r.Context(), id, p)
	if err != nil {
		a.fail(w, r, "patch media", err, mediaNotFound)
		return
	}
	writeJSON(w, 200, m)
	a.publish(eventUpdated, "media", m.ID)
}

func (a *api) handleDeleteMedia(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := a.store.DeleteMedia(r.Context(), id); err != nil {
		a.fail(w, r, "delete media", err, mediaNotFound)
		return
	}
	writeJSON(w, 200, map[string]any{"ok": true})
	a.publish(eventDeleted, "media", id)
}
