package main

import "net/http"

const userNotFound = "Usuário não encontrado"

func (a *api) handleAdminListUsers(w http.ResponseWriter, r *http.Request) {
	items, err := a.store.ListUsers(r.Context())
	if err != nil {
		a.fail(w, r, "admin list users", err, "")
		return
	}
	writeJSON(w, 200, items)
}

func (a *api) handleAdminCreateUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if !a.decode(w, r, &req) {
		return
	}
	if errs := req.normalize(true); len(errs) > 0 {
		invalid(w, errs)
		return
	}
	u, err := a.store.CreateUser(r.Context(), req.Username, req.secret(), req.Role, req.PersonID)
	if err != nil {
		a.fail(w, r, "admin create user", err, "")
		return
	}
	writeJSON(w, 201, u)
	a.publish(eventCreated, "user", u.ID)
}

func (a *api) handleAdminUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req userRequest
	if !a.decode(w, r, &req) {
		return
	}
	if errs := req.normalize(false); len(errs) > 0 {
		invalid(w, errs)
		return
	}
	if me, _ := userFrom(r.Context()); me.ID == id && req.Role != userRoleAdmin {
		writeError(w, http.StatusConflict, "Não é possível remover o próprio acesso de administrador.")
		return
	}
	u, err := a.store.UpdateUser(r.Context(), id, req.Username, req.secret(), req.Role, req.PersonID)
	if err != nil {
		a.fail(w, r, "admin update user", err, userNotFound)
		return
	}
	writeJSON(w, 200, u)
	a.publish(eventUpdated, "user", u.ID)
}

func (a *api) handleAdminDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if me, _ := userFrom(r.Context()); me.ID == id {
		writeError(w, http.StatusConflict, "Não é possível excluir o próprio usuário.")
		return
	}
	if err := a.store.DeleteUser(r.Context(), id); err != nil {
		a.fail(w, r, "admin delete user", err, userNotFound)
		return
	}
	writeJSON(w, 200, map[string]any{"ok": true})
	a.publish(eventDeleted, "user", id)
}
