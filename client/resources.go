package client

import (
	"context"
	"net/http"
	"strconv"
)

type okResponse struct {
	OK bool `json:"ok"`
}

func itemPath(collection string, id int64) string {
	return collection + "/" + strconv.FormatInt(id, 10)
}

func (c *Client) deleteItem(ctx context.Context, collection string, id int64) (bool, error) {
	var out okResponse
	if err := c.do(ctx, http.MethodDelete, itemPath(collection, id), nil, &out); err != nil {
		return false, err
	}
	return out.OK, nil
}

// People manages /people. It is the only resource besides Media with
// partial updates.
type People struct{ c *Client }

func (r *People) List(ctx context.Context) ([]Person, error) {
	var out []Person
	err := r.c.do(ctx, http.MethodGet, "/people", nil, &out)
	return out, err
}

func (r *People) Get(ctx context.Context, id int64) (Person, error) {
	var out Person
	err := r.c.do(ctx, http.MethodGet, itemPath("/people", id), nil, &out)
	return out, err
}

func (r *People) Create(ctx context.Context, in PersonIn) (Person, error) {
	var out Person
	if err := in.Validate(); err != nil {
		return out, err
	}
	err := r.c.do(ctx, http.MethodPost, "/people", in, &out)
	return out, err
}

func (r *People) Update(ctx context.Context, id int64, in PersonIn) (Person, error) {
	var out Person
	if err := in.Validate(); err != nil {
		return out, err
	}
	err := r.c.do(ctx, http.MethodPut, itemPath("/people", id), in, &out)
	return out, err
}

func (r *People) UpdatePartial(ctx context.Context, id int64, patch PersonPatch) (Person, error) {
	var out Person
	if err := patch.Validate(); err != nil {
		return out, err
	}
	err := r.c.do(ctx, http.MethodPatch, itemPath("/people", id), patch, &out)
	return out, err
}

func (r *People) Delete(ctx context.Context, id int64) (bool, error) {
	return r.c.deleteItem(ctx, "/people", id)
}

type Lines struct{ c *Client }

func (r *Lines) List(ctx context.Context) ([]Line, error) {
	var out []Line
	err := r.c.do(ctx, http.MethodGet, "/lines", nil, &out)
	return out, err
}

func (r *Lines) Create(ctx context.Context, in LineIn) (Line, error) {
	var out Line
	if err := in.Validate(); err != nil {
		return out, err
	}
	err := r.c.do(ctx, http.MethodPost, "/lines", in, &out)
	return out, err
}

func (r *Lines) Update(ctx context.Context, id int64, in LineIn) (Line, error) {
	var out Line
	if err := in.Validate(); err != nil {
		return out, err
	}
	err := r.c.do(ctx, http.MethodPut, itemPath("/lines", id), in, &out)
	return out, err
}

func (r *Lines) Delete(ctx context.Context, id int64) (bool, error) {
	return r.c.deleteItem(ctx, "/lines", id)
}

type Systems struct{ c *Client }

func (r *Systems) List(ctx context.Context) ([]System, error) {
	var out []System
	err := r.c.do(ctx, http.MethodGet, "/systems", nil, &out)
	return out, err
}

func (r *Systems) Create(ctx context.Context, in SystemIn) (System, error) {
	var out System
	if err := in.Validate(); err != nil {
		return out, err
	}
	err := r.c.do(ctx, http.MethodPost, "/systems", in, &out)
	return out, err
}

func (r *Systems) Update(ctx context.Context, id int64, in SystemIn) (System, error) {
	var out System
	if err := in.Validate(); err != nil {
		return out, err
	}
	err := r.c.do(ctx, http.MethodPut, itemPath("/systems", id), in, &out)
	return out, err
}

func (r *Systems) Delete(ctx context.Context, id int64) (bool, error) {
	return r.c.deleteItem(ctx, "/systems", id)
}

// Users manages /users. The API only allows admins here.
type Users struct{ c *Client }

func (r *Users) List(ctx context.Context) ([]User, error) {
	var out []User
	err := r.c.do(ctx, http.MethodGet, "/users", nil, &out)
	return out, err
}

func (r *Users) Create(ctx context.Context, in UserIn) (User, error) {
	var out User
	if err := in.validateCreate(); err != nil {
		return out, err
	}
	err := r.c.do(ctx, http.MethodPost, "/users", in, &out)
	return out, err
}

func (r *Users) Update(ctx context.Context, id int64, in UserIn) (User, error) {
	var out User
	if err := in.Validate(); err != nil {
		return out, err
	}
	err := r.c.do(ctx, http.MethodPut, itemPath("/users", id), in, &out)
	return out, err
}

func (r *Users) Delete(ctx context.Context, id int64) (bool, error) {
	return r.c.deleteItem(ctx, "/users", id)
}
