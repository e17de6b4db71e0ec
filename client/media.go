package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// MediaResource manages /media.
type MediaResource struct{ c *Client }

func (r *MediaResource) List(ctx context.Context) ([]Media, error) {
	return r.Find(ctx, MediaQuery{})
}

// Find lists media matching the server-side filters in q.
func (r *MediaResource) Find(ctx context.Context, q MediaQuery) ([]Media, error) {
	res, err := r.c.Request(ctx, "/media", RequestOptions{Query: q.values()})
	if err != nil {
		return nil, err
	}
	var out []Media
	err = res.Decode(&out)
	return out, err
}

func (r *MediaResource) Get(ctx context.Context, id int64) (Media, error) {
	var out Media
	err := r.c.do(ctx, http.MethodGet, itemPath("/media", id), nil, &out)
	return out, err
}

func (r *MediaResource) Create(ctx context.Context, in MediaIn) (Media, error) {
	var out Media
	if err := in.Validate(); err != nil {
		return out, err
	}
	err := r.c.do(ctx, http.MethodPost, "/media", normalizeMedia(in), &out)
	return out, err
}

// Update replaces the record; optional fields left empty are cleared.
func (r *MediaResource) Update(ctx context.Context, id int64, in MediaIn) (Media, error) {
	var out Media
	if err := in.Validate(); err != nil {
		return out, err
	}
	err := r.c.do(ctx, http.MethodPut, itemPath("/media", id), normalizeMedia(in), &out)
	return out, err
}

// UpdatePartial sends only the fields set in patch.
func (r *MediaResource) UpdatePartial(ctx context.Context, id int64, patch MediaPatch) (Media, error) {
	var out Media
	if err := patch.Validate(); err != nil {
		return out, err
	}
	err := r.c.do(ctx, http.MethodPatch, itemPath("/media", id), patch, &out)
	return out, err
}

func (r *MediaResource) Delete(ctx context.Context, id int64) (bool, error) {
	return r.c.deleteItem(ctx, "/media", id)
}

func normalizeMedia(in MediaIn) MediaIn {
	if in.People == nil {
		in.People = PersonLinks{}
	}
	return in
}

func setID(v url.Values, key string, id int64) {
	if id > 0 {
		v.Set(key, strconv.FormatInt(id, 10))
	}
}
