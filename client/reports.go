package client

import (
	"context"
	"net/url"
	"strconv"
)

// Reports exposes /reports.
type Reports struct{ c *Client }

// ByPerson lists the media a person takes part in, narrowed by q.
// q.PersonID is required.
func (r *Reports) ByPerson(ctx context.Context, q MediaQuery) ([]Media, error) {
	v, err := byPersonValues(q)
	if err != nil {
		return nil, err
	}
	res, err := r.c.Request(ctx, "/reports/by-person", RequestOptions{Query: v})
	if err != nil {
		return nil, err
	}
	var out []Media
	err = res.Decode(&out)
	return out, err
}

// ByPersonCSV returns the same report rendered as CSV by the server.
func (r *Reports) ByPersonCSV(ctx context.Context, q MediaQuery) ([]byte, error) {
	v, err := byPersonValues(q)
	if err != nil {
		return nil, err
	}
	v.Set("csv_export", strconv.FormatBool(true))
	res, err := r.c.Request(ctx, "/reports/by-person", RequestOptions{Query: v})
	if err != nil {
		return nil, err
	}
	return res.Raw, nil
}

func byPersonValues(q MediaQuery) (url.Values, error) {
	if q.PersonID <= 0 {
		return nil, invalid("person_id", "Informe a pessoa.")
	}
	return q.values(), nil
}
