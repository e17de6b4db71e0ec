package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

const mediaCols = `m.id, m.title, m.description, m.platform, m.url, to_char(m.published_at, 'YYYY-MM-DD'),
	m.line_id, m.system_id, m.created_at, m.updated_at`

func scanMedia(row interface{ Scan(...any) error }) (Media, error) {
	var m Media
	var desc sql.NullString
	var lineID, systemID sql.NullInt64
	if err := row.Scan(&m.ID, &m.Title, &desc, &m.Platform, &m.URL, &m.PublishedAt,
		&lineID, &systemID, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return Media{}, err
	}
	if desc.Valid {
		m.Description = &desc.String
	}
	if lineID.Valid {
		m.LineID = &lineID.Int64
	}
	if systemID.Valid {
		m.SystemID = &systemID.Int64
	}
	m.People = []MediaPersonLink{}
	return m, nil
}

// ListMedia returns the media matching f, newest first.
func (s *Store) ListMedia(ctx context.Context, f MediaFilter) ([]Media, error) {
	q := `select ` + mediaCols + ` from media m`
	where := []string{}
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if f.PersonID != nil {
		where = append(where, "exists (select 1 from media_person mp where mp.media_id=m.id and mp.person_id="+arg(*f.PersonID)+")")
	}
	if f.Platform != "" {
		where = append(where, "m.platform="+arg(f.Platform))
	}
	if f.LineID != nil {
		where = append(where, "m.line_id="+arg(*f.LineID))
	}
	if f.SystemID != nil {
		where = append(where, "m.system_id="+arg(*f.SystemID))
	}
	if f.DateFrom != nil {
		where = append(where, "m.published_at>="+arg(*f.DateFrom))
	}
	if f.DateTo != nil {
		where = append(where, "m.published_at<="+arg(*f.DateTo))
	}
	if len(where) > 0 {
		q += " where " + strings.Join(where, " and ")
	}
	q += " order by m.published_at desc, m.id desc"

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Media{}
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := s.attachPeople(ctx, s.db, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) GetMedia(ctx context.Context, id int64) (Media, error) {
	return s.getMedia(ctx, s.db, id)
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) getMedia(ctx context.Context, q queryer, id int64) (Media, error) {
	m, err := scanMedia(q.QueryRowContext(ctx, `select `+mediaCols+` from media m where m.id=$1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Media{}, ErrNotFound
	}
	if err != nil {
		return Media{}, err
	}
	items := []Media{m}
	if err := s.attachPeople(ctx, q, items); err != nil {
		return Media{}, err
	}
	return items[0], nil
}

// attachPeople loads the links of every item in one query. The
// responsible comes first, then participants by person id.
func (s *Store) attachPeople(ctx context.Context, q queryer, items []Media) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]int64, len(items))
	index := make(map[int64]int, len(items))
	for i, m := range items {
		ids[i] = m.ID
		index[m.ID] = i
	}
	rows, err := q.QueryContext(ctx, `select media_id, person_id, role from media_person
		where media_id = any($1) order by media_id, role <> 'responsavel', person_id`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var mediaID int64
		var link MediaPersonLink
		if err := rows.Scan(&mediaID, &link.PersonID, &link.Role); err != nil {
			return err
		}
		if i, ok := index[mediaID]; ok {
			items[i].People = append(items[i].People, link)
		}
	}
	return rows.Err()
}

func (s *Store) CreateMedia(ctx context.Context, in MediaInput) (Media, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Media{}, err
	}
	defer func() { _ = tx.Rollback() }()
	var id int64
	err = tx.QueryRowContext(ctx, `insert into media(title, description, platform, url, published_at, line_id, system_id)
		values($1,$2,$3,$4,$5,$6,$7) returning id`,
		in.Title, in.Description, in.Platform, in.URL, in.PublishedAt, in.LineID, in.SystemID).Scan(&id)
	if err != nil {
		return Media{}, err
	}
	if err := replacePeople(ctx, tx, id, in.People); err != nil {
		return Media{}, err
	}
	m, err := s.getMedia(ctx, tx, id)
	if err != nil {
		return Media{}, err
	}
	return m, tx.Commit()
}

// UpdateMedia replaces every field; absent optional fields become null and
// the people list is rewritten.
func (s *Store) UpdateMedia(ctx context.Context, id int64, in MediaInput) (Media, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Media{}, err
	}
	defer func() { _ = tx.Rollback() }()
	res, err := tx.ExecContext(ctx, `update media set title=$1, description=$2, platform=$3, url=$4,
		published_at=$5, line_id=$6, system_id=$7, updated_at=now() where id=$8`,
		in.Title, in.Description, in.Platform, in.URL, in.PublishedAt, in.LineID, in.SystemID, id)
	if err != nil {
		return Media{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Media{}, ErrNotFound
	}
	if err := replacePeople(ctx, tx, id, in.People); err != nil {
		return Media{}, err
	}
	m, err := s.getMedia(ctx, tx, id)
	if err != nil {
		return Media{}, err
	}
	return m, tx.Commit()
}

// PatchMedia changes only the fields set in p. People is rewritten only
// when present.
func (s *Store) PatchMedia(ctx context.Context, id int64, p MediaPatch) (Media, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Media{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	if err := tx.QueryRowContext(ctx, `select 1 from media where id=$1 for update`, id).Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Media{}, ErrNotFound
		}
		return Media{}, err
	}

	set := []string{}
	args := []any{}
	add := func(col string, v any) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s=$%d", col, len(args)))
	}
	if p.Title != nil {
		add("title", *p.Title)
	}
	if p.Description.Set {
		add("description", p.Description.Value)
	}
	if p.Platform != nil {
		add("platform", *p.Platform)
	}
	if p.URL != nil {
		add("url", *p.URL)
	}
	if p.PublishedAt != nil {
		add("published_at", *p.PublishedAt)
	}
	if p.LineID.Set {
		add("line_id", p.LineID.Value)
	}
	if p.SystemID.Set {
		add("system_id", p.SystemID.Value)
	}
	if len(set) > 0 || p.People != nil {
		set = append(set, "updated_at=now()")
		args = append(args, id)
		q := fmt.Sprintf("update media set %s where id=$%d", joinComma(set), len(args))
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return Media{}, err
		}
	}
	if p.People != nil {
		if err := replacePeople(ctx, tx, id, *p.People); err != nil {
			return Media{}, err
		}
	}
	m, err := s.getMedia(ctx, tx, id)
	if err != nil {
		return Media{}, err
	}
	return m, tx.Commit()
}

func (s *Store) DeleteMedia(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, `delete from media where id=$1`, id)
}

func replacePeople(ctx context.Context, tx *sql.Tx, mediaID int64, people []MediaPersonLink) error {
	if _, err := tx.ExecContext(ctx, `delete from media_person where media_id=$1`, mediaID); err != nil {
		return err
	}
	for _, link := range people {
		if _, err := tx.ExecContext(ctx, `insert into media_person(media_id, person_id, role) values($1,$2,$3)`,
			mediaID, link.PersonID, link.Role); err != nil {
			return err
		}
	}
	return nil
}
