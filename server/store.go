package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

// People

const personCols = `id, name, email, created_at`

func scanPerson(row interface{ Scan(...any) error }) (Person, error) {
	var p Person
	var email sql.NullString
	if err := row.Scan(&p.ID, &p.Name, &email, &p.CreatedAt); err != nil {
		return Person{}, err
	}
	if email.Valid {
		p.Email = &email.String
	}
	return p, nil
}

func (s *Store) ListPeople(ctx context.Context) ([]Person, error) {
	rows, err := s.db.QueryContext(ctx, `select `+personCols+` from people order by lower(name), id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Person{}
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) GetPerson(ctx context.Context, id int64) (Person, error) {
	p, err := scanPerson(s.db.QueryRowContext(ctx, `select `+personCols+` from people where id=$1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Person{}, ErrNotFound
	}
	return p, err
}

func (s *Store) CreatePerson(ctx context.Context, name string, email *string) (Person, error) {
	return scanPerson(s.db.QueryRowContext(ctx,
		`insert into people(name, email) values($1,$2) returning `+personCols, name, email))
}

func (s *Store) UpdatePerson(ctx context.Context, id int64, name string, email *string) (Person, error) {
	p, err := scanPerson(s.db.QueryRowContext(ctx,
		`update people set name=$1, email=$2 where id=$3 returning `+personCols, name, email, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Person{}, ErrNotFound
	}
	return p, err
}

func (s *Store) PatchPerson(ctx context.Context, id int64, name *string, email optional[string]) (Person, error) {
	set := []string{}
	args := []any{}
	idx := 1
	if name != nil {
		set = append(set, fmt.Sprintf("name=$%d", idx))
		args = append(args, *name)
		idx++
	}
	if email.Set {
		set = append(set, fmt.Sprintf("email=$%d", idx))
		args = append(args, email.Value)
		idx++
	}
	if len(set) == 0 {
		return s.GetPerson(ctx, id)
	}
	q := fmt.Sprintf("update people set %s where id=$%d returning %s", joinComma(set), idx, personCols)
	args = append(args, id)
	p, err := scanPerson(s.db.QueryRowContext(ctx, q, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return Person{}, ErrNotFound
	}
	return p, err
}

// DeletePerson also removes the person's media links and unlinks users.
func (s *Store) DeletePerson(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, `delete from people where id=$1`, id)
}

// Systems

func (s *Store) ListSystems(ctx context.Context) ([]System, error) {
	rows, err := s.db.QueryContext(ctx, `select id, name from systems order by lower(name), id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []System{}
	for rows.Next() {
		var sys System
		if err := rows.Scan(&sys.ID, &sys.Name); err != nil {
			return nil, err
		}
		out = append(out, sys)
	}
	return out, rows.Err()
}

func (s *Store) CreateSystem(ctx context.Context, name string) (System, error) {
	var sys System
	err := s.db.QueryRowContext(ctx, `insert into systems(name) values($1) returning id, name`, name).
		Scan(&sys.ID, &sys.Name)
	return sys, err
}

func (s *Store) UpdateSystem(ctx context.Context, id int64, name string) (System, error) {
	var sys System
	err := s.db.QueryRowContext(ctx, `update systems set name=$1 where id=$2 returning id, name`, name, id).
		Scan(&sys.ID, &sys.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return System{}, ErrNotFound
	}
	return sys, err
}

// DeleteSystem leaves its lines and media without a system.
func (s *Store) DeleteSystem(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, `delete from systems where id=$1`, id)
}

// Lines

const lineSelect = `select l.id, l.name, l.system_id, s.name from lines l left join systems s on s.id=l.system_id`

func scanLine(row interface{ Scan(...any) error }) (Line, error) {
	var l Line
	var sysID sql.NullInt64
	var sysName sql.NullString
	if err := row.Scan(&l.ID, &l.Name, &sysID, &sysName); err != nil {
		return Line{}, err
	}
	if sysID.Valid {
		l.SystemID = &sysID.Int64
	}
	if sysName.Valid {
		l.SystemName = &sysName.String
	}
	return l, nil
}

func (s *Store) ListLines(ctx context.Context) ([]Line, error) {
	rows, err := s.db.QueryContext(ctx, lineSelect+` order by lower(l.name), l.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Line{}
	for rows.Next() {
		l, err := scanLine(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *Store) GetLine(ctx context.Context, id int64) (Line, error) {
	l, err := scanLine(s.db.QueryRowContext(ctx, lineSelect+` where l.id=$1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Line{}, ErrNotFound
	}
	return l, err
}

func (s *Store) CreateLine(ctx context.Context, name string, systemID *int64) (Line, error) {
	var id int64
	if err := s.db.QueryRowContext(ctx, `insert into lines(name, system_id) values($1,$2) returning id`, name, systemID).Scan(&id); err != nil {
		return Line{}, err
	}
	return s.GetLine(ctx, id)
}

func (s *Store) UpdateLine(ctx context.Context, id int64, name string, systemID *int64) (Line, error) {
	res, err := s.db.ExecContext(ctx, `update lines set name=$1, system_id=$2 where id=$3`, name, systemID, id)
	if err != nil {
		return Line{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Line{}, ErrNotFound
	}
	return s.GetLine(ctx, id)
}

// DeleteLine leaves its media without a line.
func (s *Store) DeleteLine(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, `delete from lines where id=$1`, id)
}

// Users and auth

const userCols = `id, username, role, person_id, created_at`

func scanUser(row interface{ Scan(...any) error }) (User, error) {
	var u User
	var personID sql.NullInt64
	if err := row.Scan(&u.ID, &u.Username, &u.Role, &personID, &u.CreatedAt); err != nil {
		return User{}, err
	}
	if personID.Valid {
		u.PersonID = &personID.Int64
	}
	return u, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := s.db.QueryContext(ctx, `select `+userCols+` from users order by username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *Store) CreateUser(ctx context.Context, username, token, role string, personID *int64) (User, error) {
	hash, err := hashToken(token)
	if err != nil {
		return User{}, err
	}
	return scanUser(s.db.QueryRowContext(ctx,
		`insert into users(username, password_hash, role, person_id) values($1,$2,$3,$4) returning `+userCols,
		username, hash, role, personID))
}

// UpdateUser replaces a user. An empty token keeps the current secret.
func (s *Store) UpdateUser(ctx context.Context, id int64, username, token, role string, personID *int64) (User, error) {
	var row *sql.Row
	if token == "" {
		row = s.db.QueryRowContext(ctx,
			`update users set username=$1, role=$2, person_id=$3 where id=$4 returning `+userCols,
			username, role, personID, id)
	} else {
		hash, err := hashToken(token)
		if err != nil {
			return User{}, err
		}
		row = s.db.QueryRowContext(ctx,
			`update users set username=$1, role=$2, person_id=$3, password_hash=$4 where id=$5 returning `+userCols,
			username, role, personID, hash, id)
	}
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, `delete from users where id=$1`, id)
}

// EnsureAdmin creates an admin with the given credentials unless the
// username is already taken. It reports whether a user was created.
func (s *Store) EnsureAdmin(ctx context.Context, username, token string) (bool, error) {
	hash, err := hashToken(token)
	if err != nil {
		return false, err
	}
	res, err := s.db.ExecContext(ctx,
		`insert into users(username, password_hash, role) values($1,$2,'admin') on conflict (username) do nothing`,
		username, hash)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// Authenticate checks a username/token pair. Unknown users and wrong
// tokens both yield ErrNotFound.
func (s *Store) Authenticate(ctx context.Context, username, token string) (User, error) {
	var hash string
	var u User
	var personID sql.NullInt64
	err := s.db.QueryRowContext(ctx, `select `+userCols+`, password_hash from users where username=$1`, username).
		Scan(&u.ID, &u.Username, &u.Role, &personID, &u.CreatedAt, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(token)) != nil {
		return User{}, ErrNotFound
	}
	if personID.Valid {
		u.PersonID = &personID.Int64
	}
	return u, nil
}

func (s *Store) CreateSession(ctx context.Context, userID int64, ttl time.Duration) (string, time.Time, error) {
	// 32 random bytes, base64 URL encoded
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", time.Time{}, err
	}
	token := base64.RawURLEncoding.EncodeToString(b)
	expires := time.Now().Add(ttl)
	_, err := s.db.ExecContext(ctx, `insert into sessions(user_id, token, expires_at) values($1,$2,$3)`, userID, token, expires)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expires, nil
}

func (s *Store) UserBySession(ctx context.Context, token string) (User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, `select u.id, u.username, u.role, u.person_id, u.created_at
		from sessions s join users u on u.id=s.user_id
		where s.token=$1 and s.expires_at > now()`, token))
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

func (s *Store) DeleteSession(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, `delete from sessions where token=$1`, token)
	return err
}

func (s *Store) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `delete from sessions where expires_at <= now()`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func hashToken(token string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (s *Store) deleteByID(ctx context.Context, q string, id int64) error {
	res, err := s.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

var ErrNotFound = errors.New("not found")

func joinComma(parts []string) string { return strings.Join(parts, ", ") }

const schema = `
create table if not exists systems(
    id bigserial primary key,
    name text not null check (length(trim(name)) > 0),
    created_at timestamptz not null default now(),
    constraint systems_name_key unique(name)
);

create table if not exists lines(
    id bigserial primary key,
    name text not null check (length(trim(name)) > 0),
    system_id bigint constraint lines_system_id_fkey references systems(id) on delete set null,
    created_at timestamptz not null default now(),
    constraint lines_name_key unique(name)
);
create index if not exists lines_system_idx on lines(system_id);

create table if not exists people(
    id bigserial primary key,
    name text not null check (length(trim(name)) > 0),
    email text,
    created_at timestamptz not null default now()
);
create unique index if not exists people_email_key on people(lower(email)) where email is not null;

create table if not exists media(
    id bigserial primary key,
    title text not null check (length(trim(title)) > 0),
    description text,
    platform text not null constraint media_platform_check check (platform in ('vimeo','youtube')),
    url text not null,
    published_at date not null,
    line_id bigint constraint media_line_id_fkey references lines(id) on delete set null,
    system_id bigint constraint media_system_id_fkey references systems(id) on delete set null,
    created_at timestamptz not null default now(),
    updated_at timestamptz not null default now()
);
create index if not exists media_published_idx on media(published_at desc);
create index if not exists media_line_idx on media(line_id);
create index if not exists media_system_idx on media(system_id);

create table if not exists media_person(
    media_id bigint not null references media(id) on delete cascade,
    person_id bigint not null constraint media_person_person_id_fkey references people(id) on delete cascade,
    role text not null constraint media_person_role_check check (role in ('responsavel','participante')),
    constraint media_person_pkey primary key(media_id, person_id)
);
create index if not exists media_person_person_idx on media_person(person_id);
create unique index if not exists media_person_one_responsible on media_person(media_id) where role = 'responsavel';

create table if not exists users(
    id bigserial primary key,
    username text not null,
    password_hash text not null,
    role text not null default 'user' constraint users_role_check check (role in ('admin','user')),
    person_id bigint constraint users_person_id_fkey references people(id) on delete set null,
    created_at timestamptz not null default now(),
    constraint users_username_key unique(username)
);

create table if not exists sessions(
    id bigserial primary key,
    user_id bigint not null references users(id) on delete cascade,
    token text unique not null,
    created_at timestamptz not null default now(),
    expires_at timestamptz not null
);
create index if not exists sessions_expires_idx on sessions(expires_at);
`
