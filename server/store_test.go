package main

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestDB connects to TEST_DATABASE_URL (or DATABASE_URL) and resets the
// schema. Tests that need Postgres are skipped when neither is set.
func openTestDB(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		dsn = os.Getenv("DATABASE_URL")
	}
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	s := NewStore(db)
	require.NoError(t, s.Migrate(ctx))
	_, err = db.ExecContext(ctx, `truncate sessions, users, media_person, media, lines, systems, people restart identity cascade`)
	require.NoError(t, err)
	return s
}

func day(s string) time.Time {
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestStorePeople(t *testing.T) {
	s := openTestDB(t)
	ctx := context.Background()

	ana, err := s.CreatePerson(ctx, "Ana", ptr("ana@x.com"))
	require.NoError(t, err)
	_, err = s.CreatePerson(ctx, "Outra Ana", ptr("ANA@x.com"))
	msg, ok := conflictMessage(err)
	require.True(t, ok, "%v", err)
	assert.Equal(t, "Já existe pessoa com esse e-mail", msg)

	p, err := s.PatchPerson(ctx, ana.ID, nil, optional[string]{Set: true})
	require.NoError(t, err)
	assert.Equal(t, "Ana", p.Name)
	assert.Nil(t, p.Email)

	p, err = s.PatchPerson(ctx, ana.ID, ptr("Ana Maria"), optional[string]{})
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", p.Name)

	require.NoError(t, s.DeletePerson(ctx, ana.ID))
	assert.ErrorIs(t, s.DeletePerson(ctx, ana.ID), ErrNotFound)
	_, err = s.GetPerson(ctx, ana.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreLinesAndSystems(t *testing.T) {
	s := openTestDB(t)
	ctx := context.Background()

	tv, err := s.CreateSystem(ctx, "TV")
	require.NoError(t, err)
	l, err := s.CreateLine(ctx, "Jornalismo", &tv.ID)
	require.NoError(t, err)
	require.NotNil(t, l.SystemName)
	assert.Equal(t, "TV", *l.SystemName)

	_, err = s.CreateLine(ctx, "Jornalismo", nil)
	msg, ok := conflictMessage(err)
	require.True(t, ok)
	assert.Equal(t, "Linha já existe com esse nome", msg)

	require.NoError(t, s.DeleteSystem(ctx, tv.ID))
	l, err = s.GetLine(ctx, l.ID)
	require.NoError(t, err)
	assert.Nil(t, l.SystemID)
}

func TestStoreMedia(t *testing.T) {
	s := openTestDB(t)
	ctx := context.Background()

	ana, err := s.CreatePerson(ctx, "Ana", nil)
	require.NoError(t, err)
	bruno, err := s.CreatePerson(ctx, "Bruno", nil)
	require.NoError(t, err)
	line, err := s.CreateLine(ctx, "Esportes", nil)
	require.NoError(t, err)

	first, err := s.CreateMedia(ctx, MediaInput{
		Title: "Abertura", Platform: platformYouTube, URL: "https://youtu.be/a",
		PublishedAt: day("2025-08-10"), LineID: &line.ID,
		People: []MediaPersonLink{
			{PersonID: bruno.ID, Role: roleParticipant},
			{PersonID: ana.ID, Role: roleResponsible},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "2025-08-10", first.PublishedAt)
	assert.Equal(t, []MediaPersonLink{
		{PersonID: ana.ID, Role: roleResponsible},
		{PersonID: bruno.ID, Role: roleParticipant},
	}, first.People)

	second, err := s.CreateMedia(ctx, MediaInput{
		Title: "Bastidores", Platform: platformVimeo, URL: "https://vimeo.com/1",
		PublishedAt: day("2025-09-01"), People: []MediaPersonLink{},
	})
	require.NoError(t, err)

	all, err := s.ListMedia(ctx, MediaFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID, "newest first")
	assert.Empty(t, all[0].People)

	byPerson, err := s.ListMedia(ctx, MediaFilter{PersonID: &bruno.ID})
	require.NoError(t, err)
	require.Len(t, byPerson, 1)
	assert.Equal(t, first.ID, byPerson[0].ID)

	from := day("2025-09-01")
	recent, err := s.ListMedia(ctx, MediaFilter{DateFrom: &from, Platform: platformVimeo})
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, second.ID, recent[0].ID)

	patched, err := s.PatchMedia(ctx, first.ID, MediaPatch{
		Title:  ptr("Abertura oficial"),
		LineID: optional[int64]{Set: true},
	})
	require.NoError(t, err)
	assert.Equal(t, "Abertura oficial", patched.Title)
	assert.Nil(t, patched.LineID)
	assert.Len(t, patched.People, 2, "people untouched when absent")

	require.NoError(t, s.DeletePerson(ctx, ana.ID))
	got, err := s.GetMedia(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, []MediaPersonLink{{PersonID: bruno.ID, Role: roleParticipant}}, got.People)

	_, err = s.PatchMedia(ctx, 9999, MediaPatch{Title: ptr("x")})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.CreateMedia(ctx, MediaInput{
		Title: "Fantasma", Platform: platformVimeo, URL: "https://vimeo.com/2",
		PublishedAt: day("2025-09-02"), People: []MediaPersonLink{{PersonID: 9999, Role: roleParticipant}},
	})
	_, ok := conflictMessage(err)
	assert.True(t, ok, "%v", err)
}

func TestStoreUsersAndSessions(t *testing.T) {
	s := openTestDB(t)
	ctx := context.Background()

	created, err := s.EnsureAdmin(ctx, "admin", "s3cret")
	require.NoError(t, err)
	assert.True(t, created)
	created, err = s.EnsureAdmin(ctx, "admin", "other")
	require.NoError(t, err)
	assert.False(t, created)

	u, err := s.Authenticate(ctx, "admin", "s3cret")
	require.NoError(t, err)
	assert.True(t, u.IsAdmin())
	_, err = s.Authenticate(ctx, "admin", "other")
	assert.ErrorIs(t, err, ErrNotFound)

	maria, err := s.CreateUser(ctx, "maria", "abcd", userRoleUser, nil)
	require.NoError(t, err)
	_, err = s.UpdateUser(ctx, maria.ID, "maria", "", userRoleAdmin, nil)
	require.NoError(t, err)
	u, err = s.Authenticate(ctx, "maria", "abcd")
	require.NoError(t, err, "empty token keeps the secret")
	assert.True(t, u.IsAdmin())

	token, _, err := s.CreateSession(ctx, maria.ID, time.Hour)
	require.NoError(t, err)
	u, err = s.UserBySession(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, maria.ID, u.ID)

	stale, _, err := s.CreateSession(ctx, maria.ID, -time.Minute)
	require.NoError(t, err)
	_, err = s.UserBySession(ctx, stale)
	assert.True(t, errors.Is(err, ErrNotFound))
	n, err := s.DeleteExpiredSessions(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	require.NoError(t, s.DeleteSession(ctx, token))
	_, err = s.UserBySession(ctx, token)
	assert.ErrorIs(t, err, ErrNotFound)
}
