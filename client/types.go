package client

import (
	"encoding/json"
	"net/url"
	"strings"
	"time"
)

type Platform string

const (
	PlatformVimeo   Platform = "vimeo"
	PlatformYouTube Platform = "youtube"
)

func (p Platform) Valid() bool { return p == PlatformVimeo || p == PlatformYouTube }

// Role is a person's role in a media record.
type Role string

const (
	RoleResponsible Role = "responsavel"
	RoleParticipant Role = "participante"
)

func (r Role) Valid() bool { return r == RoleResponsible || r == RoleParticipant }

type UserRole string

const (
	UserRoleAdmin UserRole = "admin"
	UserRoleUser  UserRole = "user"
)

// DateLayout is the wire format of Media.PublishedAt.
const DateLayout = "2006-01-02"

type Person struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Email     *string `json:"email,omitempty"`
	CreatedAt string  `json:"created_at,omitempty"`
}

type PersonIn struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// PersonPatch carries only the fields to change.
type PersonPatch struct {
	Name  *string          `json:"name,omitempty"`
	Email Nullable[string] `json:"email,omitzero"`
}

type System struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type SystemIn struct {
	Name string `json:"name"`
}

type Line struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	SystemID   *int64 `json:"system_id,omitempty"`
	SystemName string `json:"system_name,omitempty"`
}

// LineIn replaces a line; a nil SystemID unlinks it from its system.
type LineIn struct {
	Name     string `json:"name"`
	SystemID *int64 `json:"system_id"`
}

type MediaPersonLink struct {
	PersonID int64 `json:"person_id"`
	Role     Role  `json:"role"`
}

type Media struct {
	ID          int64       `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Platform    Platform    `json:"platform"`
	URL         string      `json:"url"`
	PublishedAt string      `json:"published_at"`
	LineID      *int64      `json:"line_id,omitempty"`
	SystemID    *int64      `json:"system_id,omitempty"`
	People      PersonLinks `json:"people"`
}

// MediaIn is the full representation sent on create and replace.
type MediaIn struct {
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Platform    Platform    `json:"platform"`
	URL         string      `json:"url"`
	PublishedAt string      `json:"published_at"`
	LineID      *int64      `json:"line_id,omitempty"`
	SystemID    *int64      `json:"system_id,omitempty"`
	People      PersonLinks `json:"people"`
}

// MediaPatch carries only the fields to change. Unset fields are left out
// of the payload; use Null to clear an optional field on the server.
type MediaPatch struct {
	Title       *string          `json:"title,omitempty"`
	Description Nullable[string] `json:"description,omitzero"`
	Platform    *Platform        `json:"platform,omitempty"`
	URL         *string          `json:"url,omitempty"`
	PublishedAt *string          `json:"published_at,omitempty"`
	LineID      Nullable[int64]  `json:"line_id,omitzero"`
	SystemID    Nullable[int64]  `json:"system_id,omitzero"`
	People      *PersonLinks     `json:"people,omitempty"`
}

// MediaQuery holds the server-side filters of GET /media.
type MediaQuery struct {
	Platform Platform
	PersonID int64
	LineID   int64
	SystemID int64
	DateFrom string
	DateTo   string
}

func (q MediaQuery) values() url.Values {
	v := url.Values{}
	if q.Platform != "" {
		v.Set("platform", string(q.Platform))
	}
	setID(v, "person_id", q.PersonID)
	setID(v, "line_id", q.LineID)
	setID(v, "system_id", q.SystemID)
	if q.DateFrom != "" {
		v.Set("date_from", q.DateFrom)
	}
	if q.DateTo != "" {
		v.Set("date_to", q.DateTo)
	}
	return v
}

type User struct {
	ID        int64    `json:"id"`
	Username  string   `json:"username"`
	Role      UserRole `json:"role"`
	PersonID  *int64   `json:"person_id,omitempty"`
	CreatedAt string   `json:"created_at,omitempty"`
}

// UserIn creates or replaces a user. On replace an empty Password keeps
// the current secret.
type UserIn struct {
	Username string   `json:"username"`
	Password string   `json:"password,omitempty"`
	Role     UserRole `json:"role,omitempty"`
	PersonID *int64   `json:"person_id"`
}

// Nullable is a tri-state optional: unset (omitted with omitzero),
// explicit null, or a value.
type Nullable[T any] struct {
	value T
	set   bool
	null  bool
}

func Value[T any](v T) Nullable[T] { return Nullable[T]{value: v, set: true} }

func Null[T any]() Nullable[T] { return Nullable[T]{set: true, null: true} }

func (n Nullable[T]) IsZero() bool { return !n.set }

func (n Nullable[T]) IsNull() bool { return n.set && n.null }

// Get returns the value and whether one (non-null) was set.
func (n Nullable[T]) Get() (T, bool) { return n.value, n.set && !n.null }

func (n Nullable[T]) MarshalJSON() ([]byte, error) {
	if !n.set || n.null {
		return []byte("null"), nil
	}
	return json.Marshal(n.value)
}

func (n *Nullable[T]) UnmarshalJSON(b []byte) error {
	n.set = true
	if string(b) == "null" {
		n.null = true
		return nil
	}
	n.null = false
	return json.Unmarshal(b, &n.value)
}

// Ptr returns a pointer to v, handy for patch payloads.
func Ptr[T any](v T) *T { return &v }

func isHTTPURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func validDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }
