package main

import (
	"encoding/json"
	"time"
)

const (
	platformVimeo   = "vimeo"
	platformYouTube = "youtube"

	roleResponsible = "responsavel"
	roleParticipant = "participante"

	userRoleAdmin = "admin"
	userRoleUser  = "user"

	dateLayout = "2006-01-02"
)

type Person struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     *string   `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type System struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Line struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	SystemID   *int64  `json:"system_id,omitempty"`
	SystemName *string `json:"system_name,omitempty"`
}

type MediaPersonLink struct {
	PersonID int64  `json:"person_id"`
	Role     string `json:"role"`
}

type Media struct {
	ID          int64             `json:"id"`
	Title       string            `json:"title"`
	Description *string           `json:"description,omitempty"`
	Platform    string            `json:"platform"`
	URL         string            `json:"url"`
	PublishedAt string            `json:"published_at"`
	LineID      *int64            `json:"line_id,omitempty"`
	SystemID    *int64            `json:"system_id,omitempty"`
	People      []MediaPersonLink `json:"people"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// MediaInput is a validated media payload for create and full replace.
type MediaInput struct {
	Title       string
	Description *string
	Platform    string
	URL         string
	PublishedAt time.Time
	LineID      *int64
	SystemID    *int64
	People      []MediaPersonLink
}

// MediaPatch holds the fields of a partial update; unset fields stay as they are.
type MediaPatch struct {
	Title       *string
	Description optional[string]
	Platform    *string
	URL         *string
	PublishedAt *time.Time
	LineID      optional[int64]
	SystemID    optional[int64]
	People      *[]MediaPersonLink
}

// MediaFilter narrows ListMedia. PersonID matches any role.
type MediaFilter struct {
	Platform string
	PersonID *int64
	LineID   *int64
	SystemID *int64
	DateFrom *time.Time
	DateTo   *time.Time
}

type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	PersonID  *int64    `json:"person_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (u User) IsAdmin() bool { return u.Role == userRoleAdmin }

// optional tells an absent JSON field apart from an explicit null.
type optional[T any] struct {
	Set   bool
	Value *T
}

func (o *optional[T]) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}
