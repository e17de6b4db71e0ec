package main

import (
	"net/url"
	"strings"
	"time"
)

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type validationErrors []fieldError

func (v *validationErrors) add(field, msg string) { *v = append(*v, fieldError{field, msg}) }

type personRequest struct {
	Name  string  `json:"name"`
	Email *string `json:"email"`
}

func (r *personRequest) normalize() validationErrors {
	var errs validationErrors
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		errs.add("name", "Informe o nome.")
	}
	r.Email = cleanOptional(r.Email)
	return errs
}

type personPatchRequest struct {
	Name  *string          `json:"name"`
	Email optional[string] `json:"email"`
}

func (r *personPatchRequest) normalize() validationErrors {
	var errs validationErrors
	if r.Name != nil {
		n := strings.TrimSpace(*r.Name)
		if n == "" {
			errs.add("name", "Informe o nome.")
		}
		r.Name = &n
	}
	if r.Email.Set {
		r.Email.Value = cleanOptional(r.Email.Value)
	}
	return errs
}

type systemRequest struct {
	Name string `json:"name"`
}

func (r *systemRequest) normalize() validationErrors {
	var errs validationErrors
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		errs.add("name", "Informe o nome do sistema")
	}
	return errs
}

type lineRequest struct {
	Name     string `json:"name"`
	SystemID *int64 `json:"system_id"`
}

func (r *lineRequest) normalize() validationErrors {
	var errs validationErrors
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		errs.add("name", "Informe o nome da linha")
	}
	checkID(&errs, "system_id", r.SystemID)
	return errs
}

type mediaRequest struct {
	Title       string            `json:"title"`
	Description *string           `json:"description"`
	Platform    string            `json:"platform"`
	URL         string            `json:"url"`
	PublishedAt string            `json:"published_at"`
	LineID      *int64            `json:"line_id"`
	SystemID    *int64            `json:"system_id"`
	People      []MediaPersonLink `json:"people"`
}

func (r mediaRequest) toInput() (MediaInput, validationErrors) {
	var errs validationErrors
	in := MediaInput{
		Title:       strings.TrimSpace(r.Title),
		Description: cleanOptional(r.Description),
		Platform:    r.Platform,
		URL:         strings.TrimSpace(r.URL),
		LineID:      r.LineID,
		SystemID:    r.SystemID,
		People:      r.People,
	}
	if in.Title == "" {
		errs.add("title", "Informe o título.")
	}
	checkPlatform(&errs, in.Platform)
	checkURL(&errs, in.URL)
	in.PublishedAt, _ = checkDate(&errs, "published_at", r.PublishedAt, true)
	checkID(&errs, "line_id", in.LineID)
	checkID(&errs, "system_id", in.SystemID)
	if in.People == nil {
		in.People = []MediaPersonLink{}
	}
	checkPeople(&errs, in.People)
	return in, errs
}

type mediaPatchRequest struct {
	Title       *string            `json:"title"`
	Description optional[string]   `json:"description"`
	Platform    *string            `json:"platform"`
	URL         *string            `json:"url"`
	PublishedAt *string            `json:"published_at"`
	LineID      optional[int64]    `json:"line_id"`
	SystemID    optional[int64]    `json:"system_id"`
	People      *[]MediaPersonLink `json:"people"`
}

func (r mediaPatchRequest) toPatch() (MediaPatch, validationErrors) {
	var errs validationErrors
	p := MediaPatch{
		Platform: r.Platform,
		LineID:   r.LineID,
		SystemID: r.SystemID,
		People:   r.People,
	}
	if r.Title != nil {
		t := strings.TrimSpace(*r.Title)
		if t == "" {
			errs.add("title", "Informe o título.")
		}
		p.Title = &t
	}
	if r.Description.Set {
		p.Description = optional[string]{Set: true, Value: cleanOptional(r.Description.Value)}
	}
	if r.Platform != nil {
		checkPlatform(&errs, *r.Platform)
	}
	if r.URL != nil {
		u := strings.TrimSpace(*r.URL)
		checkURL(&errs, u)
		p.URL = &u
	}
	if r.PublishedAt != nil {
		if d, ok := checkDate(&errs, "published_at", *r.PublishedAt, true); ok {
			p.PublishedAt = &d
		}
	}
	checkID(&errs, "line_id", r.LineID.Value)
	checkID(&errs, "system_id", r.SystemID.Value)
	if r.People != nil {
		checkPeople(&errs, *r.People)
	}
	return p, errs
}

type userRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Token    string `json:"token"`
	Role     string `json:"role"`
	PersonID *int64 `json:"person_id"`
}

// secret accepts either field name; password wins when both are sent.
func (r userRequest) secret() string {
	if r.Password != "" {
		return r.Password
	}
	return r.Token
}

func (r *userRequest) normalize(creating bool) validationErrors {
	var errs validationErrors
	r.Username = strings.ToLower(strings.TrimSpace(r.Username))
	switch {
	case r.Username == "":
		errs.add("username", "Informe o usuário.")
	case len([]rune(r.Username)) < 3:
		errs.add("username", "Usuário deve ter ao menos 3 caracteres.")
	}
	secret := r.secret()
	switch {
	case creating && secret == "":
		errs.add("token", "Informe o token.")
	case secret != "" && len([]rune(secret)) < 4:
		errs.add("token", "Token deve ter ao menos 4 caracteres.")
	}
	if r.Role == "" {
		r.Role = userRoleUser
	}
	if r.Role != userRoleAdmin && r.Role != userRoleUser {
		errs.add("role", "Perfil inválido (use admin ou user).")
	}
	checkID(&errs, "person_id", r.PersonID)
	return errs
}

type loginRequest struct {
	Username string `json:"username"`
	Token    string `json:"token"`
}

func (r *loginRequest) normalize() validationErrors {
	var errs validationErrors
	r.Username = strings.ToLower(strings.TrimSpace(r.Username))
	if r.Username == "" {
		errs.add("username", "Informe o usuário.")
	}
	if r.Token == "" {
		errs.add("token", "Informe o token.")
	}
	return errs
}

func checkPlatform(errs *validationErrors, p string) {
	if p != platformVimeo && p != platformYouTube {
		errs.add("platform", "Plataforma inválida.")
	}
}

func checkURL(errs *validationErrors, raw string) {
	if raw == "" {
		errs.add("url", "Informe a URL.")
		return
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs.add("url", "URL inválida. Use http(s)://...")
	}
}

func checkDate(errs *validationErrors, field, raw string, required bool) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if required {
			errs.add(field, "Informe a data.")
		}
		return time.Time{}, false
	}
	d, err := time.Parse(dateLayout, raw)
	if err != nil {
		errs.add(field, "Data inválida. Use AAAA-MM-DD.")
		return time.Time{}, false
	}
	return d, true
}

func checkID(errs *validationErrors, field string, id *int64) {
	if id != nil && *id <= 0 {
		errs.add(field, "Identificador inválido.")
	}
}

func checkPeople(errs *validationErrors, people []MediaPersonLink) {
	seen := make(map[int64]bool, len(people))
	responsible := 0
	for _, link := range people {
		if link.PersonID <= 0 {
			errs.add("people", "Identificador inválido.")
			return
		}
		if link.Role != roleResponsible && link.Role != roleParticipant {
			errs.add("people", "Papel inválido (use responsavel ou participante).")
			return
		}
		if seen[link.PersonID] {
			errs.add("people", "Pessoa repetida na mídia.")
			return
		}
		seen[link.PersonID] = true
		if link.Role == roleResponsible {
			responsible++
		}
	}
	if responsible > 1 {
		errs.add("people", "Apenas um responsável por mídia.")
	}
}

// cleanOptional trims s and maps blank to nil.
func cleanOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
