package client

import "strings"

func (in PersonIn) Validate() error {
	if blank(in.Name) {
		return invalid("name", "Informe o nome.")
	}
	return nil
}

func (p PersonPatch) Validate() error {
	if p.Name != nil && blank(*p.Name) {
		return invalid("name", "Informe o nome.")
	}
	return nil
}

func (in SystemIn) Validate() error {
	if blank(in.Name) {
		return invalid("name", "Informe o nome do sistema")
	}
	return nil
}

func (in LineIn) Validate() error {
	if blank(in.Name) {
		return invalid("name", "Informe o nome da linha")
	}
	return nil
}

func (in UserIn) Validate() error {
	if blank(in.Username) {
		return invalid("username", "Informe o usuário.")
	}
	if in.Role != "" && in.Role != UserRoleAdmin && in.Role != UserRoleUser {
		return invalid("role", "Perfil inválido (use admin ou user).")
	}
	if in.Password != "" && len([]rune(in.Password)) < 4 {
		return invalid("password", "Token deve ter ao menos 4 caracteres.")
	}
	return nil
}

// validateCreate adds the rule that only applies on create: a new user
// needs a secret.
func (in UserIn) validateCreate() error {
	if err := in.Validate(); err != nil {
		return err
	}
	if in.Password == "" {
		return invalid("password", "Informe o token.")
	}
	return nil
}

func (in MediaIn) Validate() error {
	if blank(in.Title) {
		return invalid("title", "Informe o título.")
	}
	if err := validateURL(in.URL); err != nil {
		return err
	}
	if err := validatePublishedAt(in.PublishedAt); err != nil {
		return err
	}
	if !in.Platform.Valid() {
		return invalid("platform", "Plataforma inválida.")
	}
	return in.People.Validate()
}

func (p MediaPatch) Validate() error {
	if p.Title != nil && blank(*p.Title) {
		return invalid("title", "Informe o título.")
	}
	if p.URL != nil {
		if err := validateURL(*p.URL); err != nil {
			return err
		}
	}
	if p.PublishedAt != nil {
		if err := validatePublishedAt(*p.PublishedAt); err != nil {
			return err
		}
	}
	if p.Platform != nil && !p.Platform.Valid() {
		return invalid("platform", "Plataforma inválida.")
	}
	if p.People != nil {
		return p.People.Validate()
	}
	return nil
}

func validateURL(raw string) error {
	s := strings.TrimSpace(raw)
	if s == "" {
		return invalid("url", "Informe a URL.")
	}
	if !isHTTPURL(s) {
		return invalid("url", "URL inválida. Use http(s)://...")
	}
	return nil
}

func validatePublishedAt(s string) error {
	if blank(s) {
		return invalid("published_at", "Informe a data.")
	}
	if !validDate(s) {
		return invalid("published_at", "Data inválida. Use AAAA-MM-DD.")
	}
	return nil
}
