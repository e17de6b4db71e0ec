package main

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgNotNullViolation    = "23502"
)

var constraintMessages = map[string]string{
	"systems_name_key":             "Sistema já existe com esse nome",
	"lines_name_key":               "Linha já existe com esse nome",
	"people_email_key":             "Já existe pessoa com esse e-mail",
	"users_username_key":           "Usuário já existe",
	"media_platform_check":         "Valor de 'platform' inválido (use 'vimeo' ou 'youtube')",
	"media_person_role_check":      "Valor de 'role' inválido (use 'responsavel' ou 'participante')",
	"users_role_check":             "Valor de 'role' inválido (use 'admin' ou 'user')",
	"media_person_one_responsible": "Apenas um responsável por mídia.",
	"media_person_pkey":            "Pessoa repetida na mídia.",
	"lines_system_id_fkey":         "Sistema não encontrado",
	"media_system_id_fkey":         "Sistema não encontrado",
	"media_line_id_fkey":           "Linha não encontrada",
	"media_person_person_id_fkey":  "Pessoa não encontrada",
	"users_person_id_fkey":         "Pessoa não encontrada",
}

// conflictMessage turns an integrity violation reported by Postgres into a
// message fit for the API client. ok is false for any other error.
func conflictMessage(err error) (msg string, ok bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || !strings.HasPrefix(pgErr.Code, "23") {
		return "", false
	}
	if m, found := constraintMessages[pgErr.ConstraintName]; found {
		return m, true
	}
	switch pgErr.Code {
	case pgForeignKeyViolation:
		return "Registro relacionado não existe", true
	case pgNotNullViolation:
		return "Campo obrigatório ausente", true
	case pgCheckViolation:
		return "Valor inválido para o campo", true
	}
	return "Violação de integridade do banco (verifique dados únicos e restrições)", true
}
