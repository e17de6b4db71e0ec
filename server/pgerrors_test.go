package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestConflictMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
		ok   bool
	}{
		{"unique line", &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "lines_name_key"}, "Linha já existe com esse nome", true},
		{"wrapped", fmt.Errorf("create: %w", &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "people_email_key"}), "Já existe pessoa com esse e-mail", true},
		{"one responsible", &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "media_person_one_responsible"}, "Apenas um responsável por mídia.", true},
		{"unknown fk", &pgconn.PgError{Code: pgForeignKeyViolation, ConstraintName: "other_fkey"}, "Registro relacionado não existe", true},
		{"unknown unique", &pgconn.PgError{Code: pgUniqueViolation}, "Violação de integridade do banco (verifique dados únicos e restrições)", true},
		{"not integrity", &pgconn.PgError{Code: "42P01"}, "", false},
		{"plain error", errors.New("boom"), "", false},
		{"not found", ErrNotFound, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, ok := conflictMessage(tt.err)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, msg)
		})
	}
}
