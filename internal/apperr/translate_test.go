package apperr

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestFromPostgresErrors(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505", Detail: "Key (username)=(alice) already exists."}
	fk := &pgconn.PgError{Code: "23503", Detail: "Key (category_id)=(99) is not present in table \"categories\"."}

	e := From(fmt.Errorf("create user: %w", unique))
	assert.Equal(t, http.StatusConflict, e.Status)
	assert.Equal(t, "A record with this information already exists.", e.Message)
	assert.Equal(t, []string{"The username already exists."}, e.Fields["username"])

	e = From(fk)
	assert.Equal(t, http.StatusBadRequest, e.Status)
	assert.Equal(t, "Invalid reference to another record.", e.Message)
}

func TestFromGormErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"duplicate", gorm.ErrDuplicatedKey, http.StatusConflict},
		{"foreign key", gorm.ErrForeignKeyViolated, http.StatusBadRequest},
		{"not found", gorm.ErrRecordNotFound, http.StatusNotFound},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, From(tt.err).Status)
		})
	}
}

func TestFromKeepsAppErrors(t *testing.T) {
	orig := Conflict("Username already exists").WithField("username", "This username is already taken")

	e := From(fmt.Errorf("register: %w", orig))
	require.Same(t, orig, e)
}

func TestInternalHidesCause(t *testing.T) {
	e := From(errors.New("pq: connection refused"))
	assert.Equal(t, "Internal server error", e.Message)
	assert.ErrorContains(t, e, "connection refused")
}

func TestFromValidation(t *testing.T) {
	v := validator.New()
	type req struct {
		Title string `validate:"required,min=5"`
		Email string `validate:"email"`
	}

	err := v.Struct(req{Title: "abc", Email: "nope"})
	require.Error(t, err)

	e := From(err)
	assert.Equal(t, http.StatusBadRequest, e.Status)
	assert.Equal(t, []string{"Must be at least 5 characters"}, e.Fields["title"])
	assert.Equal(t, []string{"Invalid email address"}, e.Fields["email"])
}

func TestFieldFromDetail(t *testing.T) {
	assert.Equal(t, "email", fieldFromDetail("Key (email)=(a@b.c) already exists."))
	assert.Equal(t, "", fieldFromDetail("something else"))
}

func TestBindingErrors(t *testing.T) {
	_, numErr := strconv.Atoi("abc")

	tests := []struct {
		name    string
		err     error
		message string
	}{
		{"empty body", io.EOF, "Request body is required"},
		{"truncated body", io.ErrUnexpectedEOF, "Invalid request body"},
		{"non-numeric query", numErr, "Invalid query parameters"},
		{"anything else", errors.New("invalid request"), "Invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Binding(tt.err)
			assert.Equal(t, http.StatusBadRequest, e.Status)
			assert.Equal(t, tt.message, e.Message)
			assert.ErrorIs(t, e, tt.err)
		})
	}

	type req struct {
		Title string `validate:"required"`
	}
	e := Binding(validator.New().Struct(req{}))
	assert.Equal(t, "Validation error", e.Message)
	assert.Contains(t, e.Fields, "title")
}
