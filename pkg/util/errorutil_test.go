package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestToDomainErrorPassthrough(t *testing.T) {
	err := NewConflict("already exists", nil)
	mapped := ToDomainError(err)

	assert.Equal(t, "CONFLICT", mapped.Code)
	assert.Equal(t, http.StatusConflict, mapped.HTTPStatus)
}

func TestToDomainErrorWrapped(t *testing.T) {
	err := fmt.Errorf("loading user: %w", NewForbidden("nope"))
	mapped := ToDomainError(err)

	assert.Equal(t, "FORBIDDEN", mapped.Code)
	assert.Equal(t, http.StatusForbidden, mapped.HTTPStatus)
}

func TestToDomainErrorNoRows(t *testing.T) {
	mapped := ToDomainError(pgx.ErrNoRows)

	assert.Equal(t, "NOT_FOUND", mapped.Code)
	assert.Equal(t, http.StatusNotFound, mapped.HTTPStatus)
}

func TestToDomainErrorPgCodes(t *testing.T) {
	unique := ToDomainError(&pgconn.PgError{Code: "23505"})
	assert.Equal(t, "CONFLICT", unique.Code)

	fk := ToDomainError(&pgconn.PgError{Code: "23503"})
	assert.Equal(t, "NOT_FOUND", fk.Code)
}

func TestToDomainErrorUnknown(t *testing.T) {
	mapped := ToDomainError(errors.New("boom"))

	assert.Equal(t, "INTERNAL_ERROR", mapped.Code)
	assert.Equal(t, http.StatusInternalServerError, mapped.HTTPStatus)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
}

func TestDomainErrorStatuses(t *testing.T) {
	cases := []struct {
		err    error
		code   string
		status int
	}{
		{NewValidationError("bad", nil), "VALIDATION_FAILED", http.StatusUnprocessableEntity},
		{NewUnauthorized("no token"), "UNAUTHORIZED", http.StatusUnauthorized},
		{NewForbidden("no"), "FORBIDDEN", http.StatusForbidden},
		{NewNotFound("project 1", nil), "NOT_FOUND", http.StatusNotFound},
		{NewConflict("dupe", nil), "CONFLICT", http.StatusConflict},
		{NewInternalError(errors.New("x")), "INTERNAL_ERROR", http.StatusInternalServerError},
	}

	for _, tc := range cases {
		var domainErr *DomainError
		assert.True(t, errors.As(tc.err, &domainErr))
		assert.Equal(t, tc.code, domainErr.Code)
		assert.Equal(t, tc.status, domainErr.HTTPStatus)
	}
}
