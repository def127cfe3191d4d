package apperr

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

var keyDetailRe = regexp.MustCompile(`Key \((.*?)\)=`)

// From приводит любую ошибку к *Error
func From(err error) *Error {
	if err == nil {
		return nil
	}
	if e, ok := As(err); ok {
		return e
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return fromValidation(verrs)
	}

	if malformedInput(err) {
		return &Error{Status: http.StatusBadRequest, Message: "Invalid request body", Err: err}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return duplicate(err, fieldFromDetail(pgErr.Detail))
		case pgForeignKeyViolation:
			return foreignKey(err)
		}
	}

	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return duplicate(err, "")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return foreignKey(err)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return &Error{Status: http.StatusNotFound, Message: "Resource not found", Err: err}
	}

	return Internal(err)
}

func malformedInput(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr)
}

// Binding приводит ошибку ShouldBind* к ответу клиенту.
// Всё, кроме ошибок валидации, значит неразборчивый запрос: пустое или обрезанное тело
// (io.EOF, io.ErrUnexpectedEOF), не число в query (*strconv.NumError).
func Binding(err error) *Error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return fromValidation(verrs)
	}
	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		return &Error{Status: http.StatusBadRequest, Message: "Invalid query parameters", Err: err}
	}
	if errors.Is(err, io.EOF) {
		return &Error{Status: http.StatusBadRequest, Message: "Request body is required", Err: err}
	}
	return &Error{Status: http.StatusBadRequest, Message: "Invalid request body", Err: err}
}

func duplicate(err error, field string) *Error {
	e := &Error{Status: http.StatusConflict, Message: "A record with this information already exists.", Err: err}
	if field != "" {
		e.WithField(field, "The "+field+" already exists.")
	}
	return e
}

func foreignKey(err error) *Error {
	return &Error{Status: http.StatusBadRequest, Message: "Invalid reference to another record.", Err: err}
}

func fieldFromDetail(detail string) string {
	m := keyDetailRe.FindStringSubmatch(detail)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

func fromValidation(verrs validator.ValidationErrors) *Error {
	e := &Error{Status: http.StatusBadRequest, Message: "Validation error"}
	for _, fe := range verrs {
		e.WithField(lowerFirst(fe.Field()), validationMessage(fe))
	}
	return e
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email address"
	case "url":
		return "Invalid URL"
	case "min":
		if fe.Kind().String() == "string" {
			return "Must be at least " + fe.Param() + " characters"
		}
		return "Must be at least " + fe.Param()
	case "max":
		if fe.Kind().String() == "string" {
			return "Must be at most " + fe.Param() + " characters"
		}
		return "Must be at most " + fe.Param()
	case "oneof":
		return "Must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "eqfield":
		return "Passwords don't match"
	case "location":
		return "Unknown location"
	case "category":
		return "Unknown category"
	}
	return "Invalid value"
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}
