package core

import (
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	TokenErrorBadInput     = "TOKEN_BAD_INPUT"
	TokenErrorNotFound     = "TOKEN_NOT_FOUND"
	TokenErrorConflict     = "TOKEN_CONFLICT"
	TokenErrorUnauthorized = "TOKEN_UNAUTHORIZED"
	TokenErrorNotSupported = "TOKEN_NOT_SUPPORTED"
	TokenErrorInternal     = "TOKEN_INTERNAL_ERROR"
)

type ErrorFactory func(message string, category ...goerrors.Category) *goerrors.Error

type ErrorMapper func(err error) *goerrors.Error

func badInputError(message string) *goerrors.Error {
	return newTokenError(message, goerrors.CategoryBadInput, TokenErrorBadInput)
}

func notFoundError(message string) *goerrors.Error {
	return newTokenError(message, goerrors.CategoryNotFound, TokenErrorNotFound)
}

func conflictError(message string) *goerrors.Error {
	return newTokenError(message, goerrors.CategoryConflict, TokenErrorConflict)
}

func unauthorizedError(message string) *goerrors.Error {
	return newTokenError(message, goerrors.CategoryAuth, TokenErrorUnauthorized)
}

func notSupportedError(message string) *goerrors.Error {
	return newTokenError(message, goerrors.CategoryOperation, TokenErrorNotSupported)
}

func internalError(message string) *goerrors.Error {
	return newTokenError(message, goerrors.CategoryInternal, TokenErrorInternal)
}

func tokenErrorMapper(err error) *goerrors.Error {
	if err == nil {
		return nil
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return ensureTokenErrorEnvelope(richErr)
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "unique constraint"),
		strings.Contains(msg, "duplicate key"),
		strings.Contains(msg, "unique failed"):
		return newTokenError(err.Error(), goerrors.CategoryConflict, TokenErrorConflict)
	case strings.Contains(msg, "not supported"), strings.Contains(msg, "not implemented"):
		return newTokenError(err.Error(), goerrors.CategoryOperation, TokenErrorNotSupported)
	case strings.Contains(msg, "required"), strings.Contains(msg, "invalid"):
		return newTokenError(err.Error(), goerrors.CategoryBadInput, TokenErrorBadInput)
	}

	mapped := goerrors.MapToError(err, goerrors.DefaultErrorMappers())
	return ensureTokenErrorEnvelope(mapped)
}

func newTokenError(message string, category goerrors.Category, textCode string) *goerrors.Error {
	return ensureTokenErrorEnvelope(
		goerrors.New(message, category).
			WithTextCode(textCode),
	)
}

func ensureTokenErrorEnvelope(err *goerrors.Error) *goerrors.Error {
	if err == nil {
		return nil
	}
	if err.Code == 0 {
		err.Code = tokenHTTPStatus(err.Category)
	}
	if strings.TrimSpace(err.TextCode) == "" {
		err.TextCode = defaultTokenTextCode(err.Category)
	}
	if err.Category == goerrors.CategoryInternal && strings.TrimSpace(err.Message) == "" {
		err.Message = "An unexpected error occurred"
	}
	return err
}

func defaultTokenTextCode(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return TokenErrorBadInput
	case goerrors.CategoryNotFound:
		return TokenErrorNotFound
	case goerrors.CategoryConflict:
		return TokenErrorConflict
	case goerrors.CategoryAuth, goerrors.CategoryAuthz:
		return TokenErrorUnauthorized
	case goerrors.CategoryOperation:
		return TokenErrorNotSupported
	default:
		return TokenErrorInternal
	}
}

func tokenHTTPStatus(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return http.StatusBadRequest
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	case goerrors.CategoryAuth:
		return http.StatusUnauthorized
	case goerrors.CategoryAuthz:
		return http.StatusForbidden
	case goerrors.CategoryConflict:
		return http.StatusConflict
	case goerrors.CategoryOperation:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
