package errors

import (
	"errors"
	"net/http"
)

// default error is internal service error at handler level
// if error has different status code use ErrorWithStatusCode
type ErrorWithStatusCode struct {
	Message    string
	StatusCode int
}

func (e *ErrorWithStatusCode) Error() string {
	return e.Message
}

// Business rule violations. Messages are shown to the user as-is.
var (
	ErrUnauthenticated = &ErrorWithStatusCode{Message: "로그인이 필요합니다.", StatusCode: http.StatusUnauthorized}
	ErrForbidden       = &ErrorWithStatusCode{Message: "작성자만 할 수 있는 작업입니다.", StatusCode: http.StatusForbidden}
	ErrBusy            = &ErrorWithStatusCode{Message: "처리 중입니다. 잠시 후 다시 시도해 주세요.", StatusCode: http.StatusConflict}
	ErrAlreadyJoined   = &ErrorWithStatusCode{Message: "이미 참가하셨습니다.", StatusCode: http.StatusConflict}
	ErrPostFull        = &ErrorWithStatusCode{Message: "정원이 모두 찼습니다.", StatusCode: http.StatusConflict}
	ErrNotJoined       = &ErrorWithStatusCode{Message: "현재 참여 중이 아닙니다.", StatusCode: http.StatusConflict}
	ErrEmptyReview     = &ErrorWithStatusCode{Message: "후기를 입력하세요.", StatusCode: http.StatusBadRequest}
	ErrReviewNotFound  = &ErrorWithStatusCode{Message: "후기를 찾을 수 없습니다.", StatusCode: http.StatusNotFound}
	ErrPostNotFound    = &ErrorWithStatusCode{Message: "모집글을 찾을 수 없습니다.", StatusCode: http.StatusNotFound}
)

// ValidationError reports a rejected form field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// StatusCode extracts the HTTP status carried by err, defaulting to 500.
func StatusCode(err error) int {
	var withStatus *ErrorWithStatusCode
	if errors.As(err, &withStatus) {
		return withStatus.StatusCode
	}
	var validation *ValidationError
	if errors.As(err, &validation) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// IsBusinessRule reports whether err is a user-facing rule violation rather than a failure.
func IsBusinessRule(err error) bool {
	var validation *ValidationError
	if errors.As(err, &validation) {
		return true
	}
	for _, target := range []error{ErrUnauthenticated, ErrForbidden, ErrBusy, ErrAlreadyJoined, ErrPostFull, ErrNotJoined, ErrEmptyReview, ErrReviewNotFound} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
