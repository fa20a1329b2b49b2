package errorx

import (
	"errors"
	"fmt"
	"net/http"
)

// 业务错误定义
var (
	ErrValidationFailed   = errors.New("missing required fields")
	ErrTransportFailure   = errors.New("transport failure")
	ErrMinimumItems       = errors.New("order must contain at least one item")
	ErrMaximumItems       = errors.New("multiple items are disabled")
	ErrItemNotFound       = errors.New("item not found")
	ErrSessionNotFound    = errors.New("session not found")
	ErrPhotoRejected      = errors.New("photo rejected")
	ErrPhotoTooLarge      = fmt.Errorf("%w: file too large", ErrPhotoRejected)
	ErrSubmissionInFlight = errors.New("submission already in progress")
)

// TransportError 远端接口调用失败
type TransportError struct {
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("transport failure: status %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("transport failure: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is 所有 TransportError 都视为 ErrTransportFailure
func (e *TransportError) Is(target error) bool {
	return target == ErrTransportFailure
}

// HTTPStatus 将业务错误映射为 HTTP 状态码
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidationFailed):
		return http.StatusBadRequest
	case errors.Is(err, ErrPhotoTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrPhotoRejected):
		return http.StatusBadRequest
	case errors.Is(err, ErrMinimumItems), errors.Is(err, ErrMaximumItems), errors.Is(err, ErrSubmissionInFlight):
		return http.StatusConflict
	case errors.Is(err, ErrItemNotFound), errors.Is(err, ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrTransportFailure):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
