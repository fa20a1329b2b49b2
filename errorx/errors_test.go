package errorx

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestTransportErrorIs(t *testing.T) {
	err := fmt.Errorf("send order: %w", &TransportError{StatusCode: 500, Err: errors.New("boom")})
	if !errors.Is(err, ErrTransportFailure) {
		t.Fatalf("expected wrapped TransportError to match ErrTransportFailure")
	}
	var te *TransportError
	if !errors.As(err, &te) || te.StatusCode != 500 {
		t.Fatalf("errors.As failed: %v", err)
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{ErrValidationFailed, http.StatusBadRequest},
		{fmt.Errorf("wrap: %w", ErrMinimumItems), http.StatusConflict},
		{ErrMaximumItems, http.StatusConflict},
		{ErrSubmissionInFlight, http.StatusConflict},
		{ErrItemNotFound, http.StatusNotFound},
		{ErrSessionNotFound, http.StatusNotFound},
		{ErrPhotoRejected, http.StatusBadRequest},
		{ErrPhotoTooLarge, http.StatusRequestEntityTooLarge},
		{&TransportError{Err: errors.New("x")}, http.StatusBadGateway},
		{errors.New("other"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := HTTPStatus(c.err); got != c.want {
			t.Fatalf("HTTPStatus(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}
