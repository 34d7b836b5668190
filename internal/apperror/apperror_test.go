package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindOf(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Kind
	}{
		{"invalid input", InvalidInput("bad"), KindInvalidInput},
		{"not found", NotFound("missing"), KindNotFound},
		{"wrapped", fmt.Errorf("load: %w", NotFound("missing")), KindNotFound},
		{"plain error", errors.New("boom"), KindInternal},
		{"internal", Internal("failed", errors.New("db down")), KindInternal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := KindOf(tc.err); got != tc.want {
				t.Fatalf("KindOf() = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestStatusCode(t *testing.T) {
	if got := StatusCode(KindInvalidInput); got != http.StatusBadRequest {
		t.Fatalf("InvalidInput status = %d", got)
	}
	if got := StatusCode(KindNotFound); got != http.StatusNotFound {
		t.Fatalf("NotFound status = %d", got)
	}
	if got := StatusCode(KindForbidden); got != http.StatusForbidden {
		t.Fatalf("Forbidden status = %d", got)
	}
	if got := StatusCode(KindInternal); got != http.StatusInternalServerError {
		t.Fatalf("Internal status = %d", got)
	}
}

func TestInternalUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := Internal("Failed to fetch answers with questions", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("expected internal error to unwrap to its cause")
	}
}
