package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	cases := []struct {
		code   Code
		status int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeNotFound, http.StatusNotFound},
		{CodeConflict, http.StatusConflict},
		{CodeRateLimit, http.StatusTooManyRequests},
		{CodeInternal, http.StatusInternalServerError},
		{CodeDependency, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		if got := MetadataFor(tc.code).HTTPStatus; got != tc.status {
			t.Fatalf("code %s: expected %d got %d", tc.code, tc.status, got)
		}
	}
}

func TestMetadataForUnknownCodeFallsBack(t *testing.T) {
	meta := MetadataFor(Code("SOMETHING_ELSE"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal fallback, got %d", meta.HTTPStatus)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("db closed")
	err := Wrap(CodeDependency, cause, "load catalog")
	if !stdErrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be discoverable")
	}
	if err.Code() != CodeDependency {
		t.Fatalf("unexpected code %s", err.Code())
	}
}

func TestAsUnwrapsNestedError(t *testing.T) {
	inner := New(CodeNotFound, "material missing")
	outer := fmt.Errorf("lookup: %w", inner)
	typed := As(outer)
	if typed == nil {
		t.Fatal("expected typed error")
	}
	if typed.Code() != CodeNotFound {
		t.Fatalf("unexpected code %s", typed.Code())
	}
}

func TestWithDetails(t *testing.T) {
	err := New(CodeValidation, "bad quantity").WithDetails(map[string]string{"quantity": "must be at least 1"})
	details, ok := err.Details().(map[string]string)
	if !ok {
		t.Fatal("expected map details")
	}
	if details["quantity"] == "" {
		t.Fatal("expected quantity detail")
	}
}
