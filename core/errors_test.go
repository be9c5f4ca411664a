package core

import (
	"errors"
	"net/http"
	"testing"

	goerrors "github.com/goliatone/go-errors"
)

func TestNewSDKErrorEnvelope(t *testing.T) {
	err := NewSDKError("credential rejected", goerrors.CategoryAuth, SDKErrorCredentialInvalid)
	if err.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", err.Code)
	}
	if err.TextCode != SDKErrorCredentialInvalid {
		t.Fatalf("unexpected text code %q", err.TextCode)
	}
	if !IsCredentialInvalid(err) {
		t.Fatalf("expected credential-invalid predicate to match")
	}
}

func TestMapSDKErrorPlainErrors(t *testing.T) {
	cases := []struct {
		name     string
		input    error
		textCode string
	}{
		{"not_authenticated", errors.New("session is not authenticated"), SDKErrorNotAuthenticated},
		{"timeout", errors.New("host round-trip timed out"), SDKErrorTimeout},
		{"insufficient", errors.New("insufficient credits"), SDKErrorInsufficientCredits},
		{"bad_input", errors.New("amount is required"), SDKErrorInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mapped := MapSDKError(tc.input)
			if mapped.TextCode != tc.textCode {
				t.Fatalf("expected %s, got %s", tc.textCode, mapped.TextCode)
			}
		})
	}
}

func TestMapSDKErrorPreservesRichErrors(t *testing.T) {
	source := NewSDKError("forbidden", goerrors.CategoryAuthz, SDKErrorAccessDenied)
	mapped := MapSDKError(source)
	if mapped.TextCode != SDKErrorAccessDenied || mapped.Code != http.StatusForbidden {
		t.Fatalf("expected envelope preserved, got %+v", mapped)
	}
	if !IsAccessDenied(mapped) {
		t.Fatalf("expected access-denied predicate to match")
	}
}

func TestDefaultTextCodePerCategory(t *testing.T) {
	err := NewSDKError("boom", goerrors.CategoryExternal, "")
	if err.TextCode != SDKErrorNetworkError {
		t.Fatalf("expected network default for external category, got %q", err.TextCode)
	}
	if err.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", err.Code)
	}
}

func TestPredicatesRejectNilAndForeignErrors(t *testing.T) {
	if IsCredentialInvalid(nil) || IsTimeout(nil) {
		t.Fatalf("nil must not match any predicate")
	}
	if IsNotAuthenticated(errors.New("plain")) {
		t.Fatalf("plain errors must not match predicates")
	}
}
