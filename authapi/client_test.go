package authapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/developersupreme/supreme-ai-sdk-sub001/core"
	"github.com/developersupreme/supreme-ai-sdk-sub001/transport"
)

func clientFor(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(server.URL, WithAdapter(transport.NewRESTAdapter(server.Client())))
}

func TestLoginReturnsCredentialsAndUser(t *testing.T) {
	client := clientFor(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/login" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body["email"] != "a@b.com" || body["password"] != "secret" {
			t.Errorf("unexpected body %v", body)
		}
		w.Write([]byte(`{"success":true,"data":{` +
			`"token":"t1","refreshToken":"r1",` +
			`"user":{"id":"u1","email":"a@b.com"}}}`))
	})

	result, err := client.Login(context.Background(), "a@b.com", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.Credentials.AccessToken != "t1" || result.Credentials.RefreshToken != "r1" {
		t.Fatalf("unexpected credentials %+v", result.Credentials)
	}
	if result.User == nil || result.User.ID != "u1" {
		t.Fatalf("expected user, got %+v", result.User)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	client := clientFor(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success":false,"message":"invalid credentials"}`))
	})

	_, err := client.Login(context.Background(), "a@b.com", "wrong")
	if !core.IsCredentialInvalid(err) {
		t.Fatalf("expected credential-invalid, got %v", err)
	}
}

func TestLoginRequiresInput(t *testing.T) {
	client := New("http://localhost:0")
	if _, err := client.Login(context.Background(), "", "secret"); !core.IsInvalidInput(err) {
		t.Fatalf("expected invalid-input, got %v", err)
	}
	if _, err := client.Login(context.Background(), "a@b.com", ""); !core.IsInvalidInput(err) {
		t.Fatalf("expected invalid-input, got %v", err)
	}
}

func TestValidateSendsBearerAndDecodes(t *testing.T) {
	client := clientFor(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/validate" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer t1" {
			t.Errorf("expected bearer header, got %q", got)
		}
		w.Write([]byte(`{"success":true,"data":{"valid":true,"user":{"id":"u1"}}}`))
	})

	result, err := client.Validate(context.Background(), "t1")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !result.Valid || result.User == nil || result.User.ID != "u1" {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestValidateTreatsRejectionAsInvalidNotError(t *testing.T) {
	client := clientFor(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success":false,"message":"expired"}`))
	})

	result, err := client.Validate(context.Background(), "stale-token")
	if err != nil {
		t.Fatalf("expected no error for invalid token, got %v", err)
	}
	if result.Valid {
		t.Fatalf("expected invalid result")
	}
}

func TestRefreshMarksRotationOnlyWhenServerRotates(t *testing.T) {
	cases := []struct {
		name        string
		body        string
		wantRotated bool
		wantRefresh string
	}{
		{"rotated", `{"success":true,"data":{"access_token":"t2","refresh_token":"r2"}}`, true, "r2"},
		{"not_rotated", `{"success":true,"data":{"access_token":"t2"}}`, false, ""},
		{"blank_refresh", `{"success":true,"data":{"access_token":"t2","refresh_token":"  "}}`, false, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := clientFor(t, func(w http.ResponseWriter, r *http.Request) {
				var body map[string]string
				if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
					t.Errorf("decode body: %v", err)
				}
				if body["refresh_token"] != "r1" {
					t.Errorf("expected refresh token in body, got %v", body)
				}
				w.Write([]byte(tc.body))
			})

			outcome, err := client.Refresh(context.Background(), "r1")
			if err != nil {
				t.Fatalf("refresh: %v", err)
			}
			if outcome.AccessToken != "t2" {
				t.Fatalf("unexpected access token %q", outcome.AccessToken)
			}
			if outcome.Rotated != tc.wantRotated || outcome.RefreshToken != tc.wantRefresh {
				t.Fatalf("unexpected outcome %+v", outcome)
			}
		})
	}
}

func TestRefreshFailsOnRejectedToken(t *testing.T) {
	client := clientFor(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success":false,"message":"refresh token revoked"}`))
	})

	_, err := client.Refresh(context.Background(), "r1")
	if !core.IsCredentialInvalid(err) {
		t.Fatalf("expected credential-invalid, got %v", err)
	}
}

func TestLogoutSwallowsCredentialRejection(t *testing.T) {
	client := clientFor(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success":false}`))
	})

	if err := client.Logout(context.Background(), "stale"); err != nil {
		t.Fatalf("expected logout to tolerate rejected token, got %v", err)
	}
	if err := client.Logout(context.Background(), ""); err != nil {
		t.Fatalf("expected logout with empty token to no-op, got %v", err)
	}
}
