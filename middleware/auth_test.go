package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"bloom_server/models"
	"bloom_server/services"
)

type stubVerifier struct {
	userID string
	err    error
}

func (s stubVerifier) VerifyToken(token string) (string, error) {
	return s.userID, s.err
}

type stubLoader struct {
	user *models.User
	err  error
}

func (s stubLoader) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	return s.user, s.err
}

func runRequireAuth(t *testing.T, auth TokenVerifier, users UserLoader) *httptest.ResponseRecorder {
	t.Helper()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()

	RequireAuth(auth, users)(next).ServeHTTP(rec, req)
	return rec
}

func TestRequireAuth_MissingTokenIsUnauthorized(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a token")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	rec := httptest.NewRecorder()
	RequireAuth(stubVerifier{}, stubLoader{})(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequireAuth_UnknownUserIsUnauthorized(t *testing.T) {
	rec := runRequireAuth(t,
		stubVerifier{userID: "ghost"},
		stubLoader{err: services.ErrUserNotFound})

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unknown user, got %d", rec.Code)
	}
}

func TestRequireAuth_StoreFailureIsNotACredentialsError(t *testing.T) {
	rec := runRequireAuth(t,
		stubVerifier{userID: "user-1"},
		stubLoader{err: errors.New("dynamo down")})

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for store outage, got %d", rec.Code)
	}
}

func TestRequireAuth_LoadsUserIntoContext(t *testing.T) {
	account := models.User{ID: "user-1", Username: "someone"}

	var got models.User
	var ok bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = UserFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()
	RequireAuth(stubVerifier{userID: "user-1"}, stubLoader{user: &account})(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !ok || got.ID != "user-1" {
		t.Fatalf("expected user-1 in context, got %+v (ok=%v)", got, ok)
	}
}
