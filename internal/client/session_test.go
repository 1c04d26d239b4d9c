package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/Harshitk-cp/orgdesk/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testToken = "test-token"

func testServer(t *testing.T) *httptest.Server {
	t.Helper()

	user := domain.User{
		ID:       uuid.New(),
		Fullname: "A",
		Email:    "a@x.com",
		TenantID: uuid.New(),
		TeamID:   uuid.New(),
		Role:     domain.RoleAdmin,
	}

	writeEnvelope := func(w http.ResponseWriter, status int, env map[string]any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(env)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/users/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["email"] != user.Email || body["password"] != "secret1" {
			writeEnvelope(w, http.StatusUnauthorized, map[string]any{
				"success": false,
				"message": "email or password incorrect",
			})
			return
		}
		writeEnvelope(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    map[string]any{"user": user, "token": testToken},
		})
	})
	mux.HandleFunc("/users/register", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusCreated, map[string]any{
			"success": true,
			"data":    map[string]any{"user": user, "token": testToken},
		})
	})
	mux.HandleFunc("/users/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+testToken {
			writeEnvelope(w, http.StatusUnauthorized, map[string]any{
				"success": false,
				"message": "invalid token",
			})
			return
		}
		writeEnvelope(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    user,
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestSession(t *testing.T, baseURL string) *Session {
	t.Helper()
	path := filepath.Join(t.TempDir(), "credentials.json")
	s, err := NewSession(baseURL, path, zap.NewNop())
	require.NoError(t, err)
	return s
}

func TestSession_LoginPersistsCredentials(t *testing.T) {
	srv := testServer(t)
	s := newTestSession(t, srv.URL)

	require.NoError(t, s.Login(context.Background(), "a@x.com", "secret1"))

	assert.True(t, s.IsAuthenticated())
	assert.True(t, s.IsAdmin())
	assert.Equal(t, testToken, s.Token())
	require.NotNil(t, s.User())
	assert.Equal(t, "a@x.com", s.User().Email)

	info, err := os.Stat(s.path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestSession_LoginRejected(t *testing.T) {
	srv := testServer(t)
	s := newTestSession(t, srv.URL)

	err := s.Login(context.Background(), "a@x.com", "wrongpass")
	require.Error(t, err)
	assert.Equal(t, "email or password incorrect", err.Error())
	assert.False(t, s.IsAuthenticated())

	_, statErr := os.Stat(s.path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestSession_RegisterEstablishesSession(t *testing.T) {
	srv := testServer(t)
	s := newTestSession(t, srv.URL)

	err := s.Register(context.Background(), RegisterInput{
		Fullname:     "A",
		Email:        "a@x.com",
		Password:     "secret1",
		CreateTenant: true,
		TenantName:   "Acme",
	})
	require.NoError(t, err)
	assert.True(t, s.IsAuthenticated())
}

func TestSession_CheckAuthRehydrates(t *testing.T) {
	srv := testServer(t)
	s := newTestSession(t, srv.URL)
	require.NoError(t, s.Login(context.Background(), "a@x.com", "secret1"))

	// A fresh session sharing the credentials file, as after a restart.
	fresh, err := NewSession(srv.URL, s.path, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, fresh.IsAuthenticated())

	ok, err := fresh.CheckAuth(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, fresh.IsAuthenticated())
	require.NotNil(t, fresh.User())
	assert.Equal(t, "a@x.com", fresh.User().Email)
}

func TestSession_CheckAuthRejectedTokenClearsSession(t *testing.T) {
	srv := testServer(t)
	s := newTestSession(t, srv.URL)

	require.NoError(t, s.save(credentials{Token: "stale-token", User: &domain.User{Email: "a@x.com"}}))

	ok, err := s.CheckAuth(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, s.IsAuthenticated())

	_, statErr := os.Stat(s.path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestSession_CheckAuthNoCredentials(t *testing.T) {
	srv := testServer(t)
	s := newTestSession(t, srv.URL)

	ok, err := s.CheckAuth(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSession_Logout(t *testing.T) {
	srv := testServer(t)
	s := newTestSession(t, srv.URL)
	require.NoError(t, s.Login(context.Background(), "a@x.com", "secret1"))

	require.NoError(t, s.Logout())
	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, s.User())

	_, statErr := os.Stat(s.path)
	assert.True(t, os.IsNotExist(statErr))

	// Logging out twice is fine.
	require.NoError(t, s.Logout())
}
