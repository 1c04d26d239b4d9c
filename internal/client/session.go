// Package client is a thin Go client for the orgdesk API plus an injectable
// session holder. The session keeps the authenticated user and token in
// memory, persists them to a credentials file, and revalidates a stored
// token against the server before trusting it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Harshitk-cp/orgdesk/internal/domain"
	"go.uber.org/zap"
)

var ErrNotAuthenticated = errors.New("not authenticated")

// credentials is the on-disk session state.
type credentials struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// apiEnvelope mirrors the server's response envelope.
type apiEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type authPayload struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

// RegisterInput is the registration request body.
type RegisterInput struct {
	Fullname     string `json:"fullname"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	CreateTenant bool   `json:"create_tenant,omitempty"`
	TenantName   string `json:"tenant_name,omitempty"`
	OTP          string `json:"otp,omitempty"`
	TeamID       string `json:"team_id,omitempty"`
}

// Session is an explicit auth-state holder with a defined lifecycle: zero
// value state on construction, set on login/register success, cleared on
// logout. Pass it by reference through the caller's dependency graph rather
// than sharing a process-wide singleton.
type Session struct {
	baseURL string
	path    string
	http    *http.Client
	logger  *zap.Logger

	mu    sync.Mutex
	user  *domain.User
	token string
}

// NewSession creates a session against baseURL. Credentials are persisted
// at path; if path is empty, ~/.orgdesk/credentials.json is used.
func NewSession(baseURL, path string, logger *zap.Logger) (*Session, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, ".orgdesk", "credentials.json")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create credentials directory: %w", err)
	}

	return &Session{
		baseURL: baseURL,
		path:    path,
		http:    &http.Client{Timeout: 15 * time.Second},
		logger:  logger,
	}, nil
}

// IsAuthenticated reports whether the session currently holds an identity.
func (s *Session) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != ""
}

// User returns the authenticated user, or nil.
func (s *Session) User() *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Token returns the bearer token, or "".
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// IsAdmin reports whether the stored user has the admin role. This only
// drives which screens a client shows; the server is the enforcement point.
func (s *Session) IsAdmin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil && s.user.Role == domain.RoleAdmin
}

// Login authenticates and persists the resulting session.
func (s *Session) Login(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}
	return s.authenticate(ctx, "/users/login", body)
}

// Register registers a new user and persists the resulting session.
func (s *Session) Register(ctx context.Context, in RegisterInput) error {
	return s.authenticate(ctx, "/users/register", in)
}

func (s *Session) authenticate(ctx context.Context, path string, body any) error {
	env, err := s.post(ctx, path, body)
	if err != nil {
		return err
	}

	var payload authPayload
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		return fmt.Errorf("failed to decode auth response: %w", err)
	}
	if payload.Token == "" || payload.User == nil {
		return errors.New("auth response missing token or user")
	}

	s.mu.Lock()
	s.user = payload.User
	s.token = payload.Token
	s.mu.Unlock()

	if err := s.save(credentials{Token: payload.Token, User: payload.User}); err != nil {
		return err
	}

	s.logger.Info("session established",
		zap.String("email", payload.User.Email),
		zap.String("role", string(payload.User.Role)),
	)
	return nil
}

// CheckAuth rehydrates the session from the credentials file, then confirms
// the token with the server before treating it as authenticated. Any
// verification failure clears the stored session.
func (s *Session) CheckAuth(ctx context.Context) (bool, error) {
	creds, err := s.load()
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if creds.Token == "" {
		return false, nil
	}

	user, err := s.fetchCurrentUser(ctx, creds.Token)
	if err != nil {
		// Stale or revoked token: treat as an implicit logout.
		s.logger.Info("stored session rejected by server", zap.Error(err))
		if logoutErr := s.Logout(); logoutErr != nil {
			return false, logoutErr
		}
		return false, nil
	}

	s.mu.Lock()
	s.user = user
	s.token = creds.Token
	s.mu.Unlock()
	return true, nil
}

// Logout clears the credentials file and the in-memory state, always.
func (s *Session) Logout() error {
	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove credentials: %w", err)
	}
	return nil
}

func (s *Session) fetchCurrentUser(ctx context.Context, token string) (*domain.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/users/me", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var env apiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK || !env.Success {
		return nil, fmt.Errorf("token rejected: %s", env.Message)
	}

	var user domain.User
	if err := json.Unmarshal(env.Data, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Session) post(ctx context.Context, path string, body any) (*apiEnvelope, error) {
	buf, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var env apiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, errors.New(env.Message)
	}
	return &env, nil
}

// save writes credentials with 0600 permissions via temp file + atomic rename.
func (s *Session) save(creds credentials) error {
	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	tempPath := s.path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write credentials: %w", err)
	}
	if err := os.Rename(tempPath, s.path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to save credentials: %w", err)
	}
	return nil
}

func (s *Session) load() (*credentials, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	var creds credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("failed to parse credentials: %w", err)
	}
	return &creds, nil
}
