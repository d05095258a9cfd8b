// Package session implements the storefront's mock authentication: a seeded
// in-memory user directory plus session snapshots held in snapshot storage.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oxygenixlabs/storefront/internal/storage"
	pkgAuth "github.com/oxygenixlabs/storefront/pkg/auth"
	"github.com/oxygenixlabs/storefront/pkg/config"
	pkgerrors "github.com/oxygenixlabs/storefront/pkg/errors"
	"github.com/oxygenixlabs/storefront/pkg/logger"
	"github.com/oxygenixlabs/storefront/pkg/security"
)

const (
	// DefaultNamespace prefixes every session snapshot key.
	DefaultNamespace = "oxygenix_auth"

	invalidCredentialsMessage = "invalid email or password"
	sessionExpiredMessage     = "session expired"
	resetTokenBytes           = 24
)

// Session is the snapshot persisted per login.
type Session struct {
	User      User      `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// CurrentUserProvider resolves the user behind a session token.
type CurrentUserProvider interface {
	CurrentUser(ctx context.Context, token string) (*User, error)
}

type SignupInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
}

type ProfileUpdate struct {
	Name  *string
	Phone *string
}

// Service owns login state. Snapshots are keyed by the JWT's jti.
type Service struct {
	storage   storage.Storage
	directory *directory
	cfg       config.SessionConfig
	logg      *logger.Logger
	now       func() time.Time
}

// ServiceParams bundles the dependencies required to build a session service.
type ServiceParams struct {
	Storage  storage.Storage
	Session  config.SessionConfig
	Password config.PasswordConfig
	Logger   *logger.Logger
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Storage == nil {
		return nil, fmt.Errorf("session storage required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Session.Secret == "" {
		return nil, fmt.Errorf("session secret required")
	}
	if params.Session.TTL <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	cfg := params.Session
	if cfg.Namespace == "" {
		cfg.Namespace = DefaultNamespace
	}
	if cfg.ResetTTL <= 0 {
		cfg.ResetTTL = time.Hour
	}

	dir, err := newDirectory(params.Password)
	if err != nil {
		return nil, fmt.Errorf("seed user directory: %w", err)
	}

	return &Service{
		storage:   params.Storage,
		directory: dir,
		cfg:       cfg,
		logg:      params.Logger,
		now:       time.Now,
	}, nil
}

// Key returns the snapshot key for a session id.
func (s *Service) Key(sessionID string) string {
	return s.cfg.Namespace + ":" + sessionID
}

func (s *Service) resetKey(token string) string {
	return s.cfg.Namespace + ":reset:" + token
}

func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	acc, ok := s.directory.find(email)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	match, err := security.VerifyPassword(password, acc.passwordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !match {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return s.open(ctx, acc.user)
}

// Signup registers a new account and logs it in.
func (s *Service) Signup(ctx context.Context, input SignupInput) (*Session, error) {
	name := strings.TrimSpace(input.Name)
	email := normalizeEmail(input.Email)
	if name == "" || email == "" || input.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name, email and password are required")
	}

	user := User{
		ID:        newUserID(),
		Email:     email,
		Name:      name,
		Phone:     strings.TrimSpace(input.Phone),
		CreatedAt: s.now().UTC(),
	}
	inserted, err := s.directory.insert(user, input.Password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	if !inserted {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "an account with this email already exists")
	}

	s.logg.Info(s.logg.WithUserID(ctx, user.ID), "account created")
	return s.open(ctx, user)
}

// Logout removes the session snapshot. Unknown or malformed tokens are ignored.
func (s *Service) Logout(ctx context.Context, token string) error {
	claims, err := pkgAuth.ParseSessionToken(s.cfg, token)
	if err != nil {
		return nil
	}
	if err := s.storage.Delete(ctx, s.Key(claims.SessionID())); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete session")
	}
	return nil
}

func (s *Service) CurrentUser(ctx context.Context, token string) (*User, error) {
	sess, _, err := s.load(ctx, token)
	if err != nil {
		return nil, err
	}
	user := sess.User
	return &user, nil
}

// RequestPasswordReset stores a one-time reset token for known accounts and
// returns it. Unknown emails succeed with an empty token.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	acc, ok := s.directory.find(email)
	if !ok {
		return "", nil
	}
	token, err := security.GenerateToken(resetTokenBytes)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate reset token")
	}
	if err := s.storage.Set(ctx, s.resetKey(token), []byte(acc.user.Email), s.cfg.ResetTTL); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store reset token")
	}
	s.logg.Info(s.logg.WithUserID(ctx, acc.user.ID), "password reset requested")
	return token, nil
}

// ResetPassword consumes a reset token and replaces the account password.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	token = strings.TrimSpace(token)
	if token == "" || newPassword == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "token and password are required")
	}

	raw, err := s.storage.Get(ctx, s.resetKey(token))
	if errors.Is(err, storage.ErrNotFound) {
		return pkgerrors.New(pkgerrors.CodeValidation, "reset token is invalid or expired")
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load reset token")
	}
	if err := s.storage.Delete(ctx, s.resetKey(token)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "consume reset token")
	}

	updated, err := s.directory.setPassword(string(raw), newPassword)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	if !updated {
		return pkgerrors.New(pkgerrors.CodeValidation, "reset token is invalid or expired")
	}
	return nil
}

// UpdateProfile changes name and phone. Id and email are immutable.
func (s *Service) UpdateProfile(ctx context.Context, token string, update ProfileUpdate) (*User, error) {
	sess, sessionID, err := s.load(ctx, token)
	if err != nil {
		return nil, err
	}

	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
	}

	user, ok := s.directory.updateProfile(sess.User.ID, func(u *User) {
		if update.Name != nil {
			u.Name = strings.TrimSpace(*update.Name)
		}
		if update.Phone != nil {
			u.Phone = strings.TrimSpace(*update.Phone)
		}
	})
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, sessionExpiredMessage)
	}

	sess.User = user
	if err := s.save(ctx, sessionID, sess); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Service) open(ctx context.Context, user User) (*Session, error) {
	now := s.now()
	token, err := pkgAuth.MintSessionToken(s.cfg, now, pkgAuth.SessionTokenPayload{
		UserID: user.ID,
		Email:  user.Email,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint session token")
	}
	claims, err := pkgAuth.ParseSessionToken(s.cfg, token)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "parse minted token")
	}

	sess := &Session{User: user, Token: token, ExpiresAt: now.Add(s.cfg.TTL).UTC()}
	if err := s.save(ctx, claims.SessionID(), sess); err != nil {
		return nil, err
	}
	s.logg.Info(s.logg.WithUserID(ctx, user.ID), "session opened")
	return sess, nil
}

func (s *Service) save(ctx context.Context, sessionID string, sess *Session) error {
	payload, err := json.Marshal(sess)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode session")
	}
	ttl := sess.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, sessionExpiredMessage)
	}
	if err := s.storage.Set(ctx, s.Key(sessionID), payload, ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store session")
	}
	return nil
}

// load resolves token to its live snapshot. Stale or unreadable snapshots are
// deleted.
func (s *Service) load(ctx context.Context, token string) (*Session, string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, "", pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	claims, err := pkgAuth.ParseSessionToken(s.cfg, token)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid session token")
	}
	sessionID := claims.SessionID()
	key := s.Key(sessionID)

	raw, err := s.storage.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, "", pkgerrors.New(pkgerrors.CodeUnauthorized, sessionExpiredMessage)
	}
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load session")
	}

	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil || sess.Token != token {
		s.discard(ctx, key, "session snapshot unreadable")
		return nil, "", pkgerrors.New(pkgerrors.CodeUnauthorized, sessionExpiredMessage)
	}
	if !s.now().Before(sess.ExpiresAt) {
		s.discard(ctx, key, "session snapshot expired")
		return nil, "", pkgerrors.New(pkgerrors.CodeUnauthorized, sessionExpiredMessage)
	}
	return &sess, sessionID, nil
}

func (s *Service) discard(ctx context.Context, key, reason string) {
	ctx = s.logg.WithField(ctx, "session_key", key)
	s.logg.Info(ctx, reason)
	if err := s.storage.Delete(ctx, key); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "failed to delete session snapshot")
	}
}
