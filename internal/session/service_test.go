package session

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/oxygenixlabs/storefront/internal/storage"
	pkgAuth "github.com/oxygenixlabs/storefront/pkg/auth"
	"github.com/oxygenixlabs/storefront/pkg/config"
	pkgerrors "github.com/oxygenixlabs/storefront/pkg/errors"
	"github.com/oxygenixlabs/storefront/pkg/logger"
)

var testPasswordCfg = config.PasswordConfig{
	ArgonMemoryKB:    8 * 1024,
	ArgonTime:        1,
	ArgonParallelism: 1,
	ArgonSaltLen:     16,
	ArgonKeyLen:      32,
}

func newTestService(t *testing.T) (*Service, *storage.Memory) {
	t.Helper()
	mem := storage.NewMemory()
	svc, err := NewService(ServiceParams{
		Storage: mem,
		Session: config.SessionConfig{
			Namespace: DefaultNamespace,
			TTL:       7 * 24 * time.Hour,
			ResetTTL:  time.Hour,
			Secret:    "test-secret",
			Issuer:    "oxygenix-test",
		},
		Password: testPasswordCfg,
		Logger:   logger.Nop(),
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, mem
}

func TestLoginWithSeededAccount(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()

	sess, err := svc.Login(ctx, " Demo@OxygenixLabs.com ", DemoPassword)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if sess.User.ID != "user_1" || sess.User.Name != "Demo User" {
		t.Fatalf("unexpected user %+v", sess.User)
	}
	if got := time.Until(sess.ExpiresAt); got < 6*24*time.Hour || got > 7*24*time.Hour {
		t.Fatalf("expected 7 day expiry, got %v", got)
	}

	claims, err := pkgAuth.ParseSessionToken(svc.cfg, sess.Token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	raw, err := mem.Get(ctx, "oxygenix_auth:"+claims.SessionID())
	if err != nil {
		t.Fatalf("expected stored snapshot: %v", err)
	}
	var stored Session
	if err := json.Unmarshal(raw, &stored); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if stored.Token != sess.Token || stored.User.Email != "demo@oxygenixlabs.com" {
		t.Fatalf("unexpected snapshot %+v", stored)
	}

	user, err := svc.CurrentUser(ctx, sess.Token)
	if err != nil {
		t.Fatalf("CurrentUser: %v", err)
	}
	if user.ID != "user_1" {
		t.Fatalf("unexpected current user %+v", user)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, tc := range []struct{ email, password string }{
		{"demo@oxygenixlabs.com", "wrong"},
		{"nobody@example.com", DemoPassword},
	} {
		_, err := svc.Login(ctx, tc.email, tc.password)
		if !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
			t.Fatalf("%s: expected unauthorized, got %v", tc.email, err)
		}
		if pkgerrors.As(err).Message() != "invalid email or password" {
			t.Fatalf("unexpected message %q", pkgerrors.As(err).Message())
		}
	}
}

func TestSignupThenDuplicate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	sess, err := svc.Signup(ctx, SignupInput{Name: "Asha", Email: "Asha@Example.com", Password: "Secret#123"})
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if sess.User.Email != "asha@example.com" || sess.User.ID == "" {
		t.Fatalf("unexpected user %+v", sess.User)
	}
	if _, err := svc.Login(ctx, "asha@example.com", "Secret#123"); err != nil {
		t.Fatalf("login after signup: %v", err)
	}

	_, err = svc.Signup(ctx, SignupInput{Name: "Other", Email: "asha@example.com", Password: "x"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	_, err = svc.Signup(ctx, SignupInput{Email: "blank@example.com", Password: "x"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	sess, err := svc.Login(ctx, "test@example.com", DemoPassword)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := svc.Logout(ctx, sess.Token); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if err := svc.Logout(ctx, sess.Token); err != nil {
		t.Fatalf("second Logout: %v", err)
	}
	if err := svc.Logout(ctx, "garbage"); err != nil {
		t.Fatalf("Logout with garbage token: %v", err)
	}

	if _, err := svc.CurrentUser(ctx, sess.Token); !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized after logout, got %v", err)
	}
}

func TestExpiredSnapshotIsDeleted(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()

	sess, err := svc.Login(ctx, "demo@oxygenixlabs.com", DemoPassword)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	claims, _ := pkgAuth.ParseSessionToken(svc.cfg, sess.Token)

	svc.now = func() time.Time { return time.Now().Add(8 * 24 * time.Hour) }
	if _, err := svc.CurrentUser(ctx, sess.Token); !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if _, err := mem.Get(ctx, svc.Key(claims.SessionID())); err != storage.ErrNotFound {
		t.Fatalf("expected snapshot deleted, got %v", err)
	}
}

func TestCorruptSnapshotIsDeleted(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()

	sess, err := svc.Login(ctx, "demo@oxygenixlabs.com", DemoPassword)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	claims, _ := pkgAuth.ParseSessionToken(svc.cfg, sess.Token)
	key := svc.Key(claims.SessionID())
	if err := mem.Set(ctx, key, []byte("{not json"), 0); err != nil {
		t.Fatalf("seed corrupt snapshot: %v", err)
	}

	if _, err := svc.CurrentUser(ctx, sess.Token); !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if _, err := mem.Get(ctx, key); err != storage.ErrNotFound {
		t.Fatalf("expected snapshot deleted, got %v", err)
	}
}

func TestCurrentUserRejectsForeignToken(t *testing.T) {
	svc, _ := newTestService(t)

	other := svc.cfg
	other.Secret = "another-secret"
	token, err := pkgAuth.MintSessionToken(other, time.Now(), pkgAuth.SessionTokenPayload{UserID: "user_1"})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, err := svc.CurrentUser(context.Background(), token); !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if _, err := svc.CurrentUser(context.Background(), ""); !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized for blank token, got %v", err)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	token, err := svc.RequestPasswordReset(ctx, "unknown@example.com")
	if err != nil || token != "" {
		t.Fatalf("expected silent success for unknown email, got %q %v", token, err)
	}

	token, err = svc.RequestPasswordReset(ctx, "test@example.com")
	if err != nil || token == "" {
		t.Fatalf("expected reset token, got %q %v", token, err)
	}
	if err := svc.ResetPassword(ctx, token, "N3w#Password"); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}
	if err := svc.ResetPassword(ctx, token, "again"); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected consumed token to be rejected, got %v", err)
	}

	if _, err := svc.Login(ctx, "test@example.com", DemoPassword); !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected old password rejected, got %v", err)
	}
	if _, err := svc.Login(ctx, "test@example.com", "N3w#Password"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}

func TestUpdateProfileKeepsIdentity(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	sess, err := svc.Login(ctx, "demo@oxygenixlabs.com", DemoPassword)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	name := "  Renamed  "
	phone := "+91 90000 00000"
	user, err := svc.UpdateProfile(ctx, sess.Token, ProfileUpdate{Name: &name, Phone: &phone})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if user.ID != "user_1" || user.Email != "demo@oxygenixlabs.com" || user.Name != "Renamed" || user.Phone != phone {
		t.Fatalf("unexpected profile %+v", user)
	}

	current, err := svc.CurrentUser(ctx, sess.Token)
	if err != nil {
		t.Fatalf("CurrentUser: %v", err)
	}
	if current.Name != "Renamed" {
		t.Fatalf("expected snapshot rewritten, got %+v", current)
	}

	blank := " "
	if _, err := svc.UpdateProfile(ctx, sess.Token, ProfileUpdate{Name: &blank}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
