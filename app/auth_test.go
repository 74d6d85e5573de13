package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/codybmenefee/custodian-integration-tool/adapters/auth"
	"github.com/codybmenefee/custodian-integration-tool/adapters/clock"
	"github.com/codybmenefee/custodian-integration-tool/adapters/hasher"
	"github.com/codybmenefee/custodian-integration-tool/adapters/idgen"
	"github.com/codybmenefee/custodian-integration-tool/app"
	"github.com/codybmenefee/custodian-integration-tool/domain/schema"
	"github.com/codybmenefee/custodian-integration-tool/ports"
	"github.com/rs/zerolog"
)

type memUserStore struct {
	byID map[string]ports.User
}

var _ ports.UserStore = (*memUserStore)(nil)

func newMemUserStore() *memUserStore {
	return &memUserStore{byID: map[string]ports.User{}}
}

func (m *memUserStore) Get(_ context.Context, id string) (ports.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return ports.User{}, ports.ErrNotFound
	}
	return u, nil
}

func (m *memUserStore) GetByEmail(_ context.Context, email string) (ports.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return ports.User{}, ports.ErrNotFound
}

func (m *memUserStore) Create(_ context.Context, u ports.User) error {
	for _, existing := range m.byID {
		if existing.Email == u.Email {
			return ports.ErrDuplicate
		}
	}
	m.byID[u.ID] = u
	return nil
}

func (m *memUserStore) List(_ context.Context, limit, offset int) ([]ports.User, error) {
	out := make([]ports.User, 0, len(m.byID))
	for _, u := range m.byID {
		out = append(out, u)
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *memUserStore) Count(_ context.Context) (int, error) {
	return len(m.byID), nil
}

func (m *memUserStore) Delete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return ports.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func newAuthService(users *memUserStore) *app.AuthService {
	return app.NewAuthService(
		users,
		hasher.Fake{},
		auth.NewTokenService("test-secret", time.Hour),
		clock.NewFake(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)),
		idgen.NewSequential("usr-"),
		zerolog.Nop(),
	)
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	svc := newAuthService(newMemUserStore())
	ctx := context.Background()

	u, err := svc.Register(ctx, "Ops@Custodian.Example", "correct horse", "Ops Team")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Email != "ops@custodian.example" {
		t.Errorf("email = %q, want lowercased", u.Email)
	}
	if u.PasswordHash != nil {
		t.Error("password hash must be stripped from the returned user")
	}

	token, expiresAt, logged, err := svc.Login(ctx, "ops@custodian.example", "correct horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" || expiresAt.IsZero() {
		t.Error("login should issue a token with an expiry")
	}
	if logged.ID != u.ID {
		t.Errorf("logged.ID = %q, want %q", logged.ID, u.ID)
	}
}

func TestAuthService_RegisterValidation(t *testing.T) {
	svc := newAuthService(newMemUserStore())
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"missing at sign", "not-an-email", "long enough pw"},
		{"empty email", "  ", "long enough pw"},
		{"short password", "ok@custodian.example", "short"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Register(ctx, tt.email, tt.password, ""); !schema.IsValidation(err) {
				t.Errorf("err = %v, want validation error", err)
			}
		})
	}
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	svc := newAuthService(newMemUserStore())
	ctx := context.Background()

	if _, err := svc.Register(ctx, "ops@custodian.example", "correct horse", ""); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := svc.Register(ctx, "OPS@custodian.example", "battery staple", "")
	if !errors.Is(err, app.ErrEmailTaken) {
		t.Errorf("err = %v, want ErrEmailTaken", err)
	}
}

func TestAuthService_LoginRejectsBadCredentials(t *testing.T) {
	users := newMemUserStore()
	svc := newAuthService(users)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "ops@custodian.example", "correct horse", ""); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, _, _, err := svc.Login(ctx, "ops@custodian.example", "wrong"); !errors.Is(err, app.ErrInvalidCredentials) {
		t.Errorf("wrong password: err = %v, want ErrInvalidCredentials", err)
	}
	if _, _, _, err := svc.Login(ctx, "nobody@custodian.example", "correct horse"); !errors.Is(err, app.ErrInvalidCredentials) {
		t.Errorf("unknown email: err = %v, want ErrInvalidCredentials", err)
	}
}
