package auth

import (
	"context"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"stockpilot/internal/core/apperror"
	"stockpilot/internal/core/id"
)

type mockUserRepo struct {
	byEmail map[string]*User
}

func newMockUserRepo(users ...*User) *mockUserRepo {
	m := &mockUserRepo{byEmail: make(map[string]*User)}
	for _, u := range users {
		m.byEmail[u.Email] = u
	}
	return m
}

func (m *mockUserRepo) Create(_ context.Context, user *User) error {
	m.byEmail[user.Email] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, userID id.ID) (*User, error) {
	for _, u := range m.byEmail {
		if u.ID == userID {
			return u, nil
		}
	}
	return nil, apperror.NewNotFound("user", userID.String())
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	if u, ok := m.byEmail[email]; ok {
		return u, nil
	}
	return nil, apperror.NewNotFound("user", email)
}

func (m *mockUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, ok := m.byEmail[email]
	return ok, nil
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return string(hash)
}

func newTestService(users ...*User) *Service {
	return NewService(newMockUserRepo(users...), NewJWTService(DefaultJWTConfig("test-secret")))
}

func TestLogin_Success(t *testing.T) {
	ctx := context.Background()
	admin := NewUser("admin@example.com", "Admin", hashOf(t, "s3cret"), RoleAdmin)
	svc := newTestService(admin)

	result, err := svc.Login(ctx, "Admin@Example.com ", "s3cret")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if result.Token == "" {
		t.Error("expected a token")
	}
	if result.User.Email != "admin@example.com" {
		t.Errorf("user email = %s", result.User.Email)
	}
	if !result.ExpiresAt.After(time.Now()) {
		t.Error("token must expire in the future")
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	ctx := context.Background()
	admin := NewUser("admin@example.com", "Admin", hashOf(t, "s3cret"), RoleAdmin)
	svc := newTestService(admin)

	_, err := svc.Login(ctx, "admin@example.com", "wrong")
	assertUnauthorized(t, err)
}

func TestLogin_UnknownUser(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	_, err := svc.Login(ctx, "ghost@example.com", "whatever")
	assertUnauthorized(t, err)
}

func TestLogin_NonAdminRejected(t *testing.T) {
	ctx := context.Background()
	staff := NewUser("staff@example.com", "Staff", hashOf(t, "s3cret"), RoleStaff)
	svc := newTestService(staff)

	_, err := svc.Login(ctx, "staff@example.com", "s3cret")
	assertUnauthorized(t, err)
}

func assertUnauthorized(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected unauthorized error")
	}
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeUnauthorized {
		t.Errorf("expected %s, got %v", apperror.CodeUnauthorized, err)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	jwtSvc := NewJWTService(DefaultJWTConfig("test-secret"))
	admin := NewUser("admin@example.com", "Admin", "x", RoleAdmin)

	token, _, err := jwtSvc.GenerateToken(admin)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	user, err := jwtSvc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if user.UserID != admin.ID.String() || user.Email != admin.Email || !user.IsAdmin {
		t.Errorf("claims mismatch: %+v", user)
	}
}

func TestValidateToken_WrongSecret(t *testing.T) {
	admin := NewUser("admin@example.com", "Admin", "x", RoleAdmin)
	token, _, err := NewJWTService(DefaultJWTConfig("secret-a")).GenerateToken(admin)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if _, err := NewJWTService(DefaultJWTConfig("secret-b")).ValidateToken(token); err == nil {
		t.Error("token signed with a different secret must be rejected")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	admin := NewUser("admin@example.com", "Admin", "x", RoleAdmin)
	svc := newTestService(admin)

	_, err := svc.Register(ctx, "admin@example.com", "Dup", "pw", RoleAdmin)
	if err == nil {
		t.Fatal("expected duplicate error")
	}
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeDuplicate {
		t.Errorf("expected %s, got %v", apperror.CodeDuplicate, err)
	}
}
