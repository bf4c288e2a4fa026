package account

import (
	"context"
	"sync"
	"testing"
	"time"

	"scribe-ai-api/internal/config"
	"scribe-ai-api/internal/domain/entity"
	"scribe-ai-api/internal/domain/repository"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*entity.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	return f.Create(ctx, user)
}

func (f *fakeUserRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) List(ctx context.Context, pagination repository.Pagination) (*repository.PagedResult[*entity.User], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var users []*entity.User
	for _, u := range f.users {
		cp := *u
		users = append(users, &cp)
	}
	return repository.NewPagedResult(users, int64(len(users)), pagination), nil
}

func (f *fakeUserRepo) UpdateLastLogin(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		now := time.Now()
		u.LastLoginAt = &now
	}
	return nil
}

func (f *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	u, _ := f.GetByEmail(ctx, email)
	return u != nil, nil
}

type fakePrefRepo struct {
	mu    sync.Mutex
	prefs map[string]*entity.UserPreference
}

func newFakePrefRepo() *fakePrefRepo {
	return &fakePrefRepo{prefs: make(map[string]*entity.UserPreference)}
}

func (f *fakePrefRepo) Get(ctx context.Context, userID string) (*entity.UserPreference, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.prefs[userID]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (f *fakePrefRepo) Put(ctx context.Context, pref *entity.UserPreference) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *pref
	f.prefs[pref.UserID] = &cp
	return nil
}

func newTestService() (*Service, *fakeUserRepo) {
	users := newFakeUserRepo()
	svc := NewService(users, newFakePrefRepo(), config.JWTConfig{Secret: "test-secret", Issuer: "scribe-test"})
	return svc, users
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	user, tokens, err := svc.Register(ctx, "Writer@Example.com", "hunter22", "Writer")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "writer@example.com" {
		t.Fatalf("email not normalized: %q", user.Email)
	}
	if tokens.AccessToken == "" || tokens.RefreshToken == "" {
		t.Fatal("token pair missing")
	}

	if _, _, err := svc.Register(ctx, "writer@example.com", "other", "Dup"); err == nil {
		t.Fatal("duplicate email must be rejected")
	}

	if _, _, err := svc.Login(ctx, "writer@example.com", "wrong"); err == nil {
		t.Fatal("wrong password must fail")
	}
	logged, _, err := svc.Login(ctx, "writer@example.com", "hunter22")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if logged.ID != user.ID {
		t.Fatalf("logged in as %s, want %s", logged.ID, user.ID)
	}
}

func TestLoginInactiveUser(t *testing.T) {
	svc, users := newTestService()
	ctx := context.Background()

	user, _, err := svc.Register(ctx, "writer@example.com", "hunter22", "Writer")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	user.IsActive = false
	if err := users.Update(ctx, user); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	if _, _, err := svc.Login(ctx, "writer@example.com", "hunter22"); err == nil {
		t.Fatal("inactive user must not log in")
	}
}

func TestRefreshToken(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, tokens, err := svc.Register(ctx, "writer@example.com", "hunter22", "Writer")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	access, err := svc.Refresh(ctx, tokens.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if access == "" {
		t.Fatal("empty access token")
	}

	// 访问令牌不能当刷新令牌用
	if _, err := svc.Refresh(ctx, tokens.AccessToken); err == nil {
		t.Fatal("access token must not refresh")
	}
}

func TestChangePassword(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	user, _, err := svc.Register(ctx, "writer@example.com", "hunter22", "Writer")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := svc.ChangePassword(ctx, user.ID, "wrong", "newpass1"); err == nil {
		t.Fatal("wrong old password must fail")
	}
	if err := svc.ChangePassword(ctx, user.ID, "hunter22", "newpass1"); err != nil {
		t.Fatalf("change password: %v", err)
	}
	if _, _, err := svc.Login(ctx, "writer@example.com", "newpass1"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}

func TestPreferencesRoundTrip(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	pref, err := svc.GetPreferences(ctx, "user-1")
	if err != nil {
		t.Fatalf("get default: %v", err)
	}
	if pref.Content != "{}" {
		t.Fatalf("default content = %q, want {}", pref.Content)
	}

	if err := svc.PutPreferences(ctx, "user-1", `{broken`); err == nil {
		t.Fatal("invalid JSON must be rejected")
	}
	if err := svc.PutPreferences(ctx, "user-1", `{"theme":"dark"}`); err != nil {
		t.Fatalf("put: %v", err)
	}

	pref, err = svc.GetPreferences(ctx, "user-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if pref.Content != `{"theme":"dark"}` {
		t.Fatalf("content = %q", pref.Content)
	}
}
