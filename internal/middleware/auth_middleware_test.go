package middleware

import (
	"net/http/httptest"
	"testing"

	"go-catalog-admin/internal/model"
	"go-catalog-admin/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func (f *fakeUserRepo) FindByEmail(email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) FindByID(id uuid.UUID) (*model.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) Create(u *model.User) error { f.users[u.ID] = u; return nil }
func (f *fakeUserRepo) Update(u *model.User) error { f.users[u.ID] = u; return nil }

func newTestUser(t *testing.T, repo *fakeUserRepo, role string, active bool) (*model.User, string) {
	t.Helper()
	user := &model.User{
		Email:    uuid.NewString() + "@example.com",
		FullName: "Test User",
		Role:     role,
		IsActive: active,
	}
	user.ID = uuid.New()
	require.NoError(t, repo.Create(user))

	token, err := jwt.GenerateToken(user.ID, user.Email, user.FullName, user.Role)
	require.NoError(t, err)
	return user, token
}

func gateApp(repo *fakeUserRepo) (*fiber.App, *int) {
	reached := 0
	app := fiber.New()
	app.Post("/guarded", RequireAuth(repo), RequireAdmin(), func(c *fiber.Ctx) error {
		reached++
		return c.JSON(fiber.Map{"user_id": c.Locals("user_id")})
	})
	return app, &reached
}

func TestRequireAuthMissingToken(t *testing.T) {
	repo := &fakeUserRepo{users: map[uuid.UUID]*model.User{}}
	app, reached := gateApp(repo)

	req := httptest.NewRequest("POST", "/guarded", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, 401, resp.StatusCode)
	assert.Zero(t, *reached)
}

func TestRequireAuthMalformedHeader(t *testing.T) {
	repo := &fakeUserRepo{users: map[uuid.UUID]*model.User{}}
	app, reached := gateApp(repo)

	req := httptest.NewRequest("POST", "/guarded", nil)
	req.Header.Set("Authorization", "Token abc")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, 401, resp.StatusCode)
	assert.Zero(t, *reached)
}

func TestRequireAuthInvalidToken(t *testing.T) {
	repo := &fakeUserRepo{users: map[uuid.UUID]*model.User{}}
	app, reached := gateApp(repo)

	req := httptest.NewRequest("POST", "/guarded", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, 401, resp.StatusCode)
	assert.Zero(t, *reached)
}

func TestRequireAuthUnknownUser(t *testing.T) {
	repo := &fakeUserRepo{users: map[uuid.UUID]*model.User{}}
	app, reached := gateApp(repo)

	// Token is valid but the user no longer exists in the store
	token, err := jwt.GenerateToken(uuid.New(), "ghost@example.com", "Ghost", model.RoleAdmin)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/guarded", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, 401, resp.StatusCode)
	assert.Zero(t, *reached)
}

func TestRequireAuthInactiveUser(t *testing.T) {
	repo := &fakeUserRepo{users: map[uuid.UUID]*model.User{}}
	app, reached := gateApp(repo)
	_, token := newTestUser(t, repo, model.RoleAdmin, false)

	req := httptest.NewRequest("POST", "/guarded", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, 401, resp.StatusCode)
	assert.Zero(t, *reached)
}

func TestRequireAdminRejectsNonAdmin(t *testing.T) {
	repo := &fakeUserRepo{users: map[uuid.UUID]*model.User{}}
	app, reached := gateApp(repo)
	_, token := newTestUser(t, repo, model.RoleEditor, true)

	req := httptest.NewRequest("POST", "/guarded", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, 403, resp.StatusCode)
	assert.Zero(t, *reached, "forbidden callers never reach the handler")
}

func TestRequireAdminAllowsAdmin(t *testing.T) {
	repo := &fakeUserRepo{users: map[uuid.UUID]*model.User{}}
	app, reached := gateApp(repo)
	_, token := newTestUser(t, repo, model.RoleAdmin, true)

	req := httptest.NewRequest("POST", "/guarded", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, 1, *reached)
}

// The resolved role comes from the user store, not from the token: a token
// minted with an admin role claim for a user who has since been demoted must
// still be rejected.
func TestRequireAdminUsesStoredRole(t *testing.T) {
	repo := &fakeUserRepo{users: map[uuid.UUID]*model.User{}}
	app, reached := gateApp(repo)
	user, token := newTestUser(t, repo, model.RoleAdmin, true)

	user.Role = model.RoleEditor
	require.NoError(t, repo.Update(user))

	req := httptest.NewRequest("POST", "/guarded", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, 403, resp.StatusCode)
	assert.Zero(t, *reached)
}
