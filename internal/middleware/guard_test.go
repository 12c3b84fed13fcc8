package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"konsol-admin/internal/auth"
	"konsol-admin/internal/models"
)

func authedSession(role string) auth.Session {
	user := &models.AuthUser{ID: "1", Role: role, Permissions: auth.PermissionsFor(role)}
	return auth.Session{State: auth.StateAuthenticated, User: user}
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name string
		sess auth.Session
		tag  string
		want Decision
	}{
		{"restoring suspends", auth.Session{State: auth.StateRestoring}, auth.PermTasks, DecisionSuspend},
		{"unauthenticated goes to root", auth.Session{State: auth.StateUnauthenticated}, auth.PermTasks, DecisionRedirectRoot},
		{"missing permission goes to unauthorized", authedSession(auth.RoleEmployee), auth.PermDashboard, DecisionRedirectUnauthorized},
		{"employee allowed on tasks", authedSession(auth.RoleEmployee), auth.PermTasks, DecisionAllow},
		{"admin allowed on dashboard", authedSession(auth.RoleAdmin), auth.PermDashboard, DecisionAllow},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Decide(tc.sess, tc.tag))
		})
	}
}

// guardApp memasang sesi tetap di locals lalu menjaga satu route.
func guardApp(sess auth.Session, tag string) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(SessionLocal, sess)
		return c.Next()
	})
	app.Get("/guarded", RequirePermission(tag), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func TestRequirePermissionAllows(t *testing.T) {
	app := guardApp(authedSession(auth.RoleAdmin), auth.PermDashboard)

	resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestRequirePermissionRedirectsToRoot(t *testing.T) {
	app := guardApp(auth.Session{State: auth.StateUnauthenticated}, auth.PermDashboard)

	resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
	require.NoError(t, err)
	assert.Equal(t, 302, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
}

func TestRequirePermissionRedirectsToUnauthorized(t *testing.T) {
	app := guardApp(authedSession(auth.RoleEmployee), auth.PermEmployees)

	resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
	require.NoError(t, err)
	assert.Equal(t, 302, resp.StatusCode)
	assert.Equal(t, "/unauthorized", resp.Header.Get("Location"))
}

func TestRequirePermissionSuspends(t *testing.T) {
	app := guardApp(auth.Session{State: auth.StateRestoring}, auth.PermTasks)

	resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
	require.NoError(t, err)
	assert.Equal(t, 204, resp.StatusCode)
}
