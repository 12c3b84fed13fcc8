package v1

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"konsol-admin/internal/aggregate"
	"konsol-admin/internal/api/v1/handlers"
	"konsol-admin/internal/auth"
	"konsol-admin/internal/datastore"
	"konsol-admin/internal/store"
)

const testSeed = `{
  "employees": [
    {"id": "1", "name": "Siti", "email": "siti@company.com", "password": "admin123", "department": "Engineering", "role": "admin", "projects": []},
    {"id": "2", "name": "Budi", "email": "budi@company.com", "password": "budi1234", "department": "Engineering", "role": "employee", "projects": []},
    {"id": "3", "name": "Dewi", "email": "dewi@company.com", "password": "dewi1234", "department": "Design", "role": "employee", "projects": []}
  ],
  "projects": [
    {"id": "p1", "projectName": "Website Redesign", "employeeId": "1", "tasks": []},
    {"id": "p2", "projectName": "Mobile App", "employeeId": "2", "tasks": []},
    {"id": "p3", "projectName": "Internal Tools", "employeeId": "1", "tasks": []}
  ],
  "tasks": [
    {"id": "t1", "task": "Draft landing page", "assignee": "3", "projectId": "p1", "status": "in-progress", "priority": "high"},
    {"id": "t2", "task": "Set up CI", "assignee": "2", "projectId": "p2", "status": "not-started", "priority": "medium"},
    {"id": "t3", "task": "Migrate reports", "assignee": "2", "projectId": "p3", "status": "completed", "priority": "low"}
  ]
}`

// createTestApp menjalankan data store di httptest server dan merakit
// aplikasi lengkap di depannya, tanpa Redis (session store in-memory,
// cache dimatikan).
func createTestApp(t *testing.T) (*fiber.App, func()) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "db.json")
	if err := os.WriteFile(dbPath, []byte(testSeed), 0644); err != nil {
		t.Fatalf("Error writing seed: %v", err)
	}
	ds, err := datastore.New(dbPath)
	if err != nil {
		t.Fatalf("Error loading database: %v", err)
	}
	upstream := httptest.NewServer(adaptor.FiberApp(ds.App()))

	client := store.NewClient(upstream.URL, nil)
	manager := auth.NewManager(client, auth.NewMemorySessionStore())

	app := fiber.New()
	RegisterRoutes(app, handlers.Deps{
		Auth:     manager,
		Store:    client,
		Agg:      aggregate.NewService(client),
		Secret:   []byte("test-secret"),
		TokenTTL: time.Hour,
	})
	return app, upstream.Close
}

func login(t *testing.T, app *fiber.App, email, password string) string {
	t.Helper()

	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	req := httptest.NewRequest("POST", "/api/v1/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Login request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected login status 200 but got %d", resp.StatusCode)
	}
	var result struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Error decoding login response: %v", err)
	}
	if result.Data.Token == "" {
		t.Fatalf("Expected token in login response")
	}
	return result.Data.Token
}

func get(t *testing.T, app *fiber.App, path, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Request %s failed: %v", path, err)
	}
	return resp
}

func decodeData(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("Error decoding response: %v", err)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		t.Fatalf("Error decoding data field: %v", err)
	}
}

func TestLoginErrors(t *testing.T) {
	app, cleanup := createTestApp(t)
	defer cleanup()

	tests := []struct {
		name     string
		email    string
		password string
		want     int
	}{
		{"email without at sign", "sitisalahcompany.com", "admin123", 400},
		{"password too short", "siti@company.com", "12345", 400},
		{"unknown email", "nobody@company.com", "admin123", 404},
		{"wrong password", "siti@company.com", "wrong-password", 401},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			body, _ := json.Marshal(map[string]string{"email": tc.email, "password": tc.password})
			req := httptest.NewRequest("POST", "/api/v1/login", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("Login request failed: %v", err)
			}
			if resp.StatusCode != tc.want {
				t.Errorf("Expected status %d but got %d", tc.want, resp.StatusCode)
			}
		})
	}
}

func TestLoginIsCaseInsensitiveOnEmail(t *testing.T) {
	app, cleanup := createTestApp(t)
	defer cleanup()

	token := login(t, app, "BUDI@Company.COM", "budi1234")
	resp := get(t, app, "/api/v1/tasks", token)
	if resp.StatusCode != 200 {
		t.Errorf("Expected status 200 but got %d", resp.StatusCode)
	}
}

func TestDashboardForAdmin(t *testing.T) {
	app, cleanup := createTestApp(t)
	defer cleanup()

	token := login(t, app, "siti@company.com", "admin123")
	resp := get(t, app, "/api/v1/dashboard", token)
	if resp.StatusCode != 200 {
		t.Fatalf("Expected status 200 but got %d", resp.StatusCode)
	}

	var data struct {
		TotalProjects  int            `json:"totalProjects"`
		TotalEmployees int            `json:"totalEmployees"`
		TotalTasks     int            `json:"totalTasks"`
		TasksByStatus  map[string]int `json:"tasksByStatus"`
	}
	decodeData(t, resp, &data)

	if data.TotalProjects != 3 || data.TotalEmployees != 3 || data.TotalTasks != 3 {
		t.Errorf("Unexpected totals: %+v", data)
	}
	if data.TasksByStatus["completed"] != 1 || data.TasksByStatus["in-progress"] != 1 {
		t.Errorf("Unexpected task breakdown: %v", data.TasksByStatus)
	}
}

func TestGuardRedirectsAnonymousToRoot(t *testing.T) {
	app, cleanup := createTestApp(t)
	defer cleanup()

	for _, path := range []string{"/api/v1/dashboard", "/api/v1/employees", "/api/v1/projects", "/api/v1/tasks"} {
		resp := get(t, app, path, "")
		if resp.StatusCode != 302 {
			t.Errorf("Expected redirect for %s but got %d", path, resp.StatusCode)
			continue
		}
		if loc := resp.Header.Get("Location"); loc != "/" {
			t.Errorf("Expected redirect to / for %s but got %s", path, loc)
		}
	}
}

func TestGuardRedirectsEmployeeWithoutPermission(t *testing.T) {
	app, cleanup := createTestApp(t)
	defer cleanup()

	token := login(t, app, "budi@company.com", "budi1234")
	for _, path := range []string{"/api/v1/dashboard", "/api/v1/employees"} {
		resp := get(t, app, path, token)
		if resp.StatusCode != 302 {
			t.Errorf("Expected redirect for %s but got %d", path, resp.StatusCode)
			continue
		}
		if loc := resp.Header.Get("Location"); loc != "/unauthorized" {
			t.Errorf("Expected redirect to /unauthorized for %s but got %s", path, loc)
		}
	}
}

func TestEmployeeSeesOnlyOwnProjects(t *testing.T) {
	app, cleanup := createTestApp(t)
	defer cleanup()

	token := login(t, app, "budi@company.com", "budi1234")
	resp := get(t, app, "/api/v1/projects", token)
	if resp.StatusCode != 200 {
		t.Fatalf("Expected status 200 but got %d", resp.StatusCode)
	}

	var projects []struct {
		ProjectName string `json:"projectName"`
	}
	decodeData(t, resp, &projects)

	// Budi memiliki p2 dan punya task di p3; p1 tidak terlihat
	if len(projects) != 2 {
		t.Fatalf("Expected 2 visible projects but got %d", len(projects))
	}
	names := map[string]bool{}
	for _, p := range projects {
		names[p.ProjectName] = true
	}
	if !names["Mobile App"] || !names["Internal Tools"] {
		t.Errorf("Unexpected visible projects: %v", names)
	}
}

func TestAdminSeesAllProjects(t *testing.T) {
	app, cleanup := createTestApp(t)
	defer cleanup()

	token := login(t, app, "siti@company.com", "admin123")
	resp := get(t, app, "/api/v1/projects", token)

	var projects []struct {
		Key string `json:"key"`
	}
	decodeData(t, resp, &projects)
	if len(projects) != 3 {
		t.Errorf("Expected 3 projects but got %d", len(projects))
	}
}

func TestTaskFilters(t *testing.T) {
	app, cleanup := createTestApp(t)
	defer cleanup()

	token := login(t, app, "siti@company.com", "admin123")

	var tasks []struct {
		ID string `json:"id"`
	}
	decodeData(t, get(t, app, "/api/v1/tasks?status=Completed", token), &tasks)
	if len(tasks) != 1 || tasks[0].ID != "t3" {
		t.Errorf("Expected only t3 for completed filter, got %v", tasks)
	}

	decodeData(t, get(t, app, "/api/v1/tasks?projectId=p1", token), &tasks)
	if len(tasks) != 1 || tasks[0].ID != "t1" {
		t.Errorf("Expected only t1 for p1 filter, got %v", tasks)
	}
}

func TestTaskOptionsForEmployee(t *testing.T) {
	app, cleanup := createTestApp(t)
	defer cleanup()

	token := login(t, app, "budi@company.com", "budi1234")
	resp := get(t, app, "/api/v1/tasks/options", token)
	if resp.StatusCode != 200 {
		t.Fatalf("Expected status 200 but got %d", resp.StatusCode)
	}

	var data struct {
		Projects  []struct{ Key string } `json:"projects"`
		Assignees []struct {
			ID string `json:"id"`
		} `json:"assignees"`
	}
	decodeData(t, resp, &data)

	if len(data.Projects) != 2 {
		t.Errorf("Expected 2 project options but got %d", len(data.Projects))
	}
	// non-admin hanya bisa assign ke dirinya sendiri
	if len(data.Assignees) != 1 || data.Assignees[0].ID != "2" {
		t.Errorf("Expected only self in assignees, got %v", data.Assignees)
	}
}

func TestCreateProjectRequiresAdmin(t *testing.T) {
	app, cleanup := createTestApp(t)
	defer cleanup()

	token := login(t, app, "budi@company.com", "budi1234")
	body, _ := json.Marshal(map[string]string{"projectName": "Rogue", "description": "nope"})
	req := httptest.NewRequest("POST", "/api/v1/projects", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != 403 {
		t.Errorf("Expected status 403 but got %d", resp.StatusCode)
	}
}

func TestAssigneeCannotMoveTaskToHiddenProject(t *testing.T) {
	app, cleanup := createTestApp(t)
	defer cleanup()

	// Budi adalah assignee t2; p1 bukan project yang visible untuknya
	token := login(t, app, "budi@company.com", "budi1234")

	update := func(projectID string) *http.Response {
		body, _ := json.Marshal(map[string]string{"projectId": projectID})
		req := httptest.NewRequest("PUT", "/api/v1/tasks/t2", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("Update request failed: %v", err)
		}
		return resp
	}

	if resp := update("p1"); resp.StatusCode != 403 {
		t.Errorf("Expected status 403 moving to hidden project but got %d", resp.StatusCode)
	}
	if resp := update("p3"); resp.StatusCode != 200 {
		t.Errorf("Expected status 200 moving to visible project but got %d", resp.StatusCode)
	}
}

func TestLogoutInvalidatesSession(t *testing.T) {
	app, cleanup := createTestApp(t)
	defer cleanup()

	token := login(t, app, "siti@company.com", "admin123")

	req := httptest.NewRequest("POST", "/api/v1/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Logout request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("Expected logout status 200 but got %d", resp.StatusCode)
	}

	// logout kedua dengan token yang sama tetap sukses
	req = httptest.NewRequest("POST", "/api/v1/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Second logout failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("Expected idempotent logout but got %d", resp.StatusCode)
	}

	resp = get(t, app, "/api/v1/dashboard", token)
	if resp.StatusCode != 302 {
		t.Errorf("Expected redirect after logout but got %d", resp.StatusCode)
	}
}

func TestReturningToRootDropsSession(t *testing.T) {
	app, cleanup := createTestApp(t)
	defer cleanup()

	token := login(t, app, "siti@company.com", "admin123")

	resp := get(t, app, "/", token)
	if resp.StatusCode != 200 {
		t.Fatalf("Expected status 200 on root but got %d", resp.StatusCode)
	}

	resp = get(t, app, "/api/v1/dashboard", token)
	if resp.StatusCode != 302 {
		t.Errorf("Expected session to be dropped after root visit, got %d", resp.StatusCode)
	}
}

func TestUnknownRouteIs404(t *testing.T) {
	app, cleanup := createTestApp(t)
	defer cleanup()

	resp := get(t, app, "/definitely-not-a-page", "")
	if resp.StatusCode != 404 {
		t.Errorf("Expected status 404 but got %d", resp.StatusCode)
	}
}
