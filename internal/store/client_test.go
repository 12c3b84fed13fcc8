package store

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"konsol-admin/internal/models"
)

func TestListPlainArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/employees", r.URL.Path)
		w.Write([]byte(`[{"id":"1","name":"Siti"}]`))
	}))
	defer srv.Close()

	// trailing slash di base URL tidak boleh menghasilkan double slash
	c := NewClient(srv.URL+"/", nil)
	employees, err := c.Employees(context.Background())
	require.NoError(t, err)
	require.Len(t, employees, 1)
	assert.Equal(t, "Siti", employees[0].Name)
}

func TestListDataWrapper(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"id":"t1","task":"Ship it"}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	tasks, err := c.Tasks(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Ship it", tasks[0].Task)
}

func TestListMalformedPayloadCoercedToEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"rows":[{"id":"1"}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	projects, err := c.Projects(context.Background())
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestListUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(500)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	_, err := c.Employees(context.Background())
	require.Error(t, err)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, 500, fetchErr.Status)
	assert.False(t, IsNotFound(err))
}

func TestGetNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(404)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	var emp models.Employee
	err := c.Get(context.Background(), ResourceEmployees, "missing", &emp)
	assert.True(t, IsNotFound(err))
}

func TestCreateAndUpdate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			assert.Equal(t, "/tasks", r.URL.Path)
			w.WriteHeader(201)
			w.Write([]byte(`{"id":"t9","task":"New"}`))
		case http.MethodPut:
			assert.Equal(t, "/tasks/t9", r.URL.Path)
			w.Write([]byte(`{"id":"t9","task":"Renamed"}`))
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	ctx := context.Background()

	var created models.Task
	require.NoError(t, c.Create(ctx, ResourceTasks, models.Task{Task: "New"}, &created))
	assert.Equal(t, "t9", created.ID)

	var updated models.Task
	require.NoError(t, c.Update(ctx, ResourceTasks, "t9", created, &updated))
	assert.Equal(t, "Renamed", updated.Task)
}

func TestEmployeeProjectsPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/employees/2/projects", r.URL.Path)
		w.Write([]byte(`[{"id":"p2","projectName":"Mobile App"}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	projects, err := c.EmployeeProjects(context.Background(), "2")
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "Mobile App", projects[0].ProjectName)
}
