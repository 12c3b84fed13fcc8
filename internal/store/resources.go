package store

import (
	"context"

	"konsol-admin/internal/models"
)

// Typed fetcher untuk collection yang dikenal. Nama resource di bawah
// adalah kontrak dengan data store.
const (
	ResourceEmployees = "employees"
	ResourceProjects  = "projects"
	ResourceTasks     = "tasks"
)

func (c *Client) Employees(ctx context.Context) ([]models.Employee, error) {
	var employees []models.Employee
	if err := c.List(ctx, ResourceEmployees, &employees); err != nil {
		return nil, err
	}
	return employees, nil
}

func (c *Client) Projects(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	if err := c.List(ctx, ResourceProjects, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (c *Client) Tasks(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	if err := c.List(ctx, ResourceTasks, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// EmployeeProjects memuat nested resource employees/{id}/projects.
func (c *Client) EmployeeProjects(ctx context.Context, employeeID string) ([]models.Project, error) {
	var projects []models.Project
	if err := c.List(ctx, ResourceEmployees+"/"+employeeID+"/projects", &projects); err != nil {
		return nil, err
	}
	return projects, nil
}
