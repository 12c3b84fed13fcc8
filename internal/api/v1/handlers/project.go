package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"konsol-admin/internal/aggregate"
	"konsol-admin/internal/auth"
	"konsol-admin/internal/config"
	"konsol-admin/internal/middleware"
	"konsol-admin/internal/models"
	"konsol-admin/internal/store"
	"konsol-admin/pkg/logger"
)

// Project handlers

// projectVisible menentukan apakah sebuah aggregate terlihat untuk
// sesi non-admin: user adalah owner, project termasuk assignment
// miliknya, atau ada task di dalamnya yang di-assign ke user.
func projectVisible(sess auth.Session, entry *aggregate.AggregatedProject) bool {
	if sess.User == nil {
		return false
	}
	if sess.User.Role == auth.RoleAdmin {
		return true
	}

	for _, ownerID := range entry.OwnerIDs {
		if ownerID == sess.User.ID {
			return true
		}
	}

	assigned := make(map[string]bool, len(sess.User.Projects))
	for _, p := range sess.User.Projects {
		if p.ID != "" {
			assigned[p.ID] = true
		}
	}
	for _, id := range entry.ProjectIDs {
		if assigned[id] {
			return true
		}
	}

	for _, t := range entry.Tasks {
		if t.Assignee == sess.User.ID {
			return true
		}
	}
	return false
}

// ListProjects mengembalikan project index (kunci kanonik: id).
// Non-admin hanya menerima project yang visible untuknya.
func ListProjects(d Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := middleware.SessionFrom(c)

		snap, err := d.Agg.Load(c.Context())
		if err != nil {
			return fetchFailed(c, err)
		}

		index := snap.ProjectIndex(aggregate.KeyByID)
		visible := make([]*aggregate.AggregatedProject, 0, len(index))
		for _, entry := range aggregate.List(index) {
			if projectVisible(sess, entry) {
				visible = append(visible, entry)
			}
		}

		return c.JSON(fiber.Map{
			"message": "Projects fetched successfully",
			"success": true,
			"status":  200,
			"data":    visible,
		})
	}
}

// GetProject mengembalikan detail satu project: aggregate-nya beserta
// daftar employee yang terlibat (owner dan assignee, tersanitasi).
func GetProject(d Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := middleware.SessionFrom(c)
		projectID := c.Params("id")

		snap, err := d.Agg.Load(c.Context())
		if err != nil {
			return fetchFailed(c, err)
		}

		index := snap.ProjectIndex(aggregate.KeyByID)
		entry, ok := index[projectID]
		if !ok {
			return c.Status(404).JSON(fiber.Map{
				"message": "Project not found",
				"success": false,
				"status":  404,
			})
		}

		if !projectVisible(sess, entry) {
			return forbidden(c, sess, "get project "+projectID)
		}

		// employee yang terlibat: owner + assignee task
		involved := make(map[string]bool, len(entry.OwnerIDs))
		for _, id := range entry.OwnerIDs {
			involved[id] = true
		}
		for _, t := range entry.Tasks {
			if t.Assignee != "" {
				involved[t.Assignee] = true
			}
		}
		assignedEmployees := make([]models.AuthUser, 0, len(involved))
		for _, emp := range snap.Employees {
			if involved[emp.ID] {
				assignedEmployees = append(assignedEmployees, auth.Sanitize(emp))
			}
		}

		return c.JSON(fiber.Map{
			"message": "Project found",
			"success": true,
			"status":  200,
			"data": fiber.Map{
				"project":           entry,
				"assignedEmployees": assignedEmployees,
			},
		})
	}
}

// CreateProject membuat project baru. Hanya admin; owner di-set ke
// user yang membuat.
func CreateProject(d Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := middleware.SessionFrom(c)
		if sess.User.Role != auth.RoleAdmin {
			return forbidden(c, sess, "create project")
		}

		// struct ProjectRequest menerima inputan dari user
		type ProjectRequest struct {
			ProjectName string        `json:"projectName" validate:"required"`
			Description string        `json:"description" validate:"required"`
			Tasks       []models.Task `json:"tasks"`
		}

		var req ProjectRequest
		if err := c.BodyParser(&req); err != nil {
			logger.ErrorLogger.Error("Bad request in create project", zap.Error(err))
			return c.Status(400).JSON(fiber.Map{
				"message": "Bad request",
				"success": false,
				"status":  400,
			})
		}

		if err := config.Validate.Struct(req); err != nil {
			logger.AuditLogger.Warn("Validation error during create project", zap.Error(err))
			return c.Status(400).JSON(fiber.Map{
				"message": "Validation error",
				"errors":  err.Error(),
				"success": false,
				"status":  400,
			})
		}

		var created models.Project
		err := d.Store.Create(c.Context(), store.ResourceProjects, models.Project{
			ProjectName: req.ProjectName,
			Description: req.Description,
			EmployeeID:  sess.User.ID,
			Tasks:       req.Tasks,
		}, &created)
		if err != nil {
			return fetchFailed(c, err)
		}

		logger.AuditLogger.Info("Project created",
			zap.String("id", created.ID), zap.String("owner", sess.User.ID))
		return c.Status(201).JSON(fiber.Map{
			"message": "Project created successfully",
			"success": true,
			"status":  201,
			"data":    created,
		})
	}
}
