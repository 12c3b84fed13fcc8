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

// Task handlers

// visibleProjectIDs mengumpulkan id project yang boleh dilihat sesi ini.
func visibleProjectIDs(sess auth.Session, snap aggregate.Snapshot) map[string]bool {
	ids := make(map[string]bool)
	index := snap.ProjectIndex(aggregate.KeyByID)
	for _, entry := range index {
		if projectVisible(sess, entry) {
			for _, id := range entry.ProjectIDs {
				ids[id] = true
			}
		}
	}
	return ids
}

// taskVisible: admin melihat semua, non-admin hanya task miliknya atau
// task dalam project yang visible untuknya.
func taskVisible(sess auth.Session, t models.Task, projectIDs map[string]bool) bool {
	if sess.User == nil {
		return false
	}
	if sess.User.Role == auth.RoleAdmin {
		return true
	}
	return t.Assignee == sess.User.ID || projectIDs[t.ProjectID]
}

// ListTasks mengembalikan semua task yang visible, dengan filter
// opsional ?projectId= dan ?status=.
func ListTasks(d Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := middleware.SessionFrom(c)

		snap, err := d.Agg.Load(c.Context())
		if err != nil {
			return fetchFailed(c, err)
		}

		projectFilter := c.Query("projectId")
		statusFilter := ""
		if s := c.Query("status"); s != "" {
			statusFilter = models.NormalizeStatus(s)
		}

		visible := visibleProjectIDs(sess, snap)
		tasks := make([]models.Task, 0, len(snap.Tasks))
		for _, t := range snap.Tasks {
			if !taskVisible(sess, t, visible) {
				continue
			}
			if projectFilter != "" && t.ProjectID != projectFilter {
				continue
			}
			if statusFilter != "" && models.NormalizeStatus(t.Status) != statusFilter {
				continue
			}
			tasks = append(tasks, t)
		}

		return c.JSON(fiber.Map{
			"message": "Tasks fetched successfully",
			"success": true,
			"status":  200,
			"data":    tasks,
		})
	}
}

// TaskOptions mengembalikan pilihan untuk form task: project yang
// visible dan employee yang bisa dijadikan assignee.
func TaskOptions(d Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := middleware.SessionFrom(c)

		snap, err := d.Agg.Load(c.Context())
		if err != nil {
			return fetchFailed(c, err)
		}

		index := snap.ProjectIndex(aggregate.KeyByID)
		projects := make([]*aggregate.AggregatedProject, 0, len(index))
		for _, entry := range aggregate.List(index) {
			if projectVisible(sess, entry) {
				projects = append(projects, entry)
			}
		}

		assignees := auth.VisibleEmployees(sess, snap.Employees)

		return c.JSON(fiber.Map{
			"message": "Task options fetched successfully",
			"success": true,
			"status":  200,
			"data": fiber.Map{
				"projects":  projects,
				"assignees": assignees,
			},
		})
	}
}

// CreateTask membuat task baru dalam sebuah project yang visible.
func CreateTask(d Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := middleware.SessionFrom(c)

		// struct TaskRequest menerima inputan dari user
		type TaskRequest struct {
			Task      string  `json:"task" validate:"required"`
			ProjectID string  `json:"projectId" validate:"required"`
			Assignee  string  `json:"assignee"`
			Status    string  `json:"status"`
			Priority  string  `json:"priority"`
			DueDate   *string `json:"dueDate"`
		}

		var req TaskRequest
		if err := c.BodyParser(&req); err != nil {
			logger.ErrorLogger.Error("Bad request in create task", zap.Error(err))
			return c.Status(400).JSON(fiber.Map{
				"message": "Bad request",
				"success": false,
				"status":  400,
			})
		}

		if err := config.Validate.Struct(req); err != nil {
			logger.AuditLogger.Warn("Validation error during create task", zap.Error(err))
			return c.Status(400).JSON(fiber.Map{
				"message": "Validation error",
				"errors":  err.Error(),
				"success": false,
				"status":  400,
			})
		}

		status := models.StatusNotStarted
		if req.Status != "" {
			status = models.NormalizeStatus(req.Status)
			if !models.ValidStatus(status) {
				return invalidField(c, "status")
			}
		}
		priority := models.PriorityMedium
		if req.Priority != "" {
			priority = models.NormalizeStatus(req.Priority)
			if !models.ValidPriority(priority) {
				return invalidField(c, "priority")
			}
		}

		snap, err := d.Agg.Load(c.Context())
		if err != nil {
			return fetchFailed(c, err)
		}
		visible := visibleProjectIDs(sess, snap)
		if sess.User.Role != auth.RoleAdmin && !visible[req.ProjectID] {
			return forbidden(c, sess, "create task in project "+req.ProjectID)
		}

		assignee := req.Assignee
		if sess.User.Role != auth.RoleAdmin {
			// non-admin hanya boleh assign ke dirinya sendiri
			assignee = sess.User.ID
		}

		var created models.Task
		err = d.Store.Create(c.Context(), store.ResourceTasks, models.Task{
			Task:      req.Task,
			Assignee:  assignee,
			ProjectID: req.ProjectID,
			Status:    status,
			Priority:  priority,
			DueDate:   req.DueDate,
		}, &created)
		if err != nil {
			return fetchFailed(c, err)
		}

		logger.AuditLogger.Info("Task created",
			zap.String("id", created.ID), zap.String("project_id", created.ProjectID))
		return c.Status(201).JSON(fiber.Map{
			"message": "Task created successfully",
			"success": true,
			"status":  201,
			"data":    created,
		})
	}
}

// UpdateTask memperbarui sebagian field task. Admin atau assignee.
func UpdateTask(d Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := middleware.SessionFrom(c)
		taskID := c.Params("id")

		var current models.Task
		if err := d.Store.Get(c.Context(), store.ResourceTasks, taskID, &current); err != nil {
			if store.IsNotFound(err) {
				return c.Status(404).JSON(fiber.Map{
					"message": "Task not found",
					"success": false,
					"status":  404,
				})
			}
			return fetchFailed(c, err)
		}

		if sess.User.Role != auth.RoleAdmin && current.Assignee != sess.User.ID {
			return forbidden(c, sess, "update task "+taskID)
		}

		// pointer supaya field yang tidak dikirim tidak ikut berubah
		type TaskUpdateRequest struct {
			Task      *string `json:"task"`
			Assignee  *string `json:"assignee"`
			ProjectID *string `json:"projectId"`
			Status    *string `json:"status"`
			Priority  *string `json:"priority"`
			DueDate   *string `json:"dueDate"`
		}

		var req TaskUpdateRequest
		if err := c.BodyParser(&req); err != nil {
			logger.ErrorLogger.Error("Bad request in update task", zap.Error(err))
			return c.Status(400).JSON(fiber.Map{
				"message": "Bad request",
				"success": false,
				"status":  400,
			})
		}

		if req.Task != nil {
			current.Task = *req.Task
		}
		if req.Assignee != nil {
			if sess.User.Role != auth.RoleAdmin {
				return forbidden(c, sess, "reassign task "+taskID)
			}
			current.Assignee = *req.Assignee
		}
		if req.ProjectID != nil {
			// non-admin tidak boleh memindahkan task ke project yang
			// tidak visible untuknya
			if sess.User.Role != auth.RoleAdmin && *req.ProjectID != current.ProjectID {
				snap, err := d.Agg.Load(c.Context())
				if err != nil {
					return fetchFailed(c, err)
				}
				if !visibleProjectIDs(sess, snap)[*req.ProjectID] {
					return forbidden(c, sess, "move task "+taskID+" to project "+*req.ProjectID)
				}
			}
			current.ProjectID = *req.ProjectID
		}
		if req.Status != nil {
			s := models.NormalizeStatus(*req.Status)
			if !models.ValidStatus(s) {
				return invalidField(c, "status")
			}
			current.Status = s
		}
		if req.Priority != nil {
			p := models.NormalizeStatus(*req.Priority)
			if !models.ValidPriority(p) {
				return invalidField(c, "priority")
			}
			current.Priority = p
		}
		if req.DueDate != nil {
			current.DueDate = req.DueDate
		}

		var updated models.Task
		if err := d.Store.Update(c.Context(), store.ResourceTasks, taskID, current, &updated); err != nil {
			return fetchFailed(c, err)
		}

		logger.AuditLogger.Info("Task updated", zap.String("id", taskID))
		return c.JSON(fiber.Map{
			"message": "Task updated successfully",
			"success": true,
			"status":  200,
			"data":    updated,
		})
	}
}

// DeleteTask menghapus task. Hanya admin.
func DeleteTask(d Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := middleware.SessionFrom(c)
		taskID := c.Params("id")

		if sess.User.Role != auth.RoleAdmin {
			return forbidden(c, sess, "delete task "+taskID)
		}

		if err := d.Store.Delete(c.Context(), store.ResourceTasks, taskID); err != nil {
			if store.IsNotFound(err) {
				return c.Status(404).JSON(fiber.Map{
					"message": "Task not found",
					"success": false,
					"status":  404,
				})
			}
			return fetchFailed(c, err)
		}

		logger.AuditLogger.Info("Task deleted", zap.String("id", taskID))
		return c.JSON(fiber.Map{
			"message": "Task deleted successfully",
			"success": true,
			"status":  200,
		})
	}
}

func invalidField(c *fiber.Ctx, field string) error {
	return c.Status(400).JSON(fiber.Map{
		"message": "Invalid " + field,
		"success": false,
		"status":  400,
	})
}
