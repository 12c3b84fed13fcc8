package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"konsol-admin/internal/auth"
	"konsol-admin/internal/config"
	"konsol-admin/internal/middleware"
	"konsol-admin/internal/models"
	"konsol-admin/internal/store"
	"konsol-admin/pkg/logger"
)

// Employee handlers

// ListEmployees mengembalikan daftar employee yang visible untuk sesi
// ini: admin melihat semua (tanpa password), selain admin hanya record
// dirinya sendiri.
func ListEmployees(d Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := middleware.SessionFrom(c)

		employees, err := d.Store.Employees(c.Context())
		if err != nil {
			return fetchFailed(c, err)
		}

		return c.JSON(fiber.Map{
			"message": "Employees fetched successfully",
			"success": true,
			"status":  200,
			"data":    auth.VisibleEmployees(sess, employees),
		})
	}
}

// GetEmployee mengambil satu employee. Admin boleh mengakses siapa
// saja, selain admin hanya record dirinya sendiri.
func GetEmployee(d Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := middleware.SessionFrom(c)
		targetID := c.Params("id")

		// Periksa apakah user memiliki izin untuk melihat employee ini
		if sess.User.Role != auth.RoleAdmin && sess.User.ID != targetID {
			logger.SecurityLogger.Warn("Forbidden",
				zap.String("role", sess.User.Role),
				zap.String("user_id", sess.User.ID),
				zap.String("target_id", targetID))
			return c.Status(403).JSON(fiber.Map{
				"message": "Forbidden",
				"success": false,
				"status":  403,
			})
		}

		var emp models.Employee
		if err := d.Store.Get(c.Context(), store.ResourceEmployees, targetID, &emp); err != nil {
			logger.SecurityLogger.Warn("Employee not found", zap.Error(err))
			return c.Status(404).JSON(fiber.Map{
				"message": "Employee not found",
				"success": false,
				"status":  404,
			})
		}

		return c.JSON(fiber.Map{
			"message": "Employee found",
			"success": true,
			"status":  200,
			"data":    auth.Sanitize(emp),
		})
	}
}

// CreateEmployee menambahkan employee baru. Hanya admin.
func CreateEmployee(d Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := middleware.SessionFrom(c)
		if sess.User.Role != auth.RoleAdmin {
			return forbidden(c, sess, "create employee")
		}

		// struct EmployeeRequest menerima inputan dari user
		type EmployeeRequest struct {
			Name       string `json:"name" validate:"required"`
			Email      string `json:"email" validate:"required,email"`
			Password   string `json:"password" validate:"required,min=6"`
			Department string `json:"department"`
			Role       string `json:"role"`
		}

		var req EmployeeRequest
		if err := c.BodyParser(&req); err != nil {
			logger.ErrorLogger.Error("Bad request in create employee", zap.Error(err))
			return c.Status(400).JSON(fiber.Map{
				"message": "Bad request",
				"success": false,
				"status":  400,
			})
		}

		if err := config.Validate.Struct(req); err != nil {
			logger.AuditLogger.Warn("Validation error during create employee", zap.Error(err))
			return c.Status(400).JSON(fiber.Map{
				"message": "Validation error",
				"errors":  err.Error(),
				"success": false,
				"status":  400,
			})
		}

		var created models.Employee
		err := d.Store.Create(c.Context(), store.ResourceEmployees, models.Employee{
			Name:       req.Name,
			Email:      req.Email,
			Password:   req.Password,
			Department: req.Department,
			Role:       auth.ResolveRole(req.Role),
		}, &created)
		if err != nil {
			return fetchFailed(c, err)
		}

		logger.AuditLogger.Info("Employee created", zap.String("id", created.ID))
		return c.Status(201).JSON(fiber.Map{
			"message": "Employee created successfully",
			"success": true,
			"status":  201,
			"data":    auth.Sanitize(created),
		})
	}
}

// UpdateEmployee memperbarui field yang dikirim saja. Admin boleh
// memperbarui siapa saja, selain admin hanya dirinya sendiri.
func UpdateEmployee(d Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := middleware.SessionFrom(c)
		targetID := c.Params("id")

		if sess.User.Role != auth.RoleAdmin && sess.User.ID != targetID {
			return forbidden(c, sess, "update employee")
		}

		// pointer (*) untuk menandakan bahwa field bisa kosong
		type UpdateEmployeeRequest struct {
			Name       *string `json:"name"`
			Email      *string `json:"email"`
			Password   *string `json:"password"`
			Department *string `json:"department"`
			Role       *string `json:"role"`
		}

		var req UpdateEmployeeRequest
		if err := c.BodyParser(&req); err != nil {
			logger.ErrorLogger.Error("Bad request in update employee", zap.Error(err))
			return c.Status(400).JSON(fiber.Map{
				"message": "Bad request",
				"success": false,
				"status":  400,
			})
		}

		var emp models.Employee
		if err := d.Store.Get(c.Context(), store.ResourceEmployees, targetID, &emp); err != nil {
			return c.Status(404).JSON(fiber.Map{
				"message": "Employee not found",
				"success": false,
				"status":  404,
			})
		}

		if req.Name != nil {
			emp.Name = *req.Name
		}
		if req.Email != nil {
			emp.Email = *req.Email
		}
		if req.Password != nil {
			if len(*req.Password) < 6 {
				return c.Status(400).JSON(fiber.Map{
					"message": "Password too short",
					"success": false,
					"status":  400,
				})
			}
			emp.Password = *req.Password
		}
		if req.Department != nil {
			emp.Department = *req.Department
		}
		// hanya admin yang boleh mengganti role
		if req.Role != nil && sess.User.Role == auth.RoleAdmin {
			emp.Role = auth.ResolveRole(*req.Role)
		}

		var updated models.Employee
		if err := d.Store.Update(c.Context(), store.ResourceEmployees, targetID, emp, &updated); err != nil {
			return fetchFailed(c, err)
		}

		logger.AuditLogger.Info("Employee updated", zap.String("id", targetID))
		return c.JSON(fiber.Map{
			"message": "Employee updated successfully",
			"success": true,
			"status":  200,
			"data":    auth.Sanitize(updated),
		})
	}
}

// DeleteEmployee menghapus employee. Hanya admin.
func DeleteEmployee(d Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := middleware.SessionFrom(c)
		targetID := c.Params("id")

		if sess.User.Role != auth.RoleAdmin {
			return forbidden(c, sess, "delete employee")
		}

		if err := d.Store.Delete(c.Context(), store.ResourceEmployees, targetID); err != nil {
			return fetchFailed(c, err)
		}

		logger.AuditLogger.Info("Employee deleted", zap.String("id", targetID))
		return c.JSON(fiber.Map{
			"message": "Employee deleted successfully",
			"success": true,
			"status":  200,
		})
	}
}

func forbidden(c *fiber.Ctx, sess auth.Session, action string) error {
	logger.SecurityLogger.Warn("Forbidden",
		zap.String("action", action),
		zap.String("role", sess.User.Role),
		zap.String("user_id", sess.User.ID))
	return c.Status(403).JSON(fiber.Map{
		"message": "Forbidden",
		"success": false,
		"status":  403,
	})
}
