package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"

	"konsol-admin/internal/auth"
	"konsol-admin/internal/config"
	"konsol-admin/internal/middleware"
	"konsol-admin/internal/store"
	"konsol-admin/pkg/logger"
)

// Auth handlers

// Login meng-autentikasi email+password terhadap daftar employee lalu
// mengembalikan user tersanitasi beserta bearer token untuk request
// berikutnya.
func Login(d Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// struct LoginRequest menerima inputan dari user
		type LoginRequest struct {
			Email    string `json:"email" validate:"required"`
			Password string `json:"password" validate:"required"`
		}

		var req LoginRequest
		if err := c.BodyParser(&req); err != nil {
			logger.ErrorLogger.Error("Bad request in login", zap.Error(err))
			return c.Status(400).JSON(fiber.Map{
				"message": "Bad request",
				"success": false,
				"status":  400,
			})
		}

		// Validasi dengan validator
		if err := config.Validate.Struct(req); err != nil {
			logger.AuditLogger.Warn("Validation error during login", zap.Error(err))
			return c.Status(400).JSON(fiber.Map{
				"message": "Validation error",
				"errors":  err.Error(),
				"success": false,
				"status":  400,
			})
		}

		sid, user, err := d.Auth.Login(c.Context(), req.Email, req.Password)
		if err != nil {
			return loginError(c, err)
		}

		// Bungkus session id ke dalam token JWT dengan expiry
		tokenString, err := middleware.SignToken(sid, d.Secret, jwt.MapClaims{
			"exp": time.Now().Add(d.TokenTTL).Unix(),
		})
		if err != nil {
			logger.ErrorLogger.Error("Error generating token", zap.Error(err))
			return c.Status(500).JSON(fiber.Map{
				"message": "Error generating token",
				"success": false,
				"status":  500,
			})
		}

		return c.JSON(fiber.Map{
			"message": "Login success",
			"success": true,
			"status":  200,
			"data": fiber.Map{
				"token": tokenString,
				"user":  user,
			},
		})
	}
}

// loginError memetakan error autentikasi ke status + pesan form.
func loginError(c *fiber.Ctx, err error) error {
	var fetchErr *store.FetchError
	switch {
	case errors.Is(err, auth.ErrInvalidFormat):
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid email format",
			"success": false,
			"status":  400,
		})
	case errors.Is(err, auth.ErrPasswordTooShort):
		return c.Status(400).JSON(fiber.Map{
			"message": "Password too short",
			"success": false,
			"status":  400,
		})
	case errors.Is(err, auth.ErrNotFound):
		return c.Status(404).JSON(fiber.Map{
			"message": "No employee found with this email",
			"success": false,
			"status":  404,
		})
	case errors.Is(err, auth.ErrWrongPassword):
		return c.Status(401).JSON(fiber.Map{
			"message": "Invalid password",
			"success": false,
			"status":  401,
		})
	case errors.As(err, &fetchErr):
		return fetchFailed(c, err)
	default:
		logger.ErrorLogger.Error("Error during login", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error during login",
			"success": false,
			"status":  500,
		})
	}
}

// Logout menghapus sesi tersimpan. Idempoten: tanpa sesi pun tetap 200.
func Logout(d Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := middleware.SessionIDFrom(c)
		if err := d.Auth.Logout(c.Context(), sid); err != nil {
			logger.ErrorLogger.Error("Error during logout", zap.Error(err))
			return c.Status(500).JSON(fiber.Map{
				"message": "Error during logout",
				"success": false,
				"status":  500,
			})
		}
		return c.JSON(fiber.Map{
			"message": "Logged out",
			"success": true,
			"status":  200,
		})
	}
}

// Root adalah halaman publik. Kembali ke root sambil membawa sesi
// berarti sesi tersebut di-drop paksa (aturan logout-on-return-home).
func Root(d Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := middleware.SessionIDFrom(c)
		sess := middleware.SessionFrom(c)
		if sess.State == auth.StateAuthenticated && sid != "" {
			if err := d.Auth.Logout(c.Context(), sid); err != nil {
				logger.ErrorLogger.Error("Error dropping session on root", zap.Error(err))
			} else {
				logger.AuditLogger.Info("Session dropped on return to root",
					zap.String("session_id", sid))
			}
		}
		return c.JSON(fiber.Map{
			"message": "Workforce admin console",
			"success": true,
			"status":  200,
			"data": fiber.Map{
				"login": "POST /api/v1/login",
			},
		})
	}
}

// Unauthorized adalah tujuan redirect route guard saat permission kurang.
func Unauthorized() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Status(403).JSON(fiber.Map{
			"message": "You don't have permission to view this page",
			"success": false,
			"status":  403,
		})
	}
}

// NotFound adalah catch-all untuk route yang tidak dikenal.
func NotFound() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Status(404).JSON(fiber.Map{
			"message": "Page not found",
			"success": false,
			"status":  404,
		})
	}
}

// fetchFailed membalas kegagalan memuat collection sebagai error yang
// bisa di-retry; tidak pernah fatal untuk proses.
func fetchFailed(c *fiber.Ctx, err error) error {
	logger.ErrorLogger.Error("Error fetching collection", zap.Error(err))
	return c.Status(502).JSON(fiber.Map{
		"message": "Error loading data, please retry",
		"success": false,
		"status":  502,
	})
}
