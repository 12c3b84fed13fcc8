package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"

	"konsol-admin/internal/auth"
	"konsol-admin/pkg/logger"
)

// Key di fiber locals untuk sesi hasil restore.
const (
	SessionLocal   = "session"
	SessionIDLocal = "sessionID"
)

// SignToken membungkus session id ke dalam JWT HS256 dengan expiry.
func SignToken(sid string, secret []byte, claims jwt.MapClaims) (string, error) {
	claims["sid"] = sid
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// UseSession me-restore sesi dari bearer token di setiap request dan
// menaruhnya di locals. Token yang absen, rusak, atau kedaluwarsa
// menghasilkan sesi Unauthenticated; keputusan tolak/izinkan ada di
// route guard, bukan di sini, supaya redirect-nya sesuai aturan guard.
func UseSession(mgr *auth.Manager, secret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := sessionIDFromRequest(c, secret)
		sess := mgr.Restore(c.Context(), sid)

		c.Locals(SessionLocal, sess)
		c.Locals(SessionIDLocal, sid)
		return c.Next()
	}
}

func sessionIDFromRequest(c *fiber.Ctx, secret []byte) string {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		logger.SecurityLogger.Warn("Invalid session token", zap.Error(err))
		return ""
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}
	sid, ok := claims["sid"].(string)
	if !ok {
		return ""
	}
	return sid
}

// SessionFrom mengambil sesi hasil UseSession dari locals.
func SessionFrom(c *fiber.Ctx) auth.Session {
	if sess, ok := c.Locals(SessionLocal).(auth.Session); ok {
		return sess
	}
	return auth.Session{State: auth.StateUnauthenticated}
}

// SessionIDFrom mengambil session id mentah dari locals (untuk logout).
func SessionIDFrom(c *fiber.Ctx) string {
	if sid, ok := c.Locals(SessionIDLocal).(string); ok {
		return sid
	}
	return ""
}
