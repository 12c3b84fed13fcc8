package middleware

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"konsol-admin/internal/auth"
	"konsol-admin/pkg/logger"
)

// Decision adalah hasil keputusan route guard.
type Decision int

const (
	// DecisionAllow: konten terlindung boleh dirender.
	DecisionAllow Decision = iota
	// DecisionRedirectRoot: belum login, arahkan ke root publik.
	DecisionRedirectRoot
	// DecisionRedirectUnauthorized: login tapi tidak punya permission.
	DecisionRedirectUnauthorized
	// DecisionSuspend: sesi masih di fase restore, jangan render apa-apa.
	DecisionSuspend
)

// Decide adalah fungsi keputusan murni (state sesi, permission tag) ->
// keputusan navigasi. Tidak ada efek samping di sini.
func Decide(sess auth.Session, tag string) Decision {
	switch sess.State {
	case auth.StateRestoring:
		return DecisionSuspend
	case auth.StateUnauthenticated:
		return DecisionRedirectRoot
	}
	if !sess.HasPermission(tag) {
		return DecisionRedirectUnauthorized
	}
	return DecisionAllow
}

// RequirePermission menjaga satu route group dengan permission tag.
// Di jalur HTTP, restore selesai sinkron di UseSession sehingga
// DecisionSuspend praktis tidak terjadi; kalau sampai terjadi, balas
// kosong tanpa redirect.
func RequirePermission(tag string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := SessionFrom(c)
		switch Decide(sess, tag) {
		case DecisionAllow:
			return c.Next()
		case DecisionRedirectRoot:
			return c.Redirect("/")
		case DecisionRedirectUnauthorized:
			logger.SecurityLogger.Warn("Permission denied",
				zap.String("tag", tag), zap.String("path", c.Path()))
			return c.Redirect("/unauthorized")
		default:
			return c.SendStatus(fiber.StatusNoContent)
		}
	}
}
