package handlers

import (
	"github.com/gofiber/fiber/v2"

	"konsol-admin/internal/aggregate"
	"konsol-admin/internal/models"
)

// Dashboard mengembalikan ringkasan untuk halaman dashboard: jumlah
// project (dikelompokkan per nama, sesuai tampilan), jumlah employee,
// dan breakdown task per status.
func Dashboard(d Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		snap, err := d.Agg.Load(c.Context())
		if err != nil {
			return fetchFailed(c, err)
		}

		// dashboard menghitung project hasil grouping nama (display)
		index := snap.ProjectIndex(aggregate.KeyByName)

		byStatus := fiber.Map{
			models.StatusNotStarted: 0,
			models.StatusInProgress: 0,
			models.StatusCompleted:  0,
		}
		for _, t := range snap.Tasks {
			status := models.NormalizeStatus(t.Status)
			if n, ok := byStatus[status].(int); ok {
				byStatus[status] = n + 1
			}
		}

		return c.JSON(fiber.Map{
			"message": "Dashboard stats",
			"success": true,
			"status":  200,
			"data": fiber.Map{
				"totalProjects":  len(index),
				"totalEmployees": len(snap.Employees),
				"totalTasks":     len(snap.Tasks),
				"tasksByStatus":  byStatus,
			},
		})
	}
}
