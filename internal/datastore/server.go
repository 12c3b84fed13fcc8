package datastore

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"konsol-admin/pkg/logger"
)

// Server adalah REST store generik berbasis satu file JSON. Setiap
// top-level key di file adalah sebuah collection (array of object).
// Semua write langsung dipersist ulang ke file.
type Server struct {
	mu          sync.RWMutex
	path        string
	collections map[string][]map[string]any
}

// New memuat database dari file JSON di path. File yang belum ada
// dianggap database kosong.
func New(path string) (*Server, error) {
	s := &Server{
		path:        path,
		collections: make(map[string][]map[string]any),
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, &s.collections); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return s, nil
}

// persist menulis ulang seluruh database ke file. Dipanggil dengan
// write lock sudah dipegang.
func (s *Server) persist() {
	raw, err := json.MarshalIndent(s.collections, "", "  ")
	if err != nil {
		logger.ErrorLogger.Error("Failed to marshal database", zap.Error(err))
		return
	}
	if err := os.WriteFile(s.path, raw, 0644); err != nil {
		logger.ErrorLogger.Error("Failed to persist database",
			zap.String("path", s.path), zap.Error(err))
	}
}

// idOf mengembalikan id record sebagai string. Id boleh string maupun
// number di file, keduanya dicocokkan lewat representasi string.
func idOf(record map[string]any) string {
	v, ok := record["id"]
	if !ok {
		return ""
	}
	if f, ok := v.(float64); ok && f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%v", v)
}

func (s *Server) find(resource, id string) (int, map[string]any) {
	for i, record := range s.collections[resource] {
		if idOf(record) == id {
			return i, record
		}
	}
	return -1, nil
}

func notFound(c *fiber.Ctx) error {
	return c.Status(404).JSON(fiber.Map{"error": "Not found"})
}

// App membangun fiber app dengan seluruh route CRUD generik.
func (s *Server) App() *fiber.App {
	app := fiber.New()
	app.Use(cors.New())

	// relasi bersarang: project milik satu employee
	app.Get("/employees/:id/projects", func(c *fiber.Ctx) error {
		s.mu.RLock()
		defer s.mu.RUnlock()

		id := c.Params("id")
		if _, record := s.find("employees", id); record == nil {
			return notFound(c)
		}
		projects := make([]map[string]any, 0)
		for _, p := range s.collections["projects"] {
			if fmt.Sprintf("%v", p["employeeId"]) == id {
				projects = append(projects, p)
			}
		}
		return c.JSON(projects)
	})

	app.Get("/:resource", func(c *fiber.Ctx) error {
		s.mu.RLock()
		defer s.mu.RUnlock()

		records, ok := s.collections[c.Params("resource")]
		if !ok {
			return notFound(c)
		}
		if records == nil {
			records = []map[string]any{}
		}
		return c.JSON(records)
	})

	app.Get("/:resource/:id", func(c *fiber.Ctx) error {
		s.mu.RLock()
		defer s.mu.RUnlock()

		_, record := s.find(c.Params("resource"), c.Params("id"))
		if record == nil {
			return notFound(c)
		}
		return c.JSON(record)
	})

	app.Post("/:resource", func(c *fiber.Ctx) error {
		var record map[string]any
		if err := c.BodyParser(&record); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid body"})
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		resource := c.Params("resource")
		if idOf(record) == "" {
			record["id"] = uuid.New().String()
		}
		s.collections[resource] = append(s.collections[resource], record)
		s.persist()
		return c.Status(201).JSON(record)
	})

	app.Put("/:resource/:id", func(c *fiber.Ctx) error {
		var patch map[string]any
		if err := c.BodyParser(&patch); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid body"})
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		resource := c.Params("resource")
		i, record := s.find(resource, c.Params("id"))
		if record == nil {
			return notFound(c)
		}
		// merge: field yang dikirim menimpa, id tidak boleh berubah
		for k, v := range patch {
			if k == "id" {
				continue
			}
			record[k] = v
		}
		s.collections[resource][i] = record
		s.persist()
		return c.JSON(record)
	})

	app.Delete("/:resource/:id", func(c *fiber.Ctx) error {
		s.mu.Lock()
		defer s.mu.Unlock()

		resource := c.Params("resource")
		i, record := s.find(resource, c.Params("id"))
		if record == nil {
			return notFound(c)
		}
		s.collections[resource] = append(s.collections[resource][:i], s.collections[resource][i+1:]...)
		s.persist()
		return c.JSON(fiber.Map{})
	})

	return app
}
