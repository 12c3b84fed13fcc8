package models

import "strings"

// Employee adalah record mentah dari collection "employees".
// Password ikut terbawa dari data store; model ini TIDAK boleh
// dikirim ke luar tanpa melalui sanitasi (lihat package auth).
// Beberapa generasi dataset menyimpan project langsung di dalam
// record employee, sehingga field Projects bersifat opsional.
type Employee struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Password   string    `json:"password,omitempty"`
	Department string    `json:"department,omitempty"`
	Role       string    `json:"role,omitempty"`
	Projects   []Project `json:"projects,omitempty"`
}

// Project adalah record mentah dari collection "projects".
// EmployeeID menunjuk ke satu employee pembuat; keterkaitan
// employee lain terjadi lewat task assignment.
type Project struct {
	ID          string `json:"id"`
	ProjectName string `json:"projectName"`
	Description string `json:"description,omitempty"`
	EmployeeID  string `json:"employeeId,omitempty"`
	Tasks       []Task `json:"tasks,omitempty"`
}

// Task adalah record mentah dari collection "tasks".
type Task struct {
	ID        string  `json:"id"`
	Task      string  `json:"task"`
	Assignee  string  `json:"assignee,omitempty"`
	ProjectID string  `json:"projectId,omitempty"`
	Status    string  `json:"status,omitempty"`
	Priority  string  `json:"priority,omitempty"`
	DueDate   *string `json:"dueDate,omitempty"`
}

// AuthUser adalah employee yang sudah disanitasi: password dibuang,
// role sudah diresolve, dan daftar permission sudah dilekatkan.
// Record inilah yang dipersist ke session storage.
type AuthUser struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Department  string    `json:"department,omitempty"`
	Role        string    `json:"role"`
	Permissions []string  `json:"permissions"`
	Projects    []Project `json:"projects,omitempty"`
}

// Status task yang valid setelah dinormalisasi.
const (
	StatusNotStarted = "not-started"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
)

// Prioritas task yang valid.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// NormalizeStatus menyeragamkan casing status sebelum dibandingkan:
// "Not Started", "not started", dan "not-started" semuanya menjadi
// "not-started".
func NormalizeStatus(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.ReplaceAll(s, " ", "-")
}

// ValidStatus memeriksa apakah status termasuk salah satu dari:
// not-started, in-progress, completed (setelah dinormalisasi).
func ValidStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusNotStarted, StatusInProgress, StatusCompleted:
		return true
	default:
		return false
	}
}

// ValidPriority memeriksa prioritas task: low, medium, high.
func ValidPriority(priority string) bool {
	switch strings.ToLower(strings.TrimSpace(priority)) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}
