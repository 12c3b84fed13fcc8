package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"konsol-admin/internal/models"
	"konsol-admin/pkg/logger"
)

// Error autentikasi. Selalu dikembalikan sebagai nilai, tidak pernah
// lewat panic; semuanya recoverable dan layak ditampilkan di form.
var (
	ErrInvalidFormat    = errors.New("invalid email format")
	ErrPasswordTooShort = errors.New("password too short")
	ErrNotFound         = errors.New("no employee found with this email")
	ErrWrongPassword    = errors.New("invalid password")
)

// State sesi: tiga keadaan, transisi murni.
type State int

const (
	StateUnauthenticated State = iota
	StateRestoring
	StateAuthenticated
)

// Session adalah nilai state sesi per pemegang token. Hanya Manager
// yang memutasi storage di baliknya; Session sendiri immutable.
type Session struct {
	State State
	User  *models.AuthUser
}

// InitialSession: belum tahu apa-apa, sedang menunggu restore.
func InitialSession() Session {
	return Session{State: StateRestoring}
}

// Login mentransisikan sesi menjadi Authenticated dengan user terkait.
func (s Session) Login(user *models.AuthUser) Session {
	return Session{State: StateAuthenticated, User: user}
}

// Logout mengosongkan sesi tanpa syarat.
func (s Session) Logout() Session {
	return Session{State: StateUnauthenticated}
}

// Restore menyelesaikan fase restore: ada record berarti Authenticated,
// tidak ada berarti Unauthenticated.
func (s Session) Restore(user *models.AuthUser) Session {
	if user == nil {
		return Session{State: StateUnauthenticated}
	}
	return Session{State: StateAuthenticated, User: user}
}

// HasPermission adalah predikat murni: true hanya jika sesi
// ter-autentikasi dan daftar permission user memuat tag. Tidak pernah
// error saat unauthenticated.
func (s Session) HasPermission(tag string) bool {
	if s.State != StateAuthenticated || s.User == nil {
		return false
	}
	for _, p := range s.User.Permissions {
		if p == tag {
			return true
		}
	}
	return false
}

// Directory menyediakan daftar employee mentah untuk lookup kredensial.
type Directory interface {
	Employees(ctx context.Context) ([]models.Employee, error)
}

// Manager adalah satu-satunya penulis session storage: authenticate,
// restore, dan logout semuanya lewat sini. Dependensinya di-inject,
// tidak ada state global.
type Manager struct {
	dir      Directory
	sessions SessionStore
}

func NewManager(dir Directory, sessions SessionStore) *Manager {
	return &Manager{dir: dir, sessions: sessions}
}

// Sanitize membuang password dari record employee lalu melekatkan role
// hasil resolve dan daftar permission-nya. Password mentah tidak pernah
// keluar dari fungsi ini.
func Sanitize(emp models.Employee) models.AuthUser {
	role := ResolveRole(emp.Role)
	return models.AuthUser{
		ID:          emp.ID,
		Name:        emp.Name,
		Email:       emp.Email,
		Department:  emp.Department,
		Role:        role,
		Permissions: PermissionsFor(role),
		Projects:    emp.Projects,
	}
}

// Authenticate memverifikasi kredensial terhadap daftar employee.
// Urutan pemeriksaan tetap: format email, panjang password, lookup
// (case-insensitive pada email), lalu pencocokan password apa adanya
// (store menyimpan password plaintext; hashing memang di luar scope).
func (m *Manager) Authenticate(ctx context.Context, email, password string) (models.AuthUser, error) {
	if !strings.Contains(email, "@") {
		return models.AuthUser{}, ErrInvalidFormat
	}
	if len(password) < 6 {
		return models.AuthUser{}, ErrPasswordTooShort
	}

	employees, err := m.dir.Employees(ctx)
	if err != nil {
		return models.AuthUser{}, err
	}

	var emp *models.Employee
	needle := strings.ToLower(email)
	for i := range employees {
		if strings.ToLower(employees[i].Email) == needle {
			emp = &employees[i]
			break
		}
	}
	if emp == nil {
		logger.SecurityLogger.Warn("Employee not found", zap.String("email", needle))
		return models.AuthUser{}, ErrNotFound
	}
	if emp.Password != password {
		logger.SecurityLogger.Warn("Invalid password", zap.String("email", needle))
		return models.AuthUser{}, ErrWrongPassword
	}

	return Sanitize(*emp), nil
}

// Login menjalankan Authenticate lalu mempersist user tersanitasi ke
// session storage di bawah session id baru.
func (m *Manager) Login(ctx context.Context, email, password string) (string, models.AuthUser, error) {
	user, err := m.Authenticate(ctx, email, password)
	if err != nil {
		return "", models.AuthUser{}, err
	}

	sid := uuid.NewString()
	if err := m.sessions.Set(ctx, sid, user); err != nil {
		return "", models.AuthUser{}, err
	}

	logger.AuditLogger.Info("Login success",
		zap.String("user_id", user.ID), zap.String("role", user.Role))
	return sid, user, nil
}

// Restore menghidupkan kembali sesi dari storage. Session id kosong
// atau tidak dikenal menghasilkan Unauthenticated, bukan error.
func (m *Manager) Restore(ctx context.Context, sid string) Session {
	sess := InitialSession()
	if sid == "" {
		return sess.Restore(nil)
	}
	user, err := m.sessions.Get(ctx, sid)
	if err != nil {
		if !errors.Is(err, ErrSessionNotFound) {
			logger.ErrorLogger.Error("Error restoring session", zap.Error(err))
		}
		return sess.Restore(nil)
	}
	return sess.Restore(&user)
}

// Logout menghapus sesi dari storage. Idempoten: menghapus sesi yang
// sudah tidak ada tetap sukses.
func (m *Manager) Logout(ctx context.Context, sid string) error {
	if sid == "" {
		return nil
	}
	if err := m.sessions.Delete(ctx, sid); err != nil {
		return err
	}
	logger.AuditLogger.Info("Logout", zap.String("session_id", sid))
	return nil
}

// VisibleEmployees menerapkan aturan visibilitas data employee: admin
// melihat seluruh daftar tanpa password, selain admin hanya melihat
// record dirinya sendiri. Aturan ini wajib dipakai di setiap handler
// yang mengeluarkan data employee.
func VisibleEmployees(sess Session, employees []models.Employee) []models.AuthUser {
	if sess.State != StateAuthenticated || sess.User == nil {
		return []models.AuthUser{}
	}
	if sess.User.Role == RoleAdmin {
		out := make([]models.AuthUser, 0, len(employees))
		for _, emp := range employees {
			out = append(out, Sanitize(emp))
		}
		return out
	}
	return []models.AuthUser{*sess.User}
}
