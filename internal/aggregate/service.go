package aggregate

import (
	"context"
	"sync"

	"konsol-admin/internal/models"
	"konsol-admin/internal/store"
)

// Snapshot adalah potret tiga collection sumber yang sudah resolve
// seluruhnya. Aggregate tidak pernah dihitung dari fetch yang masih
// setengah jalan.
type Snapshot struct {
	Employees []models.Employee
	Projects  []models.Project
	Tasks     []models.Task
}

// Service memuat snapshot dari data store dan membangun aggregate.
type Service struct {
	store *store.Client
}

func NewService(c *store.Client) *Service {
	return &Service{store: c}
}

// Load mengambil employees, projects, dan tasks secara paralel dan
// baru mengembalikan snapshot setelah ketiganya selesai. Jika ada yang
// gagal, error pertama menurut urutan tetap employees, projects, tasks
// yang dilaporkan, supaya deterministik.
func (s *Service) Load(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	var errEmployees, errProjects, errTasks error

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		snap.Employees, errEmployees = s.store.Employees(ctx)
	}()
	go func() {
		defer wg.Done()
		snap.Projects, errProjects = s.store.Projects(ctx)
	}()
	go func() {
		defer wg.Done()
		snap.Tasks, errTasks = s.store.Tasks(ctx)
	}()
	wg.Wait()

	for _, err := range []error{errEmployees, errProjects, errTasks} {
		if err != nil {
			return Snapshot{}, err
		}
	}
	return snap, nil
}

// AllProjects menggabungkan collection projects dengan project yang
// embedded di record employee, direkonsiliasi per id.
func (snap Snapshot) AllProjects() []models.Project {
	return MergeProjects(snap.Projects, FlattenEmployeeProjects(snap.Employees))
}

// ProjectIndex membangun index aggregate dari snapshot ini.
func (snap Snapshot) ProjectIndex(key GroupKey) map[string]*AggregatedProject {
	return BuildProjectIndex(snap.AllProjects(), snap.Tasks, snap.Employees, key)
}
