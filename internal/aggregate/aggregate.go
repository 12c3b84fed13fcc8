package aggregate

import (
	"sort"

	"konsol-admin/internal/models"
)

// GroupKey menentukan kunci pengelompokan project index.
type GroupKey int

const (
	// KeyByID adalah mode kanonik: satu aggregate per project id.
	KeyByID GroupKey = iota
	// KeyByName mengelompokkan berdasarkan nama project untuk display.
	// Mode ini lossy: dua project berbeda dengan nama sama menjadi satu
	// aggregate dan hanya bisa dibedakan lewat ProjectIDs.
	KeyByName
)

// AggregatedProject adalah hasil join tiga collection menjadi satu
// record turunan. Owner dibangun sebagai set lalu diekspos sebagai
// slice terurut; set internalnya tidak pernah keluar dari fold.
type AggregatedProject struct {
	Key         string        `json:"key"`
	ProjectName string        `json:"projectName"`
	Description string        `json:"description,omitempty"`
	ProjectIDs  []string      `json:"projectIds"`
	OwnerIDs    []string      `json:"ownerIds"`
	Owners      []string      `json:"owners"`
	Tasks       []models.Task `json:"tasks"`
}

// BuildProjectIndex melipat (projects, tasks, employees) menjadi index
// aggregate. Fungsi ini murni: input tidak dimutasi, pemanggilan ulang
// dengan input sama menghasilkan aggregate yang identik. Input nil
// diperlakukan sebagai collection kosong.
func BuildProjectIndex(projects []models.Project, tasks []models.Task, employees []models.Employee, key GroupKey) map[string]*AggregatedProject {
	// nama employee per id untuk resolve owner
	names := make(map[string]string, len(employees))
	for _, emp := range employees {
		names[emp.ID] = emp.Name
	}

	// task per project id, supaya satu kali iterasi projects cukup
	tasksByProject := make(map[string][]models.Task)
	for _, t := range tasks {
		if t.ProjectID == "" {
			continue
		}
		tasksByProject[t.ProjectID] = append(tasksByProject[t.ProjectID], t)
	}

	index := make(map[string]*AggregatedProject)
	projectIDSeen := make(map[string]map[string]bool)
	ownerSeen := make(map[string]map[string]bool)
	taskSeen := make(map[string]map[string]bool)

	for _, p := range projects {
		k := p.ID
		if key == KeyByName {
			k = p.ProjectName
		}
		if k == "" {
			continue
		}

		entry, ok := index[k]
		if !ok {
			entry = &AggregatedProject{Key: k, ProjectName: p.ProjectName, Description: p.Description}
			index[k] = entry
			projectIDSeen[k] = make(map[string]bool)
			ownerSeen[k] = make(map[string]bool)
			taskSeen[k] = make(map[string]bool)
		}

		if p.ID != "" && !projectIDSeen[k][p.ID] {
			projectIDSeen[k][p.ID] = true
			entry.ProjectIDs = append(entry.ProjectIDs, p.ID)
		}

		if p.EmployeeID != "" && !ownerSeen[k][p.EmployeeID] {
			ownerSeen[k][p.EmployeeID] = true
			entry.OwnerIDs = append(entry.OwnerIDs, p.EmployeeID)
			if name, ok := names[p.EmployeeID]; ok && name != "" {
				entry.Owners = append(entry.Owners, name)
			} else {
				entry.Owners = append(entry.Owners, p.EmployeeID)
			}
		}

		// task dari collection tasks plus task yang embedded di record
		// project; rekonsiliasi per id supaya tidak double
		appendTasks(entry, taskSeen[k], tasksByProject[p.ID])
		appendTasks(entry, taskSeen[k], p.Tasks)
	}

	return index
}

func appendTasks(entry *AggregatedProject, seen map[string]bool, tasks []models.Task) {
	for _, t := range tasks {
		if t.ID != "" {
			if seen[t.ID] {
				continue
			}
			seen[t.ID] = true
		}
		entry.Tasks = append(entry.Tasks, t)
	}
}

// List mengembalikan isi index sebagai slice terurut (nama project,
// lalu key) supaya output handler deterministik.
func List(index map[string]*AggregatedProject) []*AggregatedProject {
	out := make([]*AggregatedProject, 0, len(index))
	for _, entry := range index {
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProjectName != out[j].ProjectName {
			return out[i].ProjectName < out[j].ProjectName
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// FlattenEmployeeProjects mengangkat project yang embedded di record
// employee (bentuk dataset lama) menjadi project berdiri sendiri.
// EmployeeID diisi dari pemiliknya bila kosong.
func FlattenEmployeeProjects(employees []models.Employee) []models.Project {
	var projects []models.Project
	for _, emp := range employees {
		for _, p := range emp.Projects {
			if p.EmployeeID == "" {
				p.EmployeeID = emp.ID
			}
			projects = append(projects, p)
		}
	}
	return projects
}

// MergeProjects menggabungkan dua sumber project dan membuang duplikat
// berdasarkan id. Project tanpa id tetap ikut (tidak bisa direkonsiliasi).
func MergeProjects(primary, secondary []models.Project) []models.Project {
	seen := make(map[string]bool, len(primary))
	merged := make([]models.Project, 0, len(primary)+len(secondary))
	for _, p := range primary {
		if p.ID != "" {
			seen[p.ID] = true
		}
		merged = append(merged, p)
	}
	for _, p := range secondary {
		if p.ID != "" && seen[p.ID] {
			continue
		}
		if p.ID != "" {
			seen[p.ID] = true
		}
		merged = append(merged, p)
	}
	return merged
}
